package sales

import (
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/financial-dashboard/internal/csvparser"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
	"github.com/ginjaninja78/financial-dashboard/internal/xlsxparser"
)

// DefaultDelimiter is the delimiter of the financial sample export.
const DefaultDelimiter = ";"

// LoadOptions controls how the input file is read.
type LoadOptions struct {
	// Delimiter separates fields in delimited files.
	Delimiter string

	// Sheet selects the worksheet of an .xlsx input. Empty means the first one.
	Sheet string
}

// Load reads the record set at path using the given delimiter.
// Workbooks (.xlsx) are read from their first sheet.
func Load(path, delimiter string) (*types.RecordSet, error) {
	return LoadWithOptions(path, LoadOptions{Delimiter: delimiter})
}

// LoadWithOptions reads the record set at path. The loader is picked from the
// file extension. Every failure is a *types.LoadError.
func LoadWithOptions(path string, opts LoadOptions) (*types.RecordSet, error) {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(path, opts.Sheet)
	default:
		return csvparser.Parse(path, opts.Delimiter)
	}
}
