// =============================================================================
// Financial Dashboard - CSV Parser Module
// =============================================================================
//
// This module parses the delimited export of the financial sample into a
// record set. It handles:
//   - Configurable delimiters (semicolon by default for the sample export)
//   - Header normalization (trimmed, unique, never blank)
//   - Malformed lines, which are skipped instead of failing the whole load
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// utf8BOM is stripped from the first header when present.
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited file and returns the record set.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - delimiter: The field delimiter (";" , "," , "tab", "pipe", ...).
//
// RETURNS:
//   - The parsed record set.
//   - A *types.LoadError if the file is missing, unreadable or has no header.
//
// MALFORMED LINES:
//   - A line whose field count differs from the header is skipped.
//   - A line the CSV reader cannot tokenize is skipped.
//   - A line made only of delimiters or whitespace is skipped.
//   - Blank lines are ignored.
//   Skipped lines (all but blank ones) are counted in RecordSet.SkippedLines.
func Parse(filePath string, delimiter string) (*types.RecordSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.LoadError{Path: filePath, Err: err}
	}
	defer file.Close()

	rs, err := Read(bufio.NewReader(file), delimiter)
	if err != nil {
		return nil, &types.LoadError{Path: filePath, Err: err}
	}
	rs.SourceFile = filePath
	return rs, nil
}

// Read parses delimited data from r. It is the reader-level counterpart of
// Parse and applies the same header and malformed-line rules.
func Read(r io.Reader, delimiter string) (*types.RecordSet, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, delimiter)

	header, err := readHeader(csvReader)
	if err != nil {
		return nil, err
	}

	headers := CleanHeaders(header)
	rs := &types.RecordSet{
		Headers: headers,
		Rows:    []types.Row{},
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rs.SkippedLines++
				continue
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if len(record) != len(headers) || isRowEmpty(record) {
			rs.SkippedLines++
			continue
		}

		rs.Rows = append(rs.Rows, buildRow(headers, record))
	}

	return rs, nil
}

// configureReader configures the CSV reader for the given delimiter.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case ",", "comma":
		reader.Comma = ','
	default:
		if len(delimiter) > 0 {
			reader.Comma = []rune(delimiter)[0]
		} else {
			reader.Comma = ';'
		}
	}

	// Field counts are checked per line so that a malformed line is skipped
	// instead of failing the whole read.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
}

// readHeader returns the first non-blank line of the file.
func readHeader(reader *csv.Reader) ([]string, error) {
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("file has no header line")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		if !isRowEmpty(record) {
			return record, nil
		}
	}
}

// CleanHeaders trims column names and makes them unique.
//
// CLEANING OPERATIONS:
//   - Strip a UTF-8 byte order mark from the first name
//   - Trim whitespace
//   - Blank names become "Unnamed: <index>"
//   - Repeated names get a ".1", ".2", ... suffix
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	counts := make(map[string]int)

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		base := header
		for used[header] {
			counts[base]++
			header = fmt.Sprintf("%s.%d", base, counts[base])
		}
		used[header] = true

		cleaned[i] = header
	}

	return cleaned
}

// buildRow converts a record with one field per header to a row.
func buildRow(headers []string, record []string) types.Row {
	row := make(types.Row, len(headers))
	for i, header := range headers {
		row[header] = types.TextField(record[i])
	}
	return row
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
