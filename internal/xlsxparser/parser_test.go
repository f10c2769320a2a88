package xlsxparser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// buildWorkbook writes rows to the first sheet of a new workbook.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "sample.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := buildWorkbook(t, "Sheet1", [][]interface{}{
		{" Segment ", "Country", "Sales"},
		{"Government", "Canada", 1500.0},
		{"Midmarket", "France", "$200,50"},
	})

	rs, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, path, rs.SourceFile)
	assert.Equal(t, []string{"Segment", "Country", "Sales"}, rs.Headers)
	require.Equal(t, 2, rs.Len())

	assert.Equal(t, types.TextField("Government"), rs.Rows[0]["Segment"])
	assert.True(t, rs.Rows[0]["Sales"].Numeric)
	assert.Equal(t, 1500.0, rs.Rows[0]["Sales"].Number)

	assert.False(t, rs.Rows[1]["Sales"].Numeric)
	assert.Equal(t, "$200,50", rs.Rows[1]["Sales"].Text)
}

func TestParseNamedSheet(t *testing.T) {
	path := buildWorkbook(t, "Vendas", [][]interface{}{
		{"Segment", "Sales"},
		{"Government", 1.0},
	})

	rs, err := Parse(path, "Vendas")
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())

	_, err = Parse(path, "Missing")
	var loadErr *types.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), `sheet "Missing" not found`)
}

func TestParseMalformedRows(t *testing.T) {
	path := buildWorkbook(t, "Sheet1", [][]interface{}{
		{},
		{"Segment", "Sales"},
		{"Government"},
		{"Midmarket", 2.0, "extra"},
		{"Enterprise", 3.0},
	})

	rs, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Segment", "Sales"}, rs.Headers)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, types.TextField(""), rs.Rows[0]["Sales"])
	assert.Equal(t, "Enterprise", rs.Rows[1]["Segment"].Text)
	assert.Equal(t, 1, rs.SkippedLines)
}

func TestParseEmptySheet(t *testing.T) {
	path := buildWorkbook(t, "Sheet1", nil)

	_, err := Parse(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no header row")
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), "")

	var loadErr *types.LoadError
	assert.True(t, errors.As(err, &loadErr))
}
