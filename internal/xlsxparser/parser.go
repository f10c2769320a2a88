// =============================================================================
// Financial Dashboard - XLSX Data Parser
// =============================================================================
//
// This module loads the financial sample when it is provided as an Excel
// workbook instead of a delimited export. The first row of the sheet is the
// header row; every following row is a record.
//
// NUMERIC CELLS:
//   Cells stored as numbers in the workbook are loaded as numeric fields with
//   their raw value. The sales cleaning step leaves numeric fields untouched,
//   so a workbook with a real number column never goes through the localized
//   text rules. Cells stored as text are loaded as text fields.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-dashboard/internal/csvparser"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a workbook and returns the record set of one sheet.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheet: The sheet to read. Empty means the first sheet.
//
// RETURNS:
//   - The parsed record set.
//   - A *types.LoadError if the file cannot be opened, the sheet does not
//     exist, or the sheet has no header row.
func Parse(filePath string, sheet string) (*types.RecordSet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &types.LoadError{Path: filePath, Err: err}
	}
	defer f.Close()

	rs, err := parseSheet(f, sheet)
	if err != nil {
		return nil, &types.LoadError{Path: filePath, Err: err}
	}
	rs.SourceFile = filePath
	return rs, nil
}

// parseSheet parses a single sheet from an open workbook.
func parseSheet(f *excelize.File, sheet string) (*types.RecordSet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	// The header is the first non-empty row.
	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	headers := csvparser.CleanHeaders(rows[headerIndex])
	rs := &types.RecordSet{
		Headers: headers,
		Rows:    []types.Row{},
	}

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]

		if isRowEmpty(row) {
			continue
		}

		if len(row) > len(headers) {
			rs.SkippedLines++
			continue
		}

		// GetRows drops trailing blank cells, so a short row is padded.
		record := make(types.Row, len(headers))
		for col, header := range headers {
			if col >= len(row) {
				record[header] = types.TextField("")
				continue
			}
			record[header] = cellField(f, sheet, col, i, row[col])
		}
		rs.Rows = append(rs.Rows, record)
	}

	return rs, nil
}

// cellField builds the field for a cell, keeping numbers numeric.
func cellField(f *excelize.File, sheet string, col, row int, raw string) types.Field {
	if raw == "" {
		return types.TextField(raw)
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return types.TextField(raw)
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return types.TextField(raw)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return types.NumberField(raw, v)
		}
	}
	return types.TextField(raw)
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
