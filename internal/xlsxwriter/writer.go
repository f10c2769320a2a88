// =============================================================================
// Financial Dashboard - XLSX Writer Module
// =============================================================================
//
// This module exports the result of a pipeline run as a workbook.
//
// WORKBOOK STRUCTURE:
//
//   Amostra                    <- sample rows, source column order
//     | Segment | Country | ... | Sales |
//     | ...     | ...     | ... | 1500  |
//
//   Receita por Segmento       <- aggregate, ascending revenue
//     | Segmento   | Receita | Linhas |
//     | Midmarket  | 200.5   | 1      |
//     | Government | 1500    | 2      |
//     | Total      | 1700.5  | 3      |
//
// Numeric fields are written as numbers, everything else as text.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/financial-dashboard/internal/sales"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
	"github.com/ginjaninja78/financial-dashboard/pkg/utils"
)

// Sheet names.
const (
	SampleSheet    = "Amostra"
	AggregateSheet = "Receita por Segmento"
)

// Column titles of the aggregate sheet.
const (
	segmentTitle = "Segmento"
	revenueTitle = "Receita"
	rowsTitle    = "Linhas"
	totalLabel   = "Total"
)

// Extension is appended to generated file names that lack it.
const Extension = ".xlsx"

// revenueNumFmt is the built-in "#,##0.00" number format.
const revenueNumFmt = 4

// ErrNothingToExport is returned when there is no sample to write.
var ErrNothingToExport = errors.New("nothing to export")

// =============================================================================
// WORKBOOK GENERATION
// =============================================================================

// Build creates the workbook in memory. The caller must Close it.
//
// PARAMETERS:
//   - sample: The sample rows of the run.
//   - aggregate: The revenue by segment. An unavailable aggregate produces a
//     sheet with the column titles only.
func Build(sample *types.RecordSet, aggregate *sales.Aggregate) (*excelize.File, error) {
	if sample == nil {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SampleSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AggregateSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet %s: %w", AggregateSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSample(f, sample, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeAggregate(f, aggregate, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// Write builds the workbook and saves it into dir.
//
// The file name comes from format (see utils.GenerateOutputFileName) with an
// extra {source} placeholder holding the input file name without extension.
//
// RETURNS:
//   - The path of the written file.
func Write(dir, format string, sample *types.RecordSet, aggregate *sales.Aggregate, now time.Time) (string, error) {
	f, err := Build(sample, aggregate)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	source := filepath.Base(sample.SourceFile)
	source = source[:len(source)-len(filepath.Ext(source))]
	name := utils.GenerateOutputFileName(format, Extension, now, map[string]string{"source": source})
	path := filepath.Join(dir, name)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

// =============================================================================
// SHEET WRITERS
// =============================================================================

func writeSample(f *excelize.File, sample *types.RecordSet, headerStyle int) error {
	if err := writeHeader(f, SampleSheet, sample.Headers, headerStyle); err != nil {
		return err
	}

	for i, row := range sample.Rows {
		values := make([]interface{}, len(sample.Headers))
		for j, header := range sample.Headers {
			field := row[header]
			if field.Numeric {
				values[j] = field.Number
			} else {
				values[j] = field.Text
			}
		}
		if err := setRow(f, SampleSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeAggregate(f *excelize.File, aggregate *sales.Aggregate, headerStyle int) error {
	if err := writeHeader(f, AggregateSheet, []string{segmentTitle, revenueTitle, rowsTitle}, headerStyle); err != nil {
		return err
	}
	if aggregate == nil || !aggregate.Available {
		return nil
	}

	line := 2
	rows := 0
	for _, s := range aggregate.Segments {
		if err := setRow(f, AggregateSheet, line, []interface{}{s.Segment, s.Revenue, s.Rows}); err != nil {
			return err
		}
		rows += s.Rows
		line++
	}
	if err := setRow(f, AggregateSheet, line, []interface{}{totalLabel, aggregate.Total(), rows}); err != nil {
		return err
	}

	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: revenueNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	if err := f.SetCellStyle(AggregateSheet, "B2", fmt.Sprintf("B%d", line), numStyle); err != nil {
		return fmt.Errorf("failed to style revenue column: %w", err)
	}
	return f.SetColWidth(AggregateSheet, "A", "B", 20)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	if len(headers) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, line int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", line, sheet, err)
	}
	return nil
}
