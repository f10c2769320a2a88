// =============================================================================
// Financial Dashboard - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes the sample rows and
// the revenue by segment to an .xlsx workbook.
//
// COMMAND USAGE:
//   dashboard export [--output-dir ./output]
//
// OUTPUT:
//   <output.dir>/<output.file_format>, with sheets "Amostra" and
//   "Receita por Segmento". Nothing is written when the data file fails to
//   load or convert.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-dashboard/internal/logging"
	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
	"github.com/ginjaninja78/financial-dashboard/internal/pipeline"
	"github.com/ginjaninja78/financial-dashboard/internal/xlsxwriter"
)

// exportDir overrides output.dir when set.
var exportDir string

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the sample and the revenue by segment to a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(
		&exportDir,
		"output-dir",
		"",
		"Directory for the workbook (overrides output.dir)",
	)
}

// runExport runs the pipeline and writes the workbook.
func runExport(ctx context.Context, out io.Writer) error {
	dir := appConfig.Output.Dir
	if exportDir != "" {
		dir = exportDir
	}

	result := pipeline.New(appConfig.Data, logger, metrics.Nop{}).Run(ctx)
	for _, msg := range result.Messages {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(msg.Level)), msg.Text)
	}
	if result.Failed() {
		return fmt.Errorf("export aborted: %w", result.Err)
	}

	path, err := xlsxwriter.Write(dir, appConfig.Output.FileFormat, result.Sample, result.Aggregate, time.Now())
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	logging.LogOperation(logger, "workbook exported",
		slog.String("path", path),
		slog.Int("sample_rows", result.Sample.Len()),
		slog.Int("segments", len(result.Aggregate.Segments)))
	fmt.Fprintf(out, "✓ %s\n", path)
	return nil
}
