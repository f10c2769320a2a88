// =============================================================================
// Financial Dashboard - Report Command
// =============================================================================
//
// This file defines the 'report' command, which runs the pipeline and prints
// the sample table and the revenue by segment as plain text.
//
// COMMAND USAGE:
//   dashboard report [files...] [flags]
//
// FLAGS:
//   --rows        : Number of sample rows to print (default: data.sample_rows)
//   --concurrency : Number of files processed at the same time
//
// PROCESSING:
//   1. Without arguments the configured data file is reported.
//   2. With arguments every file is run through its own pipeline
//      concurrently. Reports are printed in argument order.
//   3. The command fails if any file fails to load or convert.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/financial-dashboard/internal/dashboard"
	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
	"github.com/ginjaninja78/financial-dashboard/internal/pipeline"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// reportRows overrides data.sample_rows when set (-1 keeps the configuration).
var reportRows int

// reportConcurrency bounds the number of files processed at once.
var reportConcurrency int

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report [files...]",
	Short: "Print the sample rows and the revenue by segment",
	Long: `The report command loads the data file, converts the Sales column and
prints the first rows together with the total revenue of every segment.

Several files can be given as arguments; each one is processed independently
and concurrently, and the reports are printed in argument order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(
		&reportRows,
		"rows",
		-1,
		"Number of sample rows to print (default: data.sample_rows)",
	)

	reportCmd.Flags().IntVar(
		&reportConcurrency,
		"concurrency",
		4,
		"Number of files processed at the same time",
	)
}

// =============================================================================
// MAIN REPORT FUNCTION
// =============================================================================

// runReport runs one pipeline per file and prints every report.
func runReport(ctx context.Context, out io.Writer, files []string) error {
	startTime := time.Now()

	data := appConfig.Data
	if reportRows >= 0 {
		data.SampleRows = reportRows
	}

	if len(files) == 0 {
		files = []string{data.Path}
	}

	// =========================================================================
	// STEP 1: RUN PIPELINES CONCURRENTLY
	// =========================================================================

	results := make([]*pipeline.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if reportConcurrency > 0 {
		g.SetLimit(reportConcurrency)
	}
	for i, file := range files {
		g.Go(func() error {
			fileData := data
			fileData.Path = file
			results[i] = pipeline.New(fileData, logger, metrics.Nop{}).Run(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: PRINT REPORTS
	// =========================================================================

	var failed []string
	for i, result := range results {
		if len(files) > 1 {
			fmt.Fprintf(out, "=== %s ===\n", files[i])
		}
		printReport(out, result)
		if result.Failed() {
			failed = append(failed, files[i])
		}
		fmt.Fprintln(out)
	}

	if len(files) > 1 {
		fmt.Fprintln(out, "=== Report Complete ===")
		fmt.Fprintf(out, "Total files:     %d\n", len(files))
		fmt.Fprintf(out, "Successful:      %d\n", len(files)-len(failed))
		fmt.Fprintf(out, "Errors:          %d\n", len(failed))
		fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))
	}

	if len(failed) > 0 {
		return fmt.Errorf("report failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

// printReport writes the messages, the sample table and the aggregate.
func printReport(out io.Writer, result *pipeline.Result) {
	for _, msg := range result.Messages {
		fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(msg.Level)), msg.Text)
	}
	if result.Failed() {
		return
	}

	// =========================================================================
	// SAMPLE TABLE
	// =========================================================================

	fmt.Fprintln(out, "📄 Amostra da Tabela")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(result.Sample.Headers, "\t"))
	for _, row := range result.Sample.Rows {
		fmt.Fprintln(tw, strings.Join(row.Values(result.Sample.Headers), "\t"))
	}
	tw.Flush()

	// =========================================================================
	// REVENUE BY SEGMENT
	// =========================================================================

	agg := result.Aggregate
	if !agg.Available {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "📈 Receita Total por Segmento")
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Segmento\tReceita\t")
	for _, seg := range agg.Segments {
		fmt.Fprintf(tw, "%s\t%s\t\n", seg.Segment, dashboard.FormatRevenue(seg.Revenue))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", dashboard.FormatRevenue(agg.Total()))
	tw.Flush()
}
