// =============================================================================
// Financial Dashboard - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// and the data file without serving anything.
//
// CHECKS:
//   1. The configuration loads and passes validation (done by the root command)
//   2. The data file exists
//   3. The data file loads
//   4. The Sales column converts
//   5. The Segment and Sales columns are present (warning only)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
	"github.com/ginjaninja78/financial-dashboard/internal/pipeline"
	"github.com/ginjaninja78/financial-dashboard/pkg/utils"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and the data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "✓ Configuration is valid")

	if !utils.FileExists(appConfig.Data.Path) {
		fmt.Fprintf(out, "✗ Data file not found: %s\n", appConfig.Data.Path)
	}

	result := pipeline.New(appConfig.Data, logger, metrics.Nop{}).Run(ctx)
	for _, msg := range result.Messages {
		fmt.Fprintf(out, "  [%s] %s\n", strings.ToUpper(string(msg.Level)), msg.Text)
	}
	if result.Failed() {
		fmt.Fprintf(out, "✗ %s\n", appConfig.Data.Path)
		return result.Err
	}

	fmt.Fprintf(out, "✓ %s: %d rows, %d columns, %d segments\n",
		appConfig.Data.Path, result.Stats.RowsLoaded, result.Stats.Columns, result.Stats.Segments)
	return nil
}
