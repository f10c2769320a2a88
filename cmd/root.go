// =============================================================================
// Financial Dashboard - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (dashboard)
//   ├── serveCmd    (dashboard serve)
//   ├── reportCmd   (dashboard report)
//   ├── exportCmd   (dashboard export)
//   ├── validateCmd (dashboard validate)
//   └── versionCmd  (dashboard version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (or --config), then DASHBOARD_* environment variables
//   2. Applies the --data override
//   3. Builds the structured logger (debug level with --verbose)
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/financial-dashboard/internal/config"
	"github.com/ginjaninja78/financial-dashboard/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// dataPath overrides data.path from the configuration.
var dataPath string

// appConfig is the configuration loaded before the subcommand runs.
var appConfig *config.Config

// logger is the structured logger built from the configuration.
var logger *slog.Logger

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "skip-config"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Financial Dashboard - revenue by segment from the financial sample",
	Long: `Financial Dashboard loads the financial sample export (a semicolon
delimited file or an .xlsx workbook), converts the localized Sales column to
numbers and reports the total revenue of every segment.

Key Features:
  - HTTP dashboard with a sample table and a revenue chart
  - JSON API and Prometheus metrics
  - Plain-text report and XLSX export

Example Usage:
  dashboard serve                          # Serve the dashboard on :8501
  dashboard report --data ./sample.csv     # Print sample and revenue
  dashboard export --config ./my.yaml      # Write the revenue workbook`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads the configuration and builds the logger.
//
// A missing config.yaml is fine; a missing file named with --config is not.
func initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if dataPath != "" {
		cfg.Data.Path = dataPath
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	appConfig = cfg
	logger = logging.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Format, level)
	logger.Debug("configuration loaded",
		slog.String("config", cfgFile),
		slog.String("data", cfg.Data.Path))
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&dataPath,
		"data",
		"",
		"Path to the data file (overrides data.path)",
	)
}
