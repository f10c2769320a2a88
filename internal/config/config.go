// =============================================================================
// Financial Dashboard - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are resolved in
// three layers, each one overriding the previous:
//   1. Built-in defaults (applyDefaults)
//   2. The YAML configuration file (config.yaml by default)
//   3. Environment variables prefixed with DASHBOARD_ (e.g. DASHBOARD_DATA_PATH)
//
// The merged configuration is validated with struct tags before use.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "DASHBOARD"

// DefaultConfigFile is the configuration file used when --config is not set.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"PAGE"`
}

// DataConfig describes the input file.
type DataConfig struct {
	// Path is the input file. Files ending in .xlsx are read as workbooks.
	// Default: "ms-financial-sample.csv"
	Path string `yaml:"path" validate:"required"`

	// Delimiter separates fields in delimited files.
	// Accepts the character itself or a name ("semicolon", "comma", "tab", "pipe").
	// Default: ";"
	Delimiter string `yaml:"delimiter" validate:"required"`

	// Sheet is the worksheet read from .xlsx inputs. Empty means the first one.
	Sheet string `yaml:"sheet"`

	// SampleRows is the number of rows shown in the sample table.
	// Default: 5
	SampleRows int `yaml:"sample_rows" split_words:"true" validate:"gte=0,lte=100"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8501"
	Addr string `yaml:"addr" validate:"required"`

	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is "json" or "text".
	Format string `yaml:"format" validate:"oneof=json text"`
}

// OutputConfig controls the XLSX export.
type OutputConfig struct {
	// Dir is where exported workbooks are written.
	// Default: "./output"
	Dir string `yaml:"dir" validate:"required"`

	// FileFormat is the export file name.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	// Default: "receita_por_segmento_{timestamp}_{uuid}.xlsx"
	FileFormat string `yaml:"file_format" split_words:"true" validate:"required"`
}

// DashboardConfig holds the page texts.
type DashboardConfig struct {
	Title       string `yaml:"title"`
	Heading     string `yaml:"heading"`
	Description string `yaml:"description"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load loads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file to read.
//   - required: Whether a missing file is an error. When false and the file
//     does not exist, defaults and environment variables are used.
//
// RETURNS:
//   - The merged and validated configuration.
//   - An error if the file cannot be read or parsed, or validation fails.
func Load(configPath string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Data.Path == "" {
		cfg.Data.Path = "ms-financial-sample.csv"
	}
	if cfg.Data.Delimiter == "" {
		cfg.Data.Delimiter = ";"
	}
	if cfg.Data.SampleRows == 0 {
		cfg.Data.SampleRows = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = time.Minute
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.FileFormat == "" {
		cfg.Output.FileFormat = "receita_por_segmento_{timestamp}_{uuid}.xlsx"
	}
	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = "Dashboard Financeiro"
	}
	if cfg.Dashboard.Heading == "" {
		cfg.Dashboard.Heading = "📊 Análise Financeira"
	}
	if cfg.Dashboard.Description == "" {
		cfg.Dashboard.Description = "Aplicação simples com visualização de dados financeiros usando um CSV real."
	}
}

// validate is shared; validator.Validate caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
