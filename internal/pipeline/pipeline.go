// =============================================================================
// Financial Dashboard - Pipeline Module
// =============================================================================
//
// This module runs the sales preparation for one dashboard run and collects
// everything the presentation layers need.
//
// PIPELINE:
//   1. Load the input file (fatal on failure: LoadError)
//   2. Clean the Sales column (fatal on failure: ConversionError)
//   3. Take the sample rows for the table
//   4. Aggregate revenue by segment (degraded when columns are missing)
//
// Every run is independent: nothing is cached between runs and the result
// is never mutated after Run returns.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/financial-dashboard/internal/config"
	"github.com/ginjaninja78/financial-dashboard/internal/logging"
	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
	"github.com/ginjaninja78/financial-dashboard/internal/sales"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Level is the severity of a user-facing message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a human-readable status line shown to the user.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// User-facing texts.
const (
	msgColumnsMissing = "As colunas 'Segment' e 'Sales' não foram encontradas."
	msgConversion     = "Erro ao converter coluna 'Sales' para float: %v"
	msgLoad           = "Erro ao carregar o arquivo '%s': %v"
	msgNoSales        = "A coluna 'Sales' não foi encontrada; nenhuma conversão foi aplicada."
	msgSkippedLines   = "%d linha(s) malformada(s) ignorada(s) na leitura do arquivo."
)

// Result represents the outcome of one run.
type Result struct {
	// Records is the cleaned record set. Nil when the run failed.
	Records *types.RecordSet

	// Sample holds the first rows of Records for tabular display.
	Sample *types.RecordSet

	// Aggregate is the revenue by segment. Nil when the run failed.
	Aggregate *sales.Aggregate

	// Messages are the status, warning and error lines for the user.
	Messages []Message

	// Err is a *types.LoadError or a *sales.ConversionError when the run failed.
	Err error

	// Stats contains run statistics.
	Stats Stats
}

// Stats contains statistics about the run.
type Stats struct {
	RowsLoaded   int
	Columns      int
	SkippedLines int
	Segments     int
	Duration     time.Duration
}

// Failed reports whether the run stopped on a fatal error.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Outcome classifies the run for metrics and logs.
func (r *Result) Outcome() string {
	var loadErr *types.LoadError
	var convErr *sales.ConversionError
	switch {
	case errors.As(r.Err, &loadErr):
		return metrics.OutcomeLoadError
	case errors.As(r.Err, &convErr):
		return metrics.OutcomeConversionError
	case r.Aggregate != nil && !r.Aggregate.Available:
		return metrics.OutcomeDegraded
	default:
		return metrics.OutcomeOK
	}
}

func (r *Result) addMessage(level Level, format string, args ...any) {
	r.Messages = append(r.Messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes the pipeline for a data configuration.
type Runner struct {
	data     config.DataConfig
	logger   *slog.Logger
	recorder metrics.Recorder
}

// New creates a Runner. A nil logger or recorder is replaced by a no-op.
func New(data config.DataConfig, logger *slog.Logger, recorder metrics.Recorder) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Runner{
		data:     data,
		logger:   logger.With(slog.String("component", "pipeline")),
		recorder: recorder,
	}
}

// Run executes load, clean, sample and aggregate.
func (p *Runner) Run(ctx context.Context) *Result {
	start := time.Now()
	result := p.run(ctx)
	result.Stats.Duration = time.Since(start)

	p.recorder.ObservePipeline(result.Outcome(), result.Stats.RowsLoaded, result.Stats.Duration)

	if result.Failed() {
		logging.LogError(p.logger, "pipeline failed", result.Err,
			slog.String("path", p.data.Path),
			slog.String("outcome", result.Outcome()))
	} else {
		logging.LogOperation(p.logger, "pipeline completed",
			slog.String("path", p.data.Path),
			slog.String("outcome", result.Outcome()),
			slog.Int("rows", result.Stats.RowsLoaded),
			slog.Int("segments", result.Stats.Segments),
			slog.Duration("duration", result.Stats.Duration))
	}

	return result
}

func (p *Runner) run(ctx context.Context) *Result {
	result := &Result{}

	// =========================================================================
	// STEP 1: LOAD
	// =========================================================================

	records, err := sales.LoadWithOptions(p.data.Path, sales.LoadOptions{
		Delimiter: p.data.Delimiter,
		Sheet:     p.data.Sheet,
	})
	if err != nil {
		result.Err = err
		result.addMessage(LevelError, msgLoad, p.data.Path, loadCause(err))
		return result
	}

	result.Stats.RowsLoaded = records.Len()
	result.Stats.Columns = len(records.Headers)
	result.Stats.SkippedLines = records.SkippedLines

	if records.SkippedLines > 0 {
		p.logger.WarnContext(ctx, "skipped malformed lines",
			slog.String("path", p.data.Path),
			slog.Int("skipped", records.SkippedLines))
		result.addMessage(LevelInfo, msgSkippedLines, records.SkippedLines)
	}

	// =========================================================================
	// STEP 2: CLEAN
	// =========================================================================

	if !records.HasColumn(sales.SalesColumn) {
		p.logger.DebugContext(ctx, "sales column absent, cleaning skipped")
		result.addMessage(LevelInfo, msgNoSales)
	}

	cleaned, err := sales.CleanSalesColumn(records)
	if err != nil {
		result.Err = err
		result.addMessage(LevelError, msgConversion, err)
		return result
	}
	result.Records = cleaned

	// =========================================================================
	// STEP 3: SAMPLE
	// =========================================================================

	result.Sample = cleaned.Head(p.data.SampleRows)

	// =========================================================================
	// STEP 4: AGGREGATE
	// =========================================================================

	aggregate, err := sales.AggregateBySegment(cleaned)
	if err != nil {
		result.Err = err
		result.Records, result.Sample = nil, nil
		result.addMessage(LevelError, msgConversion, err)
		return result
	}
	result.Aggregate = aggregate
	result.Stats.Segments = len(aggregate.Segments)

	if !aggregate.Available {
		result.addMessage(LevelWarning, msgColumnsMissing)
	}

	return result
}

// loadCause strips the LoadError wrapper for the user-facing message.
func loadCause(err error) error {
	var loadErr *types.LoadError
	if errors.As(err, &loadErr) && loadErr.Err != nil {
		return loadErr.Err
	}
	return err
}
