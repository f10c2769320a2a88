// =============================================================================
// Financial Dashboard - HTTP Dashboard
// =============================================================================
//
// This module serves the dashboard page and its JSON API.
//
// ROUTES:
//   GET /                        HTML page (messages, sample table, chart)
//   GET /chart.svg               revenue chart alone
//   GET /api/sample?rows=N       sample rows as JSON
//   GET /api/revenue-by-segment  aggregate as JSON
//   GET /healthz                 liveness
//   GET /metrics                 Prometheus exposition
//
// Every request that needs data runs the pipeline once; nothing is cached.
//
// =============================================================================

package dashboard

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/ginjaninja78/financial-dashboard/internal/config"
	"github.com/ginjaninja78/financial-dashboard/internal/logging"
	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
	"github.com/ginjaninja78/financial-dashboard/internal/pipeline"
	"github.com/ginjaninja78/financial-dashboard/internal/types"
)

// Section titles of the page.
const (
	sampleTitle = "📄 Amostra da Tabela"
	chartTitle  = "📈 Receita Total por Segmento"
)

// maxSampleRows bounds the rows parameter of /api/sample.
const maxSampleRows = 100

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"add":  func(a, b float64) float64 { return a + b },
	"half": func(a float64) float64 { return a / 2 },
}).ParseFS(templateFS, "templates/*.tmpl"))

// Server serves the dashboard.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a dashboard server. A nil logger discards logs and nil metrics
// get a fresh registry.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "dashboard")),
		metrics: m,
	}
}

// Routes returns the dashboard router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestMetrics(s.metrics))
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/chart.svg", s.handleChart)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/sample", s.handleSample)
		r.Get("/revenue-by-segment", s.handleRevenue)
	})

	return r
}

// run executes one pipeline run for a request.
func (s *Server) run(ctx context.Context, data config.DataConfig) *pipeline.Result {
	logger := logging.FromContext(ctx)
	return pipeline.New(data, logger, s.metrics).Run(ctx)
}

// =============================================================================
// HTML HANDLERS
// =============================================================================

// pageView is the data of the page template.
type pageView struct {
	Title       string
	Heading     string
	Description string
	Messages    []pipeline.Message
	Failed      bool
	SampleTitle string
	ChartTitle  string
	Columns     []string
	Rows        [][]string
	Chart       *chartView
	Total       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.Context(), s.cfg.Data)

	view := pageView{
		Title:       s.cfg.Dashboard.Title,
		Heading:     s.cfg.Dashboard.Heading,
		Description: s.cfg.Dashboard.Description,
		Messages:    result.Messages,
		Failed:      result.Failed(),
		SampleTitle: sampleTitle,
		ChartTitle:  chartTitle,
	}

	if !result.Failed() {
		view.Columns = result.Sample.Headers
		for _, row := range result.Sample.Rows {
			view.Rows = append(view.Rows, row.Values(result.Sample.Headers))
		}
		if result.Aggregate.Available {
			chart := newChartView(result.Aggregate)
			view.Chart = &chart
			view.Total = FormatRevenue(result.Aggregate.Total())
		}
	}

	s.execute(w, r, "page", "text/html; charset=utf-8", statusFor(result.Err), view)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.Context(), s.cfg.Data)
	if result.Failed() {
		http.Error(w, result.Err.Error(), statusFor(result.Err))
		return
	}
	if !result.Aggregate.Available {
		renderError(w, r, NewAPIError(http.StatusNotFound, CodeNotFound, "Revenue chart is unavailable", messageTexts(result.Messages)))
		return
	}

	s.execute(w, r, "chart", "image/svg+xml", http.StatusOK, newChartView(result.Aggregate))
}

// execute renders a template into a buffer so template errors never leave
// a half-written response.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, name, contentType string, status int, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to render template", err,
			slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// =============================================================================
// JSON HANDLERS
// =============================================================================

// SampleResponse is the body of /api/sample.
type SampleResponse struct {
	Columns   []string           `json:"columns"`
	Rows      [][]interface{}    `json:"rows"`
	TotalRows int                `json:"total_rows"`
	Messages  []pipeline.Message `json:"messages"`
}

// SegmentRevenue is one entry of /api/revenue-by-segment.
type SegmentRevenue struct {
	Segment string  `json:"segment"`
	Revenue float64 `json:"revenue"`
	Label   string  `json:"label"`
	Rows    int     `json:"rows"`
}

// RevenueResponse is the body of /api/revenue-by-segment.
type RevenueResponse struct {
	Available  bool               `json:"available"`
	Segments   []SegmentRevenue   `json:"segments"`
	Total      float64            `json:"total"`
	TotalLabel string             `json:"total_label"`
	XLabel     string             `json:"x_label"`
	YLabel     string             `json:"y_label"`
	Messages   []pipeline.Message `json:"messages"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	data := s.cfg.Data
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			renderError(w, r, InvalidParameter("rows", "must be an integer"))
			return
		}
		if n < 0 || n > maxSampleRows {
			renderError(w, r, InvalidParameter("rows", "must be between 0 and "+strconv.Itoa(maxSampleRows)))
			return
		}
		data.SampleRows = n
	}

	result := s.run(r.Context(), data)
	if result.Failed() {
		renderError(w, r, pipelineError(result.Err))
		return
	}

	render.JSON(w, r, SampleResponse{
		Columns:   result.Sample.Headers,
		Rows:      jsonRows(result.Sample),
		TotalRows: result.Records.Len(),
		Messages:  nonNilMessages(result.Messages),
	})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	result := s.run(r.Context(), s.cfg.Data)
	if result.Failed() {
		renderError(w, r, pipelineError(result.Err))
		return
	}

	agg := result.Aggregate
	resp := RevenueResponse{
		Available: agg.Available,
		Segments:  make([]SegmentRevenue, 0, len(agg.Segments)),
		XLabel:    xAxisLabel,
		YLabel:    yAxisLabel,
		Messages:  nonNilMessages(result.Messages),
	}
	for _, seg := range agg.Segments {
		resp.Segments = append(resp.Segments, SegmentRevenue{
			Segment: seg.Segment,
			Revenue: seg.Revenue,
			Label:   FormatRevenue(seg.Revenue),
			Rows:    seg.Rows,
		})
	}
	resp.Total = agg.Total()
	resp.TotalLabel = FormatRevenue(resp.Total)

	render.JSON(w, r, resp)
}

// jsonRows converts rows to JSON values: numbers for numeric fields, strings otherwise.
func jsonRows(rs *types.RecordSet) [][]interface{} {
	rows := make([][]interface{}, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		values := make([]interface{}, len(rs.Headers))
		for i, h := range rs.Headers {
			field := row[h]
			if field.Numeric {
				values[i] = field.Number
			} else {
				values[i] = field.Text
			}
		}
		rows = append(rows, values)
	}
	return rows
}

// messageTexts returns the text of every message.
func messageTexts(msgs []pipeline.Message) []string {
	texts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		texts = append(texts, msg.Text)
	}
	return texts
}

func nonNilMessages(msgs []pipeline.Message) []pipeline.Message {
	if msgs == nil {
		return []pipeline.Message{}
	}
	return msgs
}
