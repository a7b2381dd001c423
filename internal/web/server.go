// Package web serves the dashboard page, its JSON API and rendered chart images.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/spacex-dash/internal/callbacks"
	"github.com/miradorstack/spacex-dash/internal/metrics"
	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/render"
	"github.com/miradorstack/spacex-dash/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Dashboard is the chart computation surface the handlers depend on.
type Dashboard interface {
	Summary() models.DatasetSummary
	DropdownOptions() []models.DropdownOption
	Slider() models.SliderSpec
	DefaultSelection() models.Selection
	PieChartData(sel models.Selection) models.PieChart
	ScatterChartData(sel models.Selection) models.ScatterChart
}

// Options control chart image rendering.
type Options struct {
	Width  int
	Height int
	// ImageFormat is used for the chart images referenced by the page.
	ImageFormat render.Format
}

// Server holds the HTTP handlers of the dashboard.
type Server struct {
	logger   *slog.Logger
	svc      Dashboard
	registry *callbacks.Registry
	opts     Options
	mux      *http.ServeMux
}

// NewServer wires routes for svc. registry must already hold the dashboard callbacks.
func NewServer(logger *slog.Logger, svc Dashboard, registry *callbacks.Registry, opts Options) *Server {
	if opts.ImageFormat == "" {
		opts.ImageFormat = render.SVG
	}
	s := &Server{
		logger:   utils.Component(logger, "web"),
		svc:      svc,
		registry: registry,
		opts:     opts,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("GET /{$}", "index", s.handleIndex)
	s.handle("GET /healthz", "healthz", s.handleHealth)
	s.handle("GET /api/summary", "summary", s.handleSummary)
	s.handle("GET /api/pie", "pie", s.handlePie)
	s.handle("GET /api/scatter", "scatter", s.handleScatter)
	s.handle("GET /charts/{file}", "chart_image", s.handleChartImage)
	s.handle("POST /api/callbacks", "callbacks", s.handleCallbacks)
}

func (s *Server) handle(pattern, name string, fn http.HandlerFunc) {
	labels := prometheus.Labels{"handler": name}
	s.mux.Handle(pattern, promhttp.InstrumentHandlerDuration(
		metrics.HTTPRequestSeconds.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(metrics.HTTPRequestsTotal.MustCurryWith(labels), fn),
	))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// NewHTTPServer wraps handler in an http.Server with the given timeouts.
func NewHTTPServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
