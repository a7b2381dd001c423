package services

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/miradorstack/spacex-dash/internal/dataset"
	"github.com/miradorstack/spacex-dash/internal/engine"
	"github.com/miradorstack/spacex-dash/internal/metrics"
	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/utils"
)

// Chart titles.
const (
	titleSuccessBySite = "Total Successful Launches per Site"
	titleSiteOutcome   = "Success vs. Failed Launches for site %s"
	titleScatter       = "Payload vs. Outcome for %s"
)

// latencyLogEvery controls how often the rolling chart latency is logged.
const latencyLogEvery = 100

// Options tune the dashboard's chart semantics.
type Options struct {
	// PieUsesPayloadRange applies the selection's payload range to the pie in
	// both branches. Off by default: the pie ignores the slider.
	PieUsesPayloadRange bool
	SliderStep          float64
	MarkStep            float64
}

// DashboardService turns a selection into chart-ready input over a loaded dataset.
type DashboardService struct {
	logger    *slog.Logger
	data      *dataset.Dataset
	summary   models.DatasetSummary
	slider    models.SliderSpec
	opts      Options
	latencies *utils.LatencyTracker
	computed  atomic.Uint64
}

// NewDashboardService constructs the view controller for data.
func NewDashboardService(logger *slog.Logger, data *dataset.Dataset, opts Options) *DashboardService {
	if opts.SliderStep <= 0 {
		opts.SliderStep = 100
	}
	if opts.MarkStep <= 0 {
		opts.MarkStep = 1000
	}
	return &DashboardService{
		logger:    utils.Component(logger, "dashboard"),
		data:      data,
		summary:   data.Summary(),
		slider:    data.Slider(opts.SliderStep, opts.MarkStep),
		opts:      opts,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Summary returns the dataset's payload bounds and site lists.
func (s *DashboardService) Summary() models.DatasetSummary {
	return s.data.Summary()
}

// DropdownOptions returns the launch-site dropdown entries.
func (s *DashboardService) DropdownOptions() []models.DropdownOption {
	return s.data.DropdownOptions()
}

// Slider returns the payload slider specification derived at construction.
func (s *DashboardService) Slider() models.SliderSpec {
	spec := s.slider
	spec.Marks = slices.Clone(spec.Marks)
	return spec
}

// DefaultSelection is the initial UI state: all sites over the full payload range.
func (s *DashboardService) DefaultSelection() models.Selection {
	return models.Selection{Site: models.AllSites, Payload: s.summary.FullRange()}
}

// PieDependsOnPayload reports whether the pie must be recomputed on slider changes.
func (s *DashboardService) PieDependsOnPayload() bool {
	return s.opts.PieUsesPayloadRange
}

// PieChartData computes the success pie for sel. For all sites it counts
// successful launches per site. For one site it counts launches per outcome.
func (s *DashboardService) PieChartData(sel models.Selection) models.PieChart {
	start := time.Now()
	site := sel.NormalizedSite()

	payload := s.summary.FullRange()
	if s.opts.PieUsesPayloadRange {
		payload = sel.Payload
	}
	filtered := engine.Filter(s.data.Records(), site, payload)

	chart := models.PieChart{Site: site}
	if site == models.AllSites {
		chart.Title = titleSuccessBySite
		chart.Slices = engine.AggregateSuccessBySite(filtered)
	} else {
		chart.Title = fmt.Sprintf(titleSiteOutcome, site)
		chart.Slices = engine.AggregateOutcomeForSite(filtered)
	}

	s.observe(metrics.ChartPie, start, len(filtered))
	s.logger.Debug("pie chart computed",
		slog.String("site", site),
		slog.Int("rows", len(filtered)),
		slog.Int("slices", len(chart.Slices)),
	)
	return chart
}

// ScatterChartData computes the payload/outcome scatter for sel. The payload
// range always applies. Points keep dataset order.
func (s *DashboardService) ScatterChartData(sel models.Selection) models.ScatterChart {
	start := time.Now()
	site := sel.NormalizedSite()
	filtered := engine.Filter(s.data.Records(), site, sel.Payload)

	points := make([]models.ScatterPoint, 0, len(filtered))
	for _, rec := range filtered {
		points = append(points, models.ScatterPoint{
			PayloadMassKg:          rec.PayloadMassKg,
			Success:                rec.Success,
			BoosterVersionCategory: rec.BoosterVersionCategory,
		})
	}
	chart := models.ScatterChart{
		Title:   fmt.Sprintf(titleScatter, site),
		Site:    site,
		Payload: sel.Payload,
		Points:  points,
	}

	s.observe(metrics.ChartScatter, start, len(filtered))
	s.logger.Debug("scatter chart computed",
		slog.String("site", site),
		slog.Float64("low", sel.Payload.Low),
		slog.Float64("high", sel.Payload.High),
		slog.Int("points", len(points)),
	)
	return chart
}

// Latency summarises recent chart computation times.
func (s *DashboardService) Latency() utils.LatencySnapshot {
	return s.latencies.Snapshot()
}

func (s *DashboardService) observe(chart string, start time.Time, rows int) {
	duration := time.Since(start)
	metrics.ObserveChart(chart, duration, rows)
	s.latencies.Observe(duration)
	if n := s.computed.Add(1); n%latencyLogEvery == 0 {
		snap := s.latencies.Snapshot()
		s.logger.Info("chart computation latency",
			slog.Int("samples", snap.Samples),
			slog.Duration("p50", snap.P50),
			slog.Duration("p95", snap.P95),
			slog.Duration("max", snap.Max),
		)
	}
}
