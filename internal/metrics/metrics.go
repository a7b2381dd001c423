package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spacex_dash"

// Chart names used as metric labels.
const (
	ChartPie     = "pie"
	ChartScatter = "scatter"
)

var (
	chartComputationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_computations_total",
			Help:      "Chart input recomputations, partitioned by chart.",
		},
		[]string{"chart"},
	)

	chartComputeSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_compute_seconds",
			Help:      "Time spent filtering and aggregating chart input.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"chart"},
	)

	chartRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_rows_total",
			Help:      "Records surviving the filter, summed over recomputations.",
		},
		[]string{"chart"},
	)

	renderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Chart image render failures, partitioned by chart.",
		},
		[]string{"chart"},
	)

	datasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of launch records loaded at startup.",
		},
	)

	datasetLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_seconds",
			Help:      "Dataset load latency by source scheme.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"scheme", "outcome"},
	)

	datasetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_lookups_total",
			Help:      "Dataset byte cache lookups, partitioned by result.",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal and HTTPRequestSeconds feed promhttp instrumentation.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler, method and status code.",
		},
		[]string{"handler", "code", "method"},
	)

	HTTPRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by handler.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"handler", "code", "method"},
	)
)

// Outcome labels for dataset loads.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Register attaches dashboard collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		chartComputationsTotal,
		chartComputeSeconds,
		chartRowsTotal,
		renderErrorsTotal,
		datasetRecords,
		datasetLoadSeconds,
		datasetCacheTotal,
		HTTPRequestsTotal,
		HTTPRequestSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveChart records one chart recomputation.
func ObserveChart(chart string, duration time.Duration, rows int) {
	if duration < 0 {
		duration = 0
	}
	chartComputationsTotal.WithLabelValues(chart).Inc()
	chartComputeSeconds.WithLabelValues(chart).Observe(duration.Seconds())
	chartRowsTotal.WithLabelValues(chart).Add(float64(rows))
}

// ObserveRenderError counts a failed chart image render.
func ObserveRenderError(chart string) {
	renderErrorsTotal.WithLabelValues(chart).Inc()
}

// ObserveDatasetLoad records a dataset load attempt.
func ObserveDatasetLoad(scheme string, duration time.Duration, records int, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	datasetLoadSeconds.WithLabelValues(scheme, outcome).Observe(duration.Seconds())
	if err == nil {
		datasetRecords.Set(float64(records))
	}
}

// ObserveDatasetCache counts a cache hit or miss for remote dataset bytes.
func ObserveDatasetCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	datasetCacheTotal.WithLabelValues(result).Inc()
}
