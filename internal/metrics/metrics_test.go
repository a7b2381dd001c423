package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register should tolerate duplicates: %v", err)
	}
}

func TestObserveChart(t *testing.T) {
	before := testutil.ToFloat64(chartComputationsTotal.WithLabelValues(ChartPie))
	rowsBefore := testutil.ToFloat64(chartRowsTotal.WithLabelValues(ChartPie))

	ObserveChart(ChartPie, -time.Second, 12)

	if got := testutil.ToFloat64(chartComputationsTotal.WithLabelValues(ChartPie)); got != before+1 {
		t.Fatalf("expected computations %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(chartRowsTotal.WithLabelValues(ChartPie)); got != rowsBefore+12 {
		t.Fatalf("expected rows %v, got %v", rowsBefore+12, got)
	}
}

func TestObserveDatasetLoad(t *testing.T) {
	ObserveDatasetLoad("file", time.Millisecond, 56, nil)
	if got := testutil.ToFloat64(datasetRecords); got != 56 {
		t.Fatalf("expected dataset gauge 56, got %v", got)
	}
	ObserveDatasetLoad("file", time.Millisecond, 0, errors.New("boom"))
	if got := testutil.ToFloat64(datasetRecords); got != 56 {
		t.Fatalf("failed load must not reset the gauge, got %v", got)
	}
}

func TestObserveDatasetCache(t *testing.T) {
	before := testutil.ToFloat64(datasetCacheTotal.WithLabelValues("hit"))
	ObserveDatasetCache(true)
	if got := testutil.ToFloat64(datasetCacheTotal.WithLabelValues("hit")); got != before+1 {
		t.Fatalf("expected hit counter %v, got %v", before+1, got)
	}
}
