package callbacks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miradorstack/spacex-dash/internal/models"
)

type chartStub struct {
	pieUsesPayload bool
	pieCalls       int
	scatterCalls   int
}

func (c *chartStub) PieChartData(sel models.Selection) models.PieChart {
	c.pieCalls++
	return models.PieChart{Site: sel.NormalizedSite()}
}

func (c *chartStub) ScatterChartData(sel models.Selection) models.ScatterChart {
	c.scatterCalls++
	return models.ScatterChart{Site: sel.NormalizedSite(), Payload: sel.Payload}
}

func (c *chartStub) PieDependsOnPayload() bool { return c.pieUsesPayload }

func outputs(results []Result) []Output {
	out := make([]Output, 0, len(results))
	for _, r := range results {
		out = append(out, r.Output)
	}
	return out
}

func TestDispatchRoutesByInput(t *testing.T) {
	stub := &chartStub{}
	reg := NewRegistry()
	if err := RegisterDashboard(reg, stub); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := context.Background()
	sel := models.Selection{Site: "KSC LC-39A", Payload: models.PayloadRange{Low: 0, High: 5000}}

	cases := []struct {
		name    string
		changed []Input
		want    []Output
	}{
		{"dropdown", []Input{InputSiteDropdown}, []Output{OutputSuccessPie, OutputPayloadScatter}},
		{"slider", []Input{InputPayloadSlider}, []Output{OutputPayloadScatter}},
		{"both", []Input{InputPayloadSlider, InputSiteDropdown}, []Output{OutputSuccessPie, OutputPayloadScatter}},
		{"none", nil, []Output{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := reg.Dispatch(ctx, tc.changed, sel)
			if err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			if diff := cmp.Diff(tc.want, outputs(results)); diff != "" {
				t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
			}
		})
	}

	results, err := reg.Dispatch(ctx, []Input{InputPayloadSlider}, sel)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	scatter, ok := results[0].Value.(models.ScatterChart)
	if !ok || scatter.Site != "KSC LC-39A" || scatter.Payload.High != 5000 {
		t.Fatalf("unexpected scatter value %#v", results[0].Value)
	}
}

func TestPieFollowsSliderWhenConfigured(t *testing.T) {
	reg := NewRegistry()
	if err := RegisterDashboard(reg, &chartStub{pieUsesPayload: true}); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []Output{OutputSuccessPie, OutputPayloadScatter}
	if diff := cmp.Diff(want, reg.Dependents(InputPayloadSlider)); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchAll(t *testing.T) {
	stub := &chartStub{}
	reg := NewRegistry()
	if err := RegisterDashboard(reg, stub); err != nil {
		t.Fatalf("register: %v", err)
	}
	results, err := reg.DispatchAll(context.Background(), models.Selection{})
	if err != nil {
		t.Fatalf("dispatch all: %v", err)
	}
	if len(results) != 2 || stub.pieCalls != 1 || stub.scatterCalls != 1 {
		t.Fatalf("expected both callbacks once, got %d results pie=%d scatter=%d", len(results), stub.pieCalls, stub.scatterCalls)
	}
}

func TestRegisterValidation(t *testing.T) {
	noop := func(context.Context, models.Selection) (any, error) { return nil, nil }
	reg := NewRegistry()
	if err := reg.Register(Callback{Output: OutputSuccessPie, Inputs: []Input{InputSiteDropdown}, Handler: noop}); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register(Callback{Output: OutputSuccessPie, Inputs: []Input{InputPayloadSlider}, Handler: noop})
	if !errors.Is(err, ErrDuplicateOutput) {
		t.Fatalf("expected duplicate output error, got %v", err)
	}
	if err := reg.Register(Callback{Output: "x", Handler: noop}); err == nil {
		t.Fatalf("expected error for missing inputs")
	}
	if err := reg.Register(Callback{Output: "y", Inputs: []Input{InputSiteDropdown}}); err == nil {
		t.Fatalf("expected error for missing handler")
	}
}

func TestDispatchStopsOnHandlerError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	_ = reg.Register(Callback{Output: "first", Inputs: []Input{InputSiteDropdown}, Handler: func(context.Context, models.Selection) (any, error) {
		return nil, boom
	}})
	_ = reg.Register(Callback{Output: "second", Inputs: []Input{InputSiteDropdown}, Handler: func(context.Context, models.Selection) (any, error) {
		t.Fatalf("second callback should not run")
		return nil, nil
	}})
	if _, err := reg.Dispatch(context.Background(), []Input{InputSiteDropdown}, models.Selection{}); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestDispatchIsSerialised(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	reg := NewRegistry()
	_ = reg.Register(Callback{Output: "slow", Inputs: []Input{InputSiteDropdown}, Handler: func(context.Context, models.Selection) (any, error) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()
		for i := 0; i < 1000; i++ {
			_ = i * i
		}
		mu.Lock()
		active--
		mu.Unlock()
		return nil, nil
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = reg.Dispatch(context.Background(), []Input{InputSiteDropdown}, models.Selection{})
		}()
	}
	wg.Wait()
	if overlap {
		t.Fatalf("dispatches overlapped")
	}
}

func TestParseInput(t *testing.T) {
	if in, err := ParseInput("payload-slider"); err != nil || in != InputPayloadSlider {
		t.Fatalf("unexpected parse result %q %v", in, err)
	}
	if _, err := ParseInput("launch-map"); !errors.Is(err, ErrUnknownInput) {
		t.Fatalf("expected unknown input error, got %v", err)
	}
}
