package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miradorstack/spacex-dash/internal/callbacks"
	"github.com/miradorstack/spacex-dash/internal/dataset"
	"github.com/miradorstack/spacex-dash/internal/models"
	"github.com/miradorstack/spacex-dash/internal/services"
)

func testRecords() []models.LaunchRecord {
	return []models.LaunchRecord{
		{LaunchSite: "CCAFS LC-40", PayloadMassKg: 0, BoosterVersionCategory: "v1.0"},
		{LaunchSite: "VAFB SLC-4E", PayloadMassKg: 500, BoosterVersionCategory: "v1.1"},
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 2490, BoosterVersionCategory: "FT", Success: true},
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 5600, BoosterVersionCategory: "FT"},
		{LaunchSite: "CCAFS LC-40", PayloadMassKg: 4428, BoosterVersionCategory: "FT", Success: true},
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 9600, BoosterVersionCategory: "B5", Success: true},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := dataset.New(testRecords())
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	svc := services.NewDashboardService(nil, ds, services.Options{})
	reg := callbacks.NewRegistry()
	if err := callbacks.RegisterDashboard(reg, svc); err != nil {
		t.Fatalf("register callbacks: %v", err)
	}
	return NewServer(nil, svc, reg, Options{Width: 320, Height: 240})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"SpaceX Launch Records Dashboard",
		`<option value="ALL">All Sites</option>`,
		`<option value="KSC LC-39A">KSC LC-39A</option>`,
		"Payload range (Kg):",
		`id="success-payload-scatter-chart"`,
		`/charts/pie.svg?high=9600\u0026low=0\u0026site=ALL`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	if rec := get(t, newTestServer(t), "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/summary")
	var resp summaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary.MinPayloadKg != 0 || resp.Summary.MaxPayloadKg != 9600 || resp.Summary.Records != 6 {
		t.Fatalf("unexpected summary %+v", resp.Summary)
	}
	if len(resp.Options) != 4 || resp.Options[0].Value != models.AllSites {
		t.Fatalf("unexpected options %+v", resp.Options)
	}
	if resp.Slider.Step != 100 || len(resp.Slider.Marks) != 10 {
		t.Fatalf("unexpected slider %+v", resp.Slider)
	}
}

func TestPieEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var all models.PieChart
	if err := json.NewDecoder(get(t, srv, "/api/pie").Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []models.PieSlice{{Label: "KSC LC-39A", Count: 2}, {Label: "CCAFS LC-40", Count: 1}}
	if diff := cmp.Diff(want, all.Slices); diff != "" {
		t.Fatalf("slices mismatch (-want +got):\n%s", diff)
	}

	var site models.PieChart
	if err := json.NewDecoder(get(t, srv, "/api/pie?site=KSC+LC-39A").Body).Decode(&site); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want = []models.PieSlice{{Label: "Success", Count: 2}, {Label: "Failure", Count: 1}}
	if diff := cmp.Diff(want, site.Slices); diff != "" {
		t.Fatalf("site slices mismatch (-want +got):\n%s", diff)
	}
}

func TestScatterEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/api/scatter?site=ALL&low=400&high=5000")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var chart models.ScatterChart
	if err := json.NewDecoder(rec.Body).Decode(&chart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(chart.Points) != 3 || chart.Title != "Payload vs. Outcome for ALL" {
		t.Fatalf("unexpected scatter %+v", chart)
	}

	empty := get(t, srv, "/api/scatter?low=10000&high=20000")
	if !strings.Contains(empty.Body.String(), `"points":[]`) {
		t.Fatalf("expected empty points array, got %s", empty.Body.String())
	}

	for _, bad := range []string{"/api/scatter?low=heavy", "/api/scatter?high=NaN", "/api/pie?low=Inf"} {
		if rec := get(t, srv, bad); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestChartImages(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		target      string
		contentType string
		prefix      string
	}{
		{"/charts/pie.png", "image/png", "\x89PNG"},
		{"/charts/pie.svg?site=VAFB+SLC-4E", "image/svg+xml", "<svg"},
		{"/charts/scatter.png?low=0&high=5000", "image/png", "\x89PNG"},
		{"/charts/scatter.svg?low=20000&high=30000", "image/svg+xml", "<svg"},
	}
	for _, tc := range cases {
		rec := get(t, srv, tc.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status %d: %s", tc.target, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != tc.contentType {
			t.Fatalf("%s: unexpected content type %q", tc.target, ct)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tc.prefix)) {
			t.Fatalf("%s: unexpected body prefix %q", tc.target, rec.Body.Bytes()[:8])
		}
	}

	for _, target := range []string{"/charts/bar.png", "/charts/pie.gif", "/charts/pie"} {
		if rec := get(t, srv, target); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func postCallbacks(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, callbackResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/callbacks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	var resp callbackResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, resp
}

func TestCallbacksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_, resp := postCallbacks(t, srv, `{"changed":["payload-slider"],"state":{"site":"KSC LC-39A","low":1000,"high":6000}}`)
	if len(resp.Results) != 1 || resp.Results[0].Output != callbacks.OutputPayloadScatter {
		t.Fatalf("expected only the scatter output, got %+v", resp.Results)
	}
	if want := "/charts/scatter.svg?high=6000&low=1000&site=KSC+LC-39A"; resp.Results[0].Image != want {
		t.Fatalf("unexpected image url %q", resp.Results[0].Image)
	}

	_, resp = postCallbacks(t, srv, `{"changed":["site-dropdown"],"state":{"site":"VAFB SLC-4E"}}`)
	if len(resp.Results) != 2 || resp.Results[0].Output != callbacks.OutputSuccessPie {
		t.Fatalf("expected pie then scatter, got %+v", resp.Results)
	}
	figure, _ := resp.Results[0].Figure.(map[string]any)
	if figure["title"] != "Success vs. Failed Launches for site VAFB SLC-4E" {
		t.Fatalf("unexpected pie figure %+v", resp.Results[0].Figure)
	}

	_, resp = postCallbacks(t, srv, `{"state":{}}`)
	if len(resp.Results) != 2 {
		t.Fatalf("expected initial render of both outputs, got %+v", resp.Results)
	}
}

func TestCallbacksEndpointRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	for _, body := range []string{
		`not json`,
		`{"changed":["launch-map"],"state":{}}`,
		`{"changed":[],"state":{},"extra":true}`,
	} {
		if rec, _ := postCallbacks(t, srv, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	if rec := get(t, srv, "/api/callbacks"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", rec.Code)
	}
}
