package dataset

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miradorstack/spacex-dash/internal/models"
)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	f, err := os.Open("testdata/launches.csv")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	records, err := ParseCSV(f)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	ds, err := New(records)
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}
	return ds
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	ds := loadFixture(t)
	want := models.DatasetSummary{
		MinPayloadKg: 0,
		MaxPayloadKg: 15600,
		Sites:        []string{"CCAFS LC-40", "CCAFS SLC-40", "KSC LC-39A", "VAFB SLC-4E"},
		SitesInOrder: []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"},
		Records:      21,
	}
	if diff := cmp.Diff(want, ds.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetIsReadOnly(t *testing.T) {
	records := []models.LaunchRecord{{LaunchSite: "KSC LC-39A", PayloadMassKg: 100, Success: true}}
	ds, err := New(records)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	records[0].LaunchSite = "mutated"

	got := ds.Records()
	got[0].PayloadMassKg = -1
	summary := ds.Summary()
	summary.Sites[0] = "mutated"

	if r := ds.Records()[0]; r.LaunchSite != "KSC LC-39A" || r.PayloadMassKg != 100 {
		t.Fatalf("dataset records were mutated: %+v", r)
	}
	if ds.Summary().Sites[0] != "KSC LC-39A" {
		t.Fatalf("dataset summary was mutated")
	}
}

func TestDropdownOptions(t *testing.T) {
	ds := loadFixture(t)
	want := []models.DropdownOption{
		{Label: "All Sites", Value: "ALL"},
		{Label: "CCAFS LC-40", Value: "CCAFS LC-40"},
		{Label: "VAFB SLC-4E", Value: "VAFB SLC-4E"},
		{Label: "KSC LC-39A", Value: "KSC LC-39A"},
		{Label: "CCAFS SLC-40", Value: "CCAFS SLC-40"},
	}
	if diff := cmp.Diff(want, ds.DropdownOptions()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSlider(t *testing.T) {
	ds, err := New([]models.LaunchRecord{
		{LaunchSite: "A", PayloadMassKg: 350.5},
		{LaunchSite: "A", PayloadMassKg: 3100.9},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := models.SliderSpec{Min: 350.5, Max: 3100.9, Step: 100, Marks: []float64{350, 1350, 2350}}
	if diff := cmp.Diff(want, ds.Slider(100, 1000)); diff != "" {
		t.Fatalf("slider mismatch (-want +got):\n%s", diff)
	}

	full := loadFixture(t).Slider(100, 1000)
	if len(full.Marks) != 16 || full.Marks[0] != 0 || full.Marks[15] != 15000 {
		t.Fatalf("unexpected fixture marks: %v", full.Marks)
	}
}

func TestSliderMarksAreBounded(t *testing.T) {
	cases := []struct {
		max       float64
		wantCount int
		wantEvery float64
	}{
		{max: 9600, wantCount: 10, wantEvery: 1000},
		{max: 49000, wantCount: 50, wantEvery: 1000},
		{max: 50000, wantCount: 26, wantEvery: 2000},
		{max: 1e9, wantCount: 49, wantEvery: 20409000},
		{max: 1e19},
		{max: 1e300},
	}
	for _, tc := range cases {
		ds, err := New([]models.LaunchRecord{
			{LaunchSite: "A", PayloadMassKg: 0},
			{LaunchSite: "A", PayloadMassKg: tc.max},
		})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		marks := ds.Slider(100, 1000).Marks
		if len(marks) == 0 || len(marks) > maxSliderMarks {
			t.Fatalf("max %g: got %d marks, want between 1 and %d", tc.max, len(marks), maxSliderMarks)
		}
		if tc.wantCount != 0 && len(marks) != tc.wantCount {
			t.Fatalf("max %g: got %d marks, want %d", tc.max, len(marks), tc.wantCount)
		}
		if marks[0] != 0 || marks[len(marks)-1] > tc.max {
			t.Fatalf("max %g: marks %v outside [0, max]", tc.max, marks)
		}
		if tc.wantEvery != 0 && len(marks) > 1 && marks[1]-marks[0] != tc.wantEvery {
			t.Fatalf("max %g: mark spacing %g, want %g", tc.max, marks[1]-marks[0], tc.wantEvery)
		}
	}
}

func TestSliderMarkStepDefaults(t *testing.T) {
	ds, err := New([]models.LaunchRecord{{LaunchSite: "A", PayloadMassKg: 0}, {LaunchSite: "A", PayloadMassKg: 2500}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := []float64{0, 1000, 2000}
	for _, step := range []float64{0, -5, math.NaN()} {
		if diff := cmp.Diff(want, ds.Slider(100, step).Marks); diff != "" {
			t.Fatalf("markStep %g: marks mismatch (-want +got):\n%s", step, diff)
		}
	}
}
