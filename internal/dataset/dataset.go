package dataset

import (
	"errors"
	"math"
	"slices"
	"sort"

	"github.com/miradorstack/spacex-dash/internal/models"
)

// ErrEmptyDataset is returned when a source yields no launch records.
var ErrEmptyDataset = errors.New("dataset contains no launch records")

// AllSitesLabel is the dropdown label for models.AllSites.
const AllSitesLabel = "All Sites"

// Dataset is the read-only set of launch records loaded at startup together
// with the values derived from it.
type Dataset struct {
	records []models.LaunchRecord
	summary models.DatasetSummary
}

// New copies records into a Dataset and derives its summary.
func New(records []models.LaunchRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	owned := slices.Clone(records)
	return &Dataset{records: owned, summary: summarize(owned)}, nil
}

func summarize(records []models.LaunchRecord) models.DatasetSummary {
	s := models.DatasetSummary{
		MinPayloadKg: math.Inf(1),
		MaxPayloadKg: math.Inf(-1),
		Records:      len(records),
	}
	seen := make(map[string]struct{})
	for _, r := range records {
		s.MinPayloadKg = math.Min(s.MinPayloadKg, r.PayloadMassKg)
		s.MaxPayloadKg = math.Max(s.MaxPayloadKg, r.PayloadMassKg)
		if _, ok := seen[r.LaunchSite]; ok {
			continue
		}
		seen[r.LaunchSite] = struct{}{}
		s.SitesInOrder = append(s.SitesInOrder, r.LaunchSite)
	}
	s.Sites = slices.Clone(s.SitesInOrder)
	sort.Strings(s.Sites)
	return s
}

// Records returns a copy of every loaded record in source order.
func (d *Dataset) Records() []models.LaunchRecord {
	return slices.Clone(d.records)
}

// Len reports the number of loaded records.
func (d *Dataset) Len() int { return len(d.records) }

// Summary returns the derived payload bounds and site lists.
func (d *Dataset) Summary() models.DatasetSummary {
	s := d.summary
	s.Sites = slices.Clone(s.Sites)
	s.SitesInOrder = slices.Clone(s.SitesInOrder)
	return s
}

// DropdownOptions lists "All Sites" followed by every site in order of first appearance.
func (d *Dataset) DropdownOptions() []models.DropdownOption {
	opts := make([]models.DropdownOption, 0, len(d.summary.SitesInOrder)+1)
	opts = append(opts, models.DropdownOption{Label: AllSitesLabel, Value: models.AllSites})
	for _, site := range d.summary.SitesInOrder {
		opts = append(opts, models.DropdownOption{Label: site, Value: site})
	}
	return opts
}

// maxSliderMarks bounds the number of slider marks regardless of the payload span.
const maxSliderMarks = 50

// Slider describes the payload slider spanning the dataset's payload bounds.
// Marks start at the truncated minimum and advance by markStep up to the
// truncated maximum. markStep is widened to a multiple of itself when the span
// would need more than maxSliderMarks marks.
func (d *Dataset) Slider(step, markStep float64) models.SliderSpec {
	return models.SliderSpec{
		Min:   d.summary.MinPayloadKg,
		Max:   d.summary.MaxPayloadKg,
		Step:  step,
		Marks: sliderMarks(d.summary.MinPayloadKg, d.summary.MaxPayloadKg, markStep),
	}
}

func sliderMarks(lo, hi, every float64) []float64 {
	if every <= 0 || math.IsNaN(every) || math.IsInf(every, 0) {
		every = 1000
	}
	start, end := math.Trunc(lo), math.Trunc(hi)
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsInf(end, 0) || end < start {
		return nil
	}
	span := end - start
	if span/every >= maxSliderMarks {
		every = math.Ceil(span/(maxSliderMarks-1)/every) * every
	}
	marks := make([]float64, 0, maxSliderMarks)
	for i := 0; i < maxSliderMarks; i++ {
		m := start + float64(i)*every
		if m > end {
			break
		}
		marks = append(marks, m)
	}
	return marks
}
