package models

// PieSlice is a labelled count feeding one pie segment.
type PieSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PieChart is chart-ready input for the success pie.
type PieChart struct {
	Title  string     `json:"title"`
	Site   string     `json:"site"`
	Slices []PieSlice `json:"slices"`
}

// Total sums the slice counts.
func (p PieChart) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Count
	}
	return total
}

// ScatterPoint is one launch plotted by payload and outcome.
type ScatterPoint struct {
	PayloadMassKg          float64 `json:"payload_mass_kg"`
	Success                bool    `json:"success"`
	BoosterVersionCategory string  `json:"booster_version_category"`
}

// Class returns 1 for a successful landing, 0 otherwise (the scatter y value).
func (p ScatterPoint) Class() int {
	if p.Success {
		return 1
	}
	return 0
}

// ScatterChart is chart-ready input for the payload/outcome scatter.
type ScatterChart struct {
	Title   string         `json:"title"`
	Site    string         `json:"site"`
	Payload PayloadRange   `json:"payload"`
	Points  []ScatterPoint `json:"points"`
}

// Categories returns the distinct booster categories in order of first appearance.
func (s ScatterChart) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.Points {
		if _, ok := seen[p.BoosterVersionCategory]; ok {
			continue
		}
		seen[p.BoosterVersionCategory] = struct{}{}
		out = append(out, p.BoosterVersionCategory)
	}
	return out
}
