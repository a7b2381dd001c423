package models

// AllSites is the dropdown value that disables the launch-site restriction.
const AllSites = "ALL"

// Outcome labels derived from the dataset's class column.
const (
	OutcomeSuccess = "Success"
	OutcomeFailure = "Failure"
)

// LaunchRecord is one launch attempt from the dataset. Records are never mutated
// after loading.
type LaunchRecord struct {
	FlightNumber           int
	LaunchSite             string
	PayloadMassKg          float64
	BoosterVersion         string
	BoosterVersionCategory string
	Success                bool
}

// OutcomeLabel maps the success flag to its human-readable label.
func (r LaunchRecord) OutcomeLabel() string {
	if r.Success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// Class returns the numeric success flag as stored in the source data.
func (r LaunchRecord) Class() int {
	if r.Success {
		return 1
	}
	return 0
}

// DatasetSummary holds values derived once from the loaded records.
type DatasetSummary struct {
	MinPayloadKg float64  `json:"min_payload_kg"`
	MaxPayloadKg float64  `json:"max_payload_kg"`
	Sites        []string `json:"sites"`
	// SitesInOrder lists distinct sites in order of first appearance.
	SitesInOrder []string `json:"sites_in_order"`
	Records      int      `json:"records"`
}

// FullRange returns the payload range spanning the whole dataset.
func (s DatasetSummary) FullRange() PayloadRange {
	return PayloadRange{Low: s.MinPayloadKg, High: s.MaxPayloadKg}
}

// HasSite reports whether site is one of the dataset's launch sites.
func (s DatasetSummary) HasSite(site string) bool {
	for _, known := range s.Sites {
		if known == site {
			return true
		}
	}
	return false
}
