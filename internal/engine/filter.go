package engine

import (
	"github.com/miradorstack/spacex-dash/internal/models"
)

// Filter returns the records whose payload lies within payload and, unless site is
// models.AllSites, whose launch site equals site. Input order is preserved. An
// inverted or NaN range and an unknown site both yield an empty, non-nil slice.
func Filter(records []models.LaunchRecord, site string, payload models.PayloadRange) []models.LaunchRecord {
	out := make([]models.LaunchRecord, 0, len(records))
	if payload.Empty() {
		return out
	}
	for _, rec := range records {
		if site != models.AllSites && rec.LaunchSite != site {
			continue
		}
		if !payload.Contains(rec.PayloadMassKg) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Successes returns only the successful records, order preserved.
func Successes(records []models.LaunchRecord) []models.LaunchRecord {
	out := make([]models.LaunchRecord, 0, len(records))
	for _, rec := range records {
		if rec.Success {
			out = append(out, rec)
		}
	}
	return out
}
