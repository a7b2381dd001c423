package engine

import (
	"github.com/miradorstack/spacex-dash/internal/models"
)

// AggregateSuccessBySite drops failed launches and counts the remaining ones per
// launch site. Slices are ordered by the site's first appearance among the
// successful records.
func AggregateSuccessBySite(records []models.LaunchRecord) []models.PieSlice {
	return countBy(Successes(records), func(rec models.LaunchRecord) string {
		return rec.LaunchSite
	})
}

// AggregateOutcomeForSite counts records per outcome label. Callers pass records
// already restricted to one site. Slices are ordered by first appearance of the
// label; labels without records are omitted.
func AggregateOutcomeForSite(records []models.LaunchRecord) []models.PieSlice {
	return countBy(records, models.LaunchRecord.OutcomeLabel)
}

// countBy groups records by key in first-seen order.
func countBy(records []models.LaunchRecord, key func(models.LaunchRecord) string) []models.PieSlice {
	slices := make([]models.PieSlice, 0, 4)
	index := make(map[string]int)
	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(slices)
			index[k] = i
			slices = append(slices, models.PieSlice{Label: k})
		}
		slices[i].Count++
	}
	return slices
}
