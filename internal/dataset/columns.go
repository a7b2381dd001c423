package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/miradorstack/spacex-dash/internal/models"
)

// Column headers of the published launch records CSV.
const (
	ColumnFlightNumber           = "Flight Number"
	ColumnLaunchSite             = "Launch Site"
	ColumnClass                  = "class"
	ColumnPayloadMass            = "Payload Mass (kg)"
	ColumnBoosterVersion         = "Booster Version"
	ColumnBoosterVersionCategory = "Booster Version Category"
)

var requiredColumns = []string{
	ColumnLaunchSite,
	ColumnPayloadMass,
	ColumnBoosterVersionCategory,
	ColumnClass,
}

var optionalColumns = []string{
	ColumnFlightNumber,
	ColumnBoosterVersion,
}

// normalizeColumn folds a header to lowercase letters and digits so that
// "Payload Mass (kg)" and "payload_mass_kg" resolve to the same column.
func normalizeColumn(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(name, "\ufeff") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// columnIndex maps canonical column names to their position in a header row.
type columnIndex map[string]int

func resolveColumns(header []string) (columnIndex, error) {
	byNorm := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeColumn(h)
		if n == "" {
			continue
		}
		if _, dup := byNorm[n]; !dup {
			byNorm[n] = i
		}
	}

	idx := make(columnIndex)
	var missing []string
	for _, col := range requiredColumns {
		i, ok := byNorm[normalizeColumn(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	for _, col := range optionalColumns {
		if i, ok := byNorm[normalizeColumn(col)]; ok {
			idx[col] = i
		}
	}
	return idx, nil
}

func (c columnIndex) cell(row []string, col string) (string, bool) {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// record converts one row of string cells into a LaunchRecord.
func (c columnIndex) record(row []string) (models.LaunchRecord, error) {
	var rec models.LaunchRecord

	site, _ := c.cell(row, ColumnLaunchSite)
	if site == "" {
		return rec, fmt.Errorf("%s is empty", ColumnLaunchSite)
	}
	rec.LaunchSite = site

	raw, _ := c.cell(row, ColumnPayloadMass)
	mass, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return rec, fmt.Errorf("%s %q: %w", ColumnPayloadMass, raw, err)
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return rec, fmt.Errorf("%s %q must be a non-negative number", ColumnPayloadMass, raw)
	}
	rec.PayloadMassKg = mass

	rec.BoosterVersionCategory, _ = c.cell(row, ColumnBoosterVersionCategory)

	raw, _ = c.cell(row, ColumnClass)
	class, err := strconv.ParseFloat(raw, 64)
	if err != nil || (class != 0 && class != 1) {
		return rec, fmt.Errorf("%s %q must be 0 or 1", ColumnClass, raw)
	}
	rec.Success = class == 1

	if raw, ok := c.cell(row, ColumnFlightNumber); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return rec, fmt.Errorf("%s %q: %w", ColumnFlightNumber, raw, err)
		}
		rec.FlightNumber = n
	}
	rec.BoosterVersion, _ = c.cell(row, ColumnBoosterVersion)
	return rec, nil
}
