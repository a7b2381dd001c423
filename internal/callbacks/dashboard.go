package callbacks

import (
	"context"

	"github.com/miradorstack/spacex-dash/internal/models"
)

// ChartSource computes chart input from a selection.
type ChartSource interface {
	PieChartData(sel models.Selection) models.PieChart
	ScatterChartData(sel models.Selection) models.ScatterChart
	PieDependsOnPayload() bool
}

// RegisterDashboard wires the pie and scatter callbacks. The pie reads the
// slider only when the source applies the payload range to it.
func RegisterDashboard(r *Registry, src ChartSource) error {
	pieInputs := []Input{InputSiteDropdown}
	if src.PieDependsOnPayload() {
		pieInputs = append(pieInputs, InputPayloadSlider)
	}
	if err := r.Register(Callback{
		Output: OutputSuccessPie,
		Inputs: pieInputs,
		Handler: func(_ context.Context, sel models.Selection) (any, error) {
			return src.PieChartData(sel), nil
		},
	}); err != nil {
		return err
	}
	return r.Register(Callback{
		Output: OutputPayloadScatter,
		Inputs: []Input{InputSiteDropdown, InputPayloadSlider},
		Handler: func(_ context.Context, sel models.Selection) (any, error) {
			return src.ScatterChartData(sel), nil
		},
	})
}
