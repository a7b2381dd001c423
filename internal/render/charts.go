package render

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/miradorstack/spacex-dash/internal/metrics"
	"github.com/miradorstack/spacex-dash/internal/models"
)

// Pie draws the success pie. A chart without slices renders blank.
func Pie(w io.Writer, c models.PieChart, opts Options) error {
	opts = opts.withDefaults()
	if c.Total() == 0 {
		return blank(w, c.Title, opts)
	}

	values := make([]chart.Value, 0, len(c.Slices))
	for i, s := range c.Slices {
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Style: chart.Style{FillColor: paletteColor(i), StrokeColor: chart.ColorWhite},
		})
	}
	pie := chart.PieChart{
		Title:  c.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	if err := pie.Render(opts.Format.provider(), w); err != nil {
		metrics.ObserveRenderError(metrics.ChartPie)
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// Scatter draws payload mass against outcome with one dot series per booster
// category. bounds clamps the x axis; pass the dataset's full range.
func Scatter(w io.Writer, c models.ScatterChart, bounds models.PayloadRange, opts Options) error {
	opts = opts.withDefaults()
	if len(c.Points) == 0 {
		return blank(w, c.Title, opts)
	}

	categories := c.Categories()
	index := make(map[string]int, len(categories))
	series := make([]chart.Series, 0, len(categories))
	for i, cat := range categories {
		index[cat] = i
		series = append(series, chart.ContinuousSeries{
			Name: cat,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    paletteColor(i),
			},
		})
	}
	for _, p := range c.Points {
		i := index[p.BoosterVersionCategory]
		s := series[i].(chart.ContinuousSeries)
		s.XValues = append(s.XValues, p.PayloadMassKg)
		s.YValues = append(s.YValues, float64(p.Class()))
		series[i] = s
	}

	low, high := xRange(c, bounds)
	ch := chart.Chart{
		Title:      c.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Payload Mass (kg)",
			Range: &chart.ContinuousRange{Min: low, Max: high},
		},
		YAxis: chart.YAxis{
			Name:  "class",
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0 Failure"},
				{Value: 1, Label: "1 Success"},
			},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	if err := ch.Render(opts.Format.provider(), w); err != nil {
		metrics.ObserveRenderError(metrics.ChartScatter)
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// xRange intersects the selected payload range with bounds when bounds is a
// proper interval, falling back to the points' extent and widening degenerate ranges.
func xRange(c models.ScatterChart, bounds models.PayloadRange) (float64, float64) {
	low, high := c.Payload.Low, c.Payload.High
	if bounds.High > bounds.Low {
		low = math.Max(low, bounds.Low)
		high = math.Min(high, bounds.High)
	}
	if math.IsInf(low, 0) || math.IsInf(high, 0) || math.IsNaN(low) || math.IsNaN(high) || low > high {
		low, high = math.Inf(1), math.Inf(-1)
		for _, p := range c.Points {
			low = math.Min(low, p.PayloadMassKg)
			high = math.Max(high, p.PayloadMassKg)
		}
	}
	if high-low < 100 {
		mid := (low + high) / 2
		low, high = mid-50, mid+50
	}
	return low, high
}
