package web

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/miradorstack/spacex-dash/internal/callbacks"
	"github.com/miradorstack/spacex-dash/internal/models"
)

// selectionFromQuery reads site, low and high. Missing bounds default to the
// dataset's payload bounds.
func selectionFromQuery(q url.Values, summary models.DatasetSummary) (models.Selection, error) {
	sel := models.Selection{
		Site:    strings.TrimSpace(q.Get("site")),
		Payload: summary.FullRange(),
	}
	var err error
	if sel.Payload.Low, err = boundParam(q, "low", sel.Payload.Low); err != nil {
		return sel, err
	}
	if sel.Payload.High, err = boundParam(q, "high", sel.Payload.High); err != nil {
		return sel, err
	}
	sel.Site = sel.NormalizedSite()
	return sel, nil
}

func boundParam(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// callbackState is the client-side input state sent with a callback request.
type callbackState struct {
	Site string   `json:"site"`
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

func (c callbackState) selection(summary models.DatasetSummary) models.Selection {
	sel := models.Selection{Site: c.Site, Payload: summary.FullRange()}
	if c.Low != nil {
		sel.Payload.Low = *c.Low
	}
	if c.High != nil {
		sel.Payload.High = *c.High
	}
	sel.Site = sel.NormalizedSite()
	return sel
}

type callbackRequest struct {
	Changed []string      `json:"changed"`
	State   callbackState `json:"state"`
}

func (c callbackRequest) inputs() ([]callbacks.Input, error) {
	inputs := make([]callbacks.Input, 0, len(c.Changed))
	for _, name := range c.Changed {
		in, err := callbacks.ParseInput(name)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// chartQuery encodes sel as the query string understood by the chart endpoints.
func chartQuery(sel models.Selection) string {
	q := url.Values{}
	q.Set("site", sel.NormalizedSite())
	q.Set("low", strconv.FormatFloat(sel.Payload.Low, 'f', -1, 64))
	q.Set("high", strconv.FormatFloat(sel.Payload.High, 'f', -1, 64))
	return q.Encode()
}
