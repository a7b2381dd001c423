package models

import "math"

// PayloadRange bounds payload mass in kilograms, both ends inclusive.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// UnboundedRange matches every finite payload mass.
func UnboundedRange() PayloadRange {
	return PayloadRange{Low: math.Inf(-1), High: math.Inf(1)}
}

// Contains reports whether mass lies within the range. An inverted range or a NaN
// bound contains nothing.
func (r PayloadRange) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}

// Empty reports whether no value can satisfy the range.
func (r PayloadRange) Empty() bool {
	return math.IsNaN(r.Low) || math.IsNaN(r.High) || r.Low > r.High
}

// Selection is the UI-owned input state: the dropdown value and the slider range.
type Selection struct {
	Site    string       `json:"site"`
	Payload PayloadRange `json:"payload"`
}

// NormalizedSite returns the selected site, mapping a cleared dropdown to AllSites.
func (s Selection) NormalizedSite() string {
	if s.Site == "" {
		return AllSites
	}
	return s.Site
}

// DropdownOption is one entry of the launch-site dropdown.
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SliderSpec describes the payload range slider.
type SliderSpec struct {
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Step  float64   `json:"step"`
	Marks []float64 `json:"marks"`
}
