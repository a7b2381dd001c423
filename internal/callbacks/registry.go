// Package callbacks routes dashboard input changes to the chart handlers that
// depend on them.
package callbacks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/miradorstack/spacex-dash/internal/models"
)

// Input identifies a UI control whose value feeds callbacks.
type Input string

// Output identifies a UI element produced by a callback.
type Output string

// Dashboard inputs and outputs.
const (
	InputSiteDropdown  Input = "site-dropdown"
	InputPayloadSlider Input = "payload-slider"

	OutputSuccessPie     Output = "success-pie-chart"
	OutputPayloadScatter Output = "success-payload-scatter-chart"
)

// ErrDuplicateOutput is returned when two callbacks claim the same output.
var ErrDuplicateOutput = errors.New("output already has a callback")

// ErrUnknownInput is returned for input names no callback can depend on.
var ErrUnknownInput = errors.New("unknown input")

// ParseInput validates an input name received from a client.
func ParseInput(name string) (Input, error) {
	switch in := Input(name); in {
	case InputSiteDropdown, InputPayloadSlider:
		return in, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownInput, name)
	}
}

// Handler computes an output value from the current selection.
type Handler func(ctx context.Context, sel models.Selection) (any, error)

// Callback binds an output to the inputs it reads.
type Callback struct {
	Output  Output
	Inputs  []Input
	Handler Handler
}

func (c Callback) dependsOn(changed []Input) bool {
	for _, in := range c.Inputs {
		for _, ch := range changed {
			if in == ch {
				return true
			}
		}
	}
	return false
}

// Result is the value a callback produced for its output.
type Result struct {
	Output Output `json:"output"`
	Value  any    `json:"value"`
}

// Registry holds callbacks in registration order. Dispatches are serialised so
// events are handled one at a time in arrival order.
type Registry struct {
	mu        sync.Mutex
	callbacks []Callback
	outputs   map[Output]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{outputs: make(map[Output]struct{})}
}

// Register adds cb. Each output may be registered once.
func (r *Registry) Register(cb Callback) error {
	if cb.Output == "" {
		return errors.New("callback output is required")
	}
	if len(cb.Inputs) == 0 {
		return fmt.Errorf("callback %s declares no inputs", cb.Output)
	}
	if cb.Handler == nil {
		return fmt.Errorf("callback %s has no handler", cb.Output)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outputs[cb.Output]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOutput, cb.Output)
	}
	r.outputs[cb.Output] = struct{}{}
	cb.Inputs = append([]Input(nil), cb.Inputs...)
	r.callbacks = append(r.callbacks, cb)
	return nil
}

// Dependents lists the outputs recomputed when input changes.
func (r *Registry) Dependents(input Input) []Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Output
	for _, cb := range r.callbacks {
		if cb.dependsOn([]Input{input}) {
			out = append(out, cb.Output)
		}
	}
	return out
}

// Dispatch runs every callback reading one of the changed inputs, in
// registration order, and returns their results.
func (r *Registry) Dispatch(ctx context.Context, changed []Input, sel models.Selection) ([]Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, sel, func(cb Callback) bool { return cb.dependsOn(changed) })
}

// DispatchAll runs every callback, as on the initial page render.
func (r *Registry) DispatchAll(ctx context.Context, sel models.Selection) ([]Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, sel, func(Callback) bool { return true })
}

func (r *Registry) run(ctx context.Context, sel models.Selection, match func(Callback) bool) ([]Result, error) {
	results := make([]Result, 0, len(r.callbacks))
	for _, cb := range r.callbacks {
		if !match(cb) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := cb.Handler(ctx, sel)
		if err != nil {
			return nil, fmt.Errorf("callback %s: %w", cb.Output, err)
		}
		results = append(results, Result{Output: cb.Output, Value: value})
	}
	return results, nil
}
