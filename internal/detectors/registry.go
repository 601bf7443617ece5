package detectors

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/battery-health/internal/models"
)

// Registry holds an ordered set of uniquely named detectors.
type Registry struct {
	detectors []Detector
	parallel  bool
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithParallel runs detectors concurrently during RunAll.
func WithParallel(enabled bool) RegistryOption {
	return func(r *Registry) { r.parallel = enabled }
}

// NewRegistry builds a registry from the supplied detectors.
func NewRegistry(detectors []Detector, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	for _, d := range detectors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewStandardRegistry returns a registry holding the four built-in detectors.
func NewStandardRegistry(t Thresholds, opts ...RegistryOption) (*Registry, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}
	return NewRegistry(Standard(t), opts...)
}

// Register appends a detector. Names must be unique.
func (r *Registry) Register(d Detector) error {
	if d == nil {
		return fmt.Errorf("detector is nil")
	}
	name := d.Name()
	if name == "" {
		return fmt.Errorf("detector name is empty")
	}
	for _, existing := range r.detectors {
		if existing.Name() == name {
			return fmt.Errorf("detector %q already registered", name)
		}
	}
	r.detectors = append(r.detectors, d)
	return nil
}

// Names returns detector names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.detectors))
	for _, d := range r.detectors {
		names = append(names, d.Name())
	}
	return names
}

// RunAll invokes every detector exactly once and returns results keyed by name.
// The first detector error is returned prefixed with the detector name.
func (r *Registry) RunAll(ctx context.Context, payload models.BatteryPayload) (map[string]models.AnomalyResult, error) {
	results := make([]models.AnomalyResult, len(r.detectors))

	if r.parallel {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, gctx := errgroup.WithContext(ctx)
		for i, d := range r.detectors {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := d.Detect(payload)
				if err != nil {
					return fmt.Errorf("%s: %w", d.Name(), err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, d := range r.detectors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := d.Detect(payload)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.Name(), err)
			}
			results[i] = res
		}
	}

	out := make(map[string]models.AnomalyResult, len(results))
	for i, d := range r.detectors {
		out[d.Name()] = results[i]
	}
	return out, nil
}
