// Package drive compiles a scenario's DriverSpec into a concrete drive law.
//
// The set of laws is closed: [Leaky], [Linear] and [Piecewise]. Missing or
// invalid fields are rejected by [New] before a simulation starts, so
// Derivative itself cannot fail inside the step loop.
package drive

import (
	"fmt"

	"github.com/san-kum/arglab/internal/scenario"
)

// Drive computes the accumulator's instantaneous rate of change. Noise is
// applied by the integrator, not here; Derivative is pure.
type Drive interface {
	Derivative(t, state float64) float64
}

// Leaky relaxes toward Rate/Leak: dx/dt = rate - leak*x.
type Leaky struct {
	Rate float64
	Leak float64
}

func (d Leaky) Derivative(_, state float64) float64 {
	return d.Rate - d.Leak*state
}

// Linear drives at a constant rate.
type Linear struct {
	Rate float64
}

func (d Linear) Derivative(_, _ float64) float64 {
	return d.Rate
}

// Piecewise holds each segment's rate until the segment's end time. Past the
// last segment the final rate is sustained.
type Piecewise struct {
	Segments []scenario.Segment
}

func (d Piecewise) Derivative(t, _ float64) float64 {
	for _, seg := range d.Segments {
		if seg.End >= t {
			return seg.Rate
		}
	}
	return d.Segments[len(d.Segments)-1].Rate
}

// New builds the drive law declared by spec, checking the conditionally
// required fields. All failures wrap scenario.ErrConfiguration.
func New(spec scenario.DriverSpec) (Drive, error) {
	switch spec.Type {
	case scenario.DriverLeaky:
		if spec.Rate == nil || spec.Leak == nil {
			return nil, fmt.Errorf("%w: leaky driver requires rate and leak parameters", scenario.ErrConfiguration)
		}
		return Leaky{Rate: *spec.Rate, Leak: *spec.Leak}, nil
	case scenario.DriverLinear:
		if spec.Rate == nil {
			return nil, fmt.Errorf("%w: linear driver requires rate parameter", scenario.ErrConfiguration)
		}
		return Linear{Rate: *spec.Rate}, nil
	case scenario.DriverPiecewise:
		if len(spec.Segments) == 0 {
			return nil, fmt.Errorf("%w: piecewise driver requires segments", scenario.ErrConfiguration)
		}
		segs := make([]scenario.Segment, len(spec.Segments))
		copy(segs, spec.Segments)
		return Piecewise{Segments: segs}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver type: %s", scenario.ErrConfiguration, spec.Type)
	}
}
