package scenario

import (
	"fmt"
	"sort"
)

// Driver type identifiers.
const (
	DriverLeaky     = "leaky"
	DriverLinear    = "linear"
	DriverPiecewise = "piecewise"
)

// ThresholdSpec defines one crossing level: when the accumulator reaches
// Theta it is set back to Reset and the order parameter gains DeltaS.
type ThresholdSpec struct {
	Theta  float64 `yaml:"theta"`
	Reset  float64 `yaml:"reset"`
	DeltaS float64 `yaml:"delta_s"`
}

// Segment is one regime of a piecewise driver: Rate holds until time End.
type Segment struct {
	End  float64 `yaml:"end"`
	Rate float64 `yaml:"rate"`
}

// DriverSpec describes the accumulator's drive law. Rate and Leak are
// pointers so an absent field is distinguishable from an explicit zero.
type DriverSpec struct {
	Type     string    `yaml:"type"`
	Rate     *float64  `yaml:"rate,omitempty"`
	Leak     *float64  `yaml:"leak,omitempty"`
	Segments []Segment `yaml:"segments,omitempty"`
	NoiseStd float64   `yaml:"noise_std"`
}

// Scenario is a complete accumulate-release configuration. It is built once
// by the loader or taken from Presets and read-only afterwards.
type Scenario struct {
	ID           string          `yaml:"id"`
	Label        string          `yaml:"label"`
	Description  string          `yaml:"description"`
	Dt           float64         `yaml:"dt"`
	Duration     float64         `yaml:"duration"`
	InitialState float64         `yaml:"initial_state"`
	Driver       DriverSpec      `yaml:"driver"`
	Thresholds   []ThresholdSpec `yaml:"thresholds"`
}

func (s Scenario) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrConfiguration, s.Dt)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %g", ErrConfiguration, s.Duration)
	}
	if len(s.Thresholds) == 0 {
		return fmt.Errorf("%w: scenario %q has no thresholds", ErrConfiguration, s.ID)
	}
	if s.Driver.NoiseStd < 0 {
		return fmt.Errorf("%w: noise_std must be non-negative, got %g", ErrConfiguration, s.Driver.NoiseStd)
	}
	return s.Driver.check()
}

// check verifies the conditionally required driver fields. The drive package
// repeats these checks when compiling; validating here keeps load-time
// failures ahead of simulation.
func (d DriverSpec) check() error {
	switch d.Type {
	case DriverLeaky:
		if d.Rate == nil || d.Leak == nil {
			return fmt.Errorf("%w: leaky driver requires rate and leak parameters", ErrConfiguration)
		}
	case DriverLinear:
		if d.Rate == nil {
			return fmt.Errorf("%w: linear driver requires rate parameter", ErrConfiguration)
		}
	case DriverPiecewise:
		if len(d.Segments) == 0 {
			return fmt.Errorf("%w: piecewise driver requires segments", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported driver type: %s", ErrConfiguration, d.Type)
	}
	return nil
}

// SortedThresholds returns a copy sorted by ascending theta. Crossing
// selection always consumes this order regardless of input order.
func (s Scenario) SortedThresholds() []ThresholdSpec {
	out := make([]ThresholdSpec, len(s.Thresholds))
	copy(out, s.Thresholds)
	sort.Slice(out, func(i, j int) bool { return out[i].Theta < out[j].Theta })
	return out
}

// TopThreshold returns the largest theta, or an error for an empty set.
func (s Scenario) TopThreshold() (float64, error) {
	return TopThreshold(s.Thresholds)
}

func TopThreshold(thresholds []ThresholdSpec) (float64, error) {
	if len(thresholds) == 0 {
		return 0, fmt.Errorf("%w: no thresholds defined", ErrConfiguration)
	}
	top := thresholds[0].Theta
	for _, th := range thresholds[1:] {
		if th.Theta > top {
			top = th.Theta
		}
	}
	return top, nil
}

// Float returns a pointer for optional DriverSpec fields.
func Float(v float64) *float64 { return &v }
