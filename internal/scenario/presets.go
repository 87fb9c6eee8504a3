package scenario

import "sort"

// Presets holds the built-in scenarios. They double as reference regimes:
// leaky_neuron has a closed-form period, queue_release fires repeatedly under
// mild noise.
var Presets = map[string]Scenario{
	"leaky_neuron": {
		ID:           "leaky_neuron",
		Label:        "Leaky integrate-and-fire",
		Description:  "First-order relaxation toward rate/leak with a single firing threshold.",
		Dt:           0.001,
		Duration:     5.0,
		InitialState: 0.0,
		Driver: DriverSpec{
			Type: DriverLeaky,
			Rate: Float(1.5),
			Leak: Float(0.5),
		},
		Thresholds: []ThresholdSpec{
			{Theta: 1.0, Reset: 0.0, DeltaS: 1.0},
		},
	},
	"queue_release": {
		ID:           "queue_release",
		Label:        "Queue with burst releases",
		Description:  "Steady arrivals with mild noise draining through two service levels.",
		Dt:           0.05,
		Duration:     12.0,
		InitialState: 0.0,
		Driver: DriverSpec{
			Type:     DriverLinear,
			Rate:     Float(1.2),
			NoiseStd: 0.08,
		},
		Thresholds: []ThresholdSpec{
			{Theta: 1.0, Reset: 0.2, DeltaS: 1.0},
			{Theta: 1.6, Reset: 0.4, DeltaS: 2.0},
		},
	},
	"ramp_surge": {
		ID:           "ramp_surge",
		Label:        "Piecewise ramp surge",
		Description:  "Slow buildup, a surge regime, then decay under a single release level.",
		Dt:           0.01,
		Duration:     10.0,
		InitialState: 0.1,
		Driver: DriverSpec{
			Type: DriverPiecewise,
			Segments: []Segment{
				{End: 2.0, Rate: 0.4},
				{End: 6.0, Rate: 1.8},
				{End: 10.0, Rate: 0.2},
			},
		},
		Thresholds: []ThresholdSpec{
			{Theta: 2.0, Reset: 0.5, DeltaS: 1.0},
		},
	},
	"noisy_drift": {
		ID:           "noisy_drift",
		Label:        "Noisy subthreshold drift",
		Description:  "Weak drive dominated by noise; releases are rare and stochastic.",
		Dt:           0.02,
		Duration:     20.0,
		InitialState: 0.5,
		Driver: DriverSpec{
			Type:     DriverLinear,
			Rate:     Float(0.15),
			NoiseStd: 0.6,
		},
		Thresholds: []ThresholdSpec{
			{Theta: 2.5, Reset: 0.8, DeltaS: 1.0},
			{Theta: 4.0, Reset: 1.0, DeltaS: 3.0},
		},
	},
}

// Preset returns a built-in scenario by id, or false when unknown.
func Preset(id string) (Scenario, bool) {
	sc, ok := Presets[id]
	return sc, ok
}

// ListPresets returns the built-in scenario ids in sorted order.
func ListPresets() []string {
	ids := make([]string, 0, len(Presets))
	for id := range Presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
