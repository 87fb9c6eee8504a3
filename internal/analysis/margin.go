package analysis

import (
	"math"

	"github.com/san-kum/arglab/internal/scenario"
	"github.com/san-kum/arglab/internal/sim"
)

// Margin is the distance from the final simulated state to the highest
// threshold. Relative is NaN when the top threshold is zero.
type Margin struct {
	CurrentState float64
	TopThreshold float64
	Value        float64
	Relative     float64
}

// ViabilityMargin computes the end-of-run headroom to the most demanding
// threshold. An empty threshold set is a configuration error.
func ViabilityMargin(tr *sim.Trajectory, thresholds []scenario.ThresholdSpec) (Margin, error) {
	top, err := scenario.TopThreshold(thresholds)
	if err != nil {
		return Margin{}, err
	}

	current := tr.FinalState()
	value := top - current
	relative := math.NaN()
	if top != 0 {
		relative = value / top
	}

	return Margin{
		CurrentState: current,
		TopThreshold: top,
		Value:        value,
		Relative:     relative,
	}, nil
}
