package analysis

import (
	"math"

	"github.com/san-kum/arglab/internal/sim"
)

// CycleSummary holds the key statistics of one accumulate-release cycle.
type CycleSummary struct {
	StartTime     float64
	EndTime       float64
	Duration      float64
	RampAmplitude float64
	MeanSlope     float64
	ReleaseGain   float64
	Theta         float64
	ResetLevel    float64
}

// CycleColumns is the cycle table export contract, in order.
var CycleColumns = []string{
	"start_time", "end_time", "duration", "ramp_amplitude",
	"mean_slope", "release_gain", "theta", "reset_level",
}

// SummarizeCycles converts the event list into per-cycle statistics, one row
// per event in event order. The first cycle starts at the first sample with
// the initial state; each later cycle starts at the previous event's time
// and reset level. A zero-width cycle gets NaN duration and slope.
func SummarizeCycles(tr *sim.Trajectory, events []sim.Event, initialState float64) []CycleSummary {
	if len(events) == 0 {
		return []CycleSummary{}
	}

	summaries := make([]CycleSummary, 0, len(events))
	lastTime := tr.Times[0]
	lastState := initialState

	for _, ev := range events {
		duration := ev.Time - lastTime
		if duration <= 0 {
			duration = math.NaN()
		}
		amplitude := ev.StateBefore - lastState
		slope := math.NaN()
		if !math.IsNaN(duration) && duration != 0 {
			slope = amplitude / duration
		}
		summaries = append(summaries, CycleSummary{
			StartTime:     lastTime,
			EndTime:       ev.Time,
			Duration:      duration,
			RampAmplitude: amplitude,
			MeanSlope:     slope,
			ReleaseGain:   ev.DeltaS,
			Theta:         ev.Theta,
			ResetLevel:    ev.Reset,
		})
		lastTime = ev.Time
		lastState = ev.Reset
	}

	return summaries
}
