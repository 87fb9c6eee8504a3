package sim

import (
	"context"
	"math"
	"math/rand"

	"github.com/san-kum/arglab/internal/drive"
	"github.com/san-kum/arglab/internal/scenario"
)

// Simulator runs one scenario. New validates the scenario and compiles its
// drive law up front, so Run cannot fail on configuration once constructed.
type Simulator struct {
	sc         scenario.Scenario
	drv        drive.Drive
	thresholds []scenario.ThresholdSpec
}

func New(sc scenario.Scenario) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	drv, err := drive.New(sc.Driver)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		sc:         sc,
		drv:        drv,
		thresholds: sc.SortedThresholds(),
	}, nil
}

func (s *Simulator) Scenario() scenario.Scenario { return s.sc }

// Run integrates the scenario over [0, duration] with step dt and returns
// the sample table plus the ordered release events. The same seed always
// reproduces the same trajectory bit for bit.
func (s *Simulator) Run(ctx context.Context, seed int64) (*Trajectory, []Event, error) {
	rng := rand.New(rand.NewSource(seed))

	steps := int(math.Ceil(s.sc.Duration/s.sc.Dt)) + 1
	tr := newTrajectory(steps)
	for i := 0; i < steps; i++ {
		tr.Times[i] = math.Min(float64(i)*s.sc.Dt, s.sc.Duration)
	}
	tr.Accumulator[0] = s.sc.InitialState

	events := make([]Event, 0)

	for i := 1; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		state := tr.Accumulator[i-1]
		derivative := s.drv.Derivative(tr.Times[i-1], state)
		if s.sc.Driver.NoiseStd > 0 {
			derivative += rng.NormFloat64() * s.sc.Driver.NoiseStd
		}
		tr.Driver[i-1] = derivative

		proposed := state + derivative*s.sc.Dt

		// Thresholds are sorted ascending, so the last crossed entry is
		// the highest one reached this step; it alone fires.
		fired := false
		var sel scenario.ThresholdSpec
		for _, th := range s.thresholds {
			if proposed >= th.Theta {
				sel = th
				fired = true
			}
		}

		if fired {
			events = append(events, Event{
				Time:        tr.Times[i],
				Theta:       sel.Theta,
				Reset:       sel.Reset,
				DeltaS:      sel.DeltaS,
				StateBefore: proposed,
				StateAfter:  sel.Reset,
			})
			tr.Accumulator[i] = math.Max(sel.Reset, 0)
			tr.OrderParameter[i] = tr.OrderParameter[i-1] + sel.DeltaS
			tr.Release[i] = 1
		} else {
			tr.Accumulator[i] = math.Max(proposed, 0)
			tr.OrderParameter[i] = tr.OrderParameter[i-1]
		}
	}

	// No derivative is computed for the final sample; carry the last one.
	if steps > 1 {
		tr.Driver[steps-1] = tr.Driver[steps-2]
	}

	return tr, events, nil
}

// Simulate is a one-shot convenience around New and Run.
func Simulate(ctx context.Context, sc scenario.Scenario, seed int64) (*Trajectory, []Event, error) {
	s, err := New(sc)
	if err != nil {
		return nil, nil, err
	}
	return s.Run(ctx, seed)
}
