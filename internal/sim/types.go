package sim

// Event records one threshold crossing. StateBefore is the proposed Euler
// state that reached the threshold (it may overshoot theta); StateAfter is
// the reset value the accumulator was set to.
type Event struct {
	Time        float64
	Theta       float64
	Reset       float64
	DeltaS      float64
	StateBefore float64
	StateAfter  float64
}

// Trajectory is the per-step sample table of a run, stored column-wise.
// Index order is time order. Member is the ensemble member index, or -1 for
// a single run.
type Trajectory struct {
	Times          []float64
	Accumulator    []float64
	OrderParameter []float64
	Driver         []float64
	Release        []int
	Member         int
}

// Columns is the trajectory export contract, in order.
var Columns = []string{"time", "accumulator", "order_parameter", "driver", "release"}

func newTrajectory(steps int) *Trajectory {
	return &Trajectory{
		Times:          make([]float64, steps),
		Accumulator:    make([]float64, steps),
		OrderParameter: make([]float64, steps),
		Driver:         make([]float64, steps),
		Release:        make([]int, steps),
		Member:         -1,
	}
}

func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

// FinalState returns the accumulator value at the last sample.
func (tr *Trajectory) FinalState() float64 {
	return tr.Accumulator[len(tr.Accumulator)-1]
}

// Releases returns the number of steps flagged as release events.
func (tr *Trajectory) Releases() int {
	n := 0
	for _, r := range tr.Release {
		n += r
	}
	return n
}
