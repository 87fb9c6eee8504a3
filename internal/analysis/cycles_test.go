package analysis_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/arglab/internal/analysis"
	"github.com/san-kum/arglab/internal/scenario"
	"github.com/san-kum/arglab/internal/sim"
)

func mustSimulate(id string, seed int64) (scenario.Scenario, *sim.Trajectory, []sim.Event) {
	sc, ok := scenario.Preset(id)
	Expect(ok).To(BeTrue(), "preset %s must exist", id)
	tr, events, err := sim.Simulate(context.Background(), sc, seed)
	Expect(err).NotTo(HaveOccurred())
	return sc, tr, events
}

var _ = Describe("SummarizeCycles", func() {
	It("returns an empty slice when nothing fired", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0, 1},
			Accumulator: []float64{0, 0.5},
		}
		cycles := analysis.SummarizeCycles(tr, nil, 0)
		Expect(cycles).To(BeEmpty())
	})

	It("produces exactly one row per event", func() {
		sc, tr, events := mustSimulate("queue_release", 42)
		Expect(len(events)).To(BeNumerically(">=", 2))

		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)
		Expect(cycles).To(HaveLen(len(events)))
	})

	It("starts the first cycle at the first sample and the initial state", func() {
		sc, tr, events := mustSimulate("queue_release", 42)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)

		Expect(cycles[0].StartTime).To(Equal(tr.Times[0]))
		Expect(cycles[0].RampAmplitude).To(Equal(events[0].StateBefore - sc.InitialState))
	})

	It("chains later cycles from the previous event's time and reset", func() {
		sc, tr, events := mustSimulate("queue_release", 42)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)

		for i := 1; i < len(cycles); i++ {
			Expect(cycles[i].StartTime).To(Equal(events[i-1].Time))
			Expect(cycles[i].RampAmplitude).To(Equal(events[i].StateBefore - events[i-1].Reset))
		}
	})

	It("reports strictly positive ramp amplitudes under a monotone drive", func() {
		sc, tr, events := mustSimulate("queue_release", 42)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)

		for _, c := range cycles {
			Expect(c.RampAmplitude).To(BeNumerically(">", 0))
		}
	})

	It("copies gain, theta and reset from the event", func() {
		sc, tr, events := mustSimulate("queue_release", 42)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)

		for i, c := range cycles {
			Expect(c.ReleaseGain).To(Equal(events[i].DeltaS))
			Expect(c.Theta).To(Equal(events[i].Theta))
			Expect(c.ResetLevel).To(Equal(events[i].Reset))
		}
	})

	It("marks zero-width cycles as NaN instead of dividing", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0, 1},
			Accumulator: []float64{0, 0},
		}
		events := []sim.Event{
			{Time: 1.0, Theta: 1, Reset: 0, DeltaS: 1, StateBefore: 1.2, StateAfter: 0},
			{Time: 1.0, Theta: 1, Reset: 0, DeltaS: 1, StateBefore: 1.1, StateAfter: 0},
		}

		cycles := analysis.SummarizeCycles(tr, events, 0)
		Expect(cycles).To(HaveLen(2))
		Expect(math.IsNaN(cycles[1].Duration)).To(BeTrue())
		Expect(math.IsNaN(cycles[1].MeanSlope)).To(BeTrue())
	})

	It("recovers the analytic period of the leaky integrate-and-fire cycle", func() {
		sc, tr, events := mustSimulate("leaky_neuron", 0)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)
		Expect(cycles).NotTo(BeEmpty())

		a := *sc.Driver.Rate
		b := *sc.Driver.Leak
		th := sc.Thresholds[0]
		expected := (1 / b) * math.Log((a/b-th.Reset)/(a/b-th.Theta))

		measured := cycles[0].Duration
		Expect(math.Abs(measured-expected)).To(Or(
			BeNumerically("<=", 0.01),
			BeNumerically("<=", 0.02*expected),
		))
	})

	It("computes mean slope as amplitude over duration", func() {
		sc, tr, events := mustSimulate("leaky_neuron", 0)
		cycles := analysis.SummarizeCycles(tr, events, sc.InitialState)

		c := cycles[0]
		Expect(c.MeanSlope).To(BeNumerically("~", c.RampAmplitude/c.Duration, 1e-12))
	})
})

var _ = Describe("ViabilityMargin", func() {
	thresholds := []scenario.ThresholdSpec{
		{Theta: 1.0, Reset: 0.0, DeltaS: 1.0},
		{Theta: 2.5, Reset: 0.5, DeltaS: 2.0},
	}

	It("measures the distance from the final state to the top threshold", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0, 1},
			Accumulator: []float64{0, 1.5},
		}

		margin, err := analysis.ViabilityMargin(tr, thresholds)
		Expect(err).NotTo(HaveOccurred())
		Expect(margin.TopThreshold).To(Equal(2.5))
		Expect(margin.CurrentState).To(Equal(1.5))
		Expect(margin.Value).To(Equal(1.0))
		Expect(margin.Relative).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("reports zero margin for a run ending exactly at the top threshold", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0, 1},
			Accumulator: []float64{0, 2.5},
		}

		margin, err := analysis.ViabilityMargin(tr, thresholds)
		Expect(err).NotTo(HaveOccurred())
		Expect(margin.Value).To(BeZero())
		Expect(margin.Relative).To(BeZero())
	})

	It("leaves the relative margin undefined for a zero top threshold", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0},
			Accumulator: []float64{0},
		}

		margin, err := analysis.ViabilityMargin(tr, []scenario.ThresholdSpec{{Theta: 0}})
		Expect(err).NotTo(HaveOccurred())
		Expect(margin.Value).To(BeZero())
		Expect(math.IsNaN(margin.Relative)).To(BeTrue())
	})

	It("rejects an empty threshold set", func() {
		tr := &sim.Trajectory{
			Times:       []float64{0},
			Accumulator: []float64{0},
		}

		_, err := analysis.ViabilityMargin(tr, nil)
		Expect(err).To(MatchError(scenario.ErrConfiguration))
	})
})
