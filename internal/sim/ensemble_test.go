package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/arglab/internal/scenario"
)

func TestRunEnsemble_Shape(t *testing.T) {
	sc, _ := scenario.Preset("queue_release")

	trajectories, err := RunEnsemble(context.Background(), sc, 5, Jitter{Rate: 0.05, Theta: 0.02}, 99)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(trajectories) != 5 {
		t.Fatalf("expected 5 members, got %d", len(trajectories))
	}

	for k, tr := range trajectories {
		if tr.Member != k {
			t.Errorf("member %d tagged as %d", k, tr.Member)
		}
		for i, v := range tr.Accumulator {
			if v < 0 {
				t.Fatalf("member %d accumulator[%d] = %f, must be non-negative", k, i, v)
			}
		}
		if tr.Releases() < 1 {
			t.Errorf("member %d should release under steady drive", k)
		}
	}
}

func TestRunEnsemble_Reproducible(t *testing.T) {
	sc, _ := scenario.Preset("queue_release")
	jitter := Jitter{Rate: 0.1, Leak: 0.1, Theta: 0.05, Reset: 0.05}

	a, err := RunEnsemble(context.Background(), sc, 4, jitter, 123)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	b, err := RunEnsemble(context.Background(), sc, 4, jitter, 123)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("same top-level seed must reproduce the whole ensemble")
	}
}

func TestRunEnsemble_ZeroJitterMatchesBase(t *testing.T) {
	// no noise and no jitter: every member is the base trajectory
	sc, _ := scenario.Preset("leaky_neuron")

	base, _, err := Simulate(context.Background(), sc, 1)
	if err != nil {
		t.Fatalf("base run failed: %v", err)
	}

	trajectories, err := RunEnsemble(context.Background(), sc, 3, Jitter{}, 777)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	for k, tr := range trajectories {
		if !reflect.DeepEqual(tr.Accumulator, base.Accumulator) {
			t.Errorf("member %d diverged from base without jitter or noise", k)
		}
	}
}

func TestRunEnsemble_InvalidSize(t *testing.T) {
	sc, _ := scenario.Preset("leaky_neuron")

	_, err := RunEnsemble(context.Background(), sc, 0, Jitter{}, 1)
	if !errors.Is(err, scenario.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
