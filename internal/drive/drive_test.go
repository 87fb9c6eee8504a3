package drive

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/arglab/internal/scenario"
)

func TestNew_Leaky(t *testing.T) {
	d, err := New(scenario.DriverSpec{
		Type: scenario.DriverLeaky,
		Rate: scenario.Float(1.5),
		Leak: scenario.Float(0.5),
	})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	// dx/dt = rate - leak*x
	got := d.Derivative(0, 2.0)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected derivative 0.5, got %f", got)
	}
}

func TestNew_Linear(t *testing.T) {
	d, err := New(scenario.DriverSpec{
		Type: scenario.DriverLinear,
		Rate: scenario.Float(0.7),
	})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if got := d.Derivative(3.0, 100.0); got != 0.7 {
		t.Errorf("linear drive should ignore time and state, got %f", got)
	}
}

func TestNew_Piecewise(t *testing.T) {
	d, err := New(scenario.DriverSpec{
		Type: scenario.DriverPiecewise,
		Segments: []scenario.Segment{
			{End: 2.0, Rate: 0.4},
			{End: 6.0, Rate: 1.8},
		},
	})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	tests := []struct {
		time     float64
		expected float64
	}{
		{0.0, 0.4},
		{2.0, 0.4}, // segment end is inclusive
		{2.1, 1.8},
		{6.0, 1.8},
		{100.0, 1.8}, // final regime is sustained
	}

	for _, tt := range tests {
		if got := d.Derivative(tt.time, 0); got != tt.expected {
			t.Errorf("t=%.1f: expected %f, got %f", tt.time, tt.expected, got)
		}
	}
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		spec scenario.DriverSpec
	}{
		{"leaky missing rate", scenario.DriverSpec{Type: scenario.DriverLeaky, Leak: scenario.Float(0.5)}},
		{"leaky missing leak", scenario.DriverSpec{Type: scenario.DriverLeaky, Rate: scenario.Float(1.0)}},
		{"linear missing rate", scenario.DriverSpec{Type: scenario.DriverLinear}},
		{"piecewise no segments", scenario.DriverSpec{Type: scenario.DriverPiecewise}},
		{"unsupported type", scenario.DriverSpec{Type: "quadratic"}},
		{"empty type", scenario.DriverSpec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, scenario.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
