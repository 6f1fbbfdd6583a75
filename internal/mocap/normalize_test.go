package mocap

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeScenario(t *testing.T) {
	// QdM [5, 0] over a 400mm shoulder width.
	series := []float64{5.0, 0.0}

	norm, err := Normalize(series, 400.0)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	want := []float64{0.0125, 0.0}
	for i := range want {
		if math.Abs(norm[i]-want[i]) > 1e-15 {
			t.Errorf("Normalize()[%d] = %g, want %g", i, norm[i], want[i])
		}
	}
}

func TestNormalizeElementwiseRatio(t *testing.T) {
	series := []float64{0, 1.5, 300, 0.004}
	width := 387.2

	norm, err := Normalize(series, width)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	for i := range series {
		if math.Abs(norm[i]-series[i]/width) > 1e-15 {
			t.Errorf("Normalize()[%d] = %g, want %g", i, norm[i], series[i]/width)
		}
	}
}

func TestNormalizeInvalidWidth(t *testing.T) {
	tests := []struct {
		name  string
		width float64
	}{
		{"zero", 0},
		{"negative", -12.5},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]float64{1, 2}, tt.width)
			var div *DivisionByZeroError
			if !errors.As(err, &div) {
				t.Fatalf("Normalize(width=%g) error = %v, want DivisionByZeroError", tt.width, err)
			}
		})
	}
}

func TestNormalizePreservesNaN(t *testing.T) {
	series := []float64{1, math.NaN(), 3}

	norm, err := Normalize(series, 2)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if !math.IsNaN(norm[1]) {
		t.Errorf("Normalize()[1] = %g, want NaN preserved", norm[1])
	}
	if norm[0] != 0.5 || norm[2] != 1.5 {
		t.Errorf("Normalize() = %v, want [0.5 NaN 1.5]", norm)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	series := []float64{5, 10, 15}
	orig := make([]float64, len(series))
	copy(orig, series)

	norm, err := Normalize(series, 5)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	for i := range series {
		if series[i] != orig[i] {
			t.Errorf("raw series[%d] changed from %g to %g", i, orig[i], series[i])
		}
	}
	// Derived series is its own storage.
	norm[0] = -1
	if series[0] != orig[0] {
		t.Error("writing to the normalized series modified the raw series")
	}
}
