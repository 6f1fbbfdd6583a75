package units

import (
	"math"
	"testing"
	"time"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mm", Millimeters, true},
		{"valid cm", Centimeters, true},
		{"valid m", Meters, true},
		{"invalid unit", "inch", false},
		{"empty unit", "", false},
		{"uppercase MM", "MM", false}, // Case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestToMillimeters(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		unit     string
		expected float64
		wantErr  bool
	}{
		{"mm passthrough", 123.4, Millimeters, 123.4, false},
		{"cm to mm", 40.0, Centimeters, 400.0, false},
		{"m to mm", 0.4, Meters, 400.0, false},
		{"zero", 0, Meters, 0, false},
		{"unknown unit", 1, "ft", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ToMillimeters(tt.value, tt.unit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToMillimeters(%g, %s) error = %v, wantErr %v", tt.value, tt.unit, err, tt.wantErr)
			}
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("ToMillimeters(%g, %s) = %g, want %g", tt.value, tt.unit, result, tt.expected)
			}
		})
	}
}

func TestFramesToSeconds(t *testing.T) {
	tests := []struct {
		name     string
		frames   int
		rate     float64
		expected float64
	}{
		{"100 frames at 100Hz", 100, 100, 1.0},
		{"50 frames at 200Hz", 50, 200, 0.25},
		{"zero rate", 100, 0, 0},
		{"negative rate", 100, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FramesToSeconds(tt.frames, tt.rate)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("FramesToSeconds(%d, %g) = %g, want %g", tt.frames, tt.rate, result, tt.expected)
			}
		})
	}
}

func TestFramesToDuration(t *testing.T) {
	if d := FramesToDuration(250, 100); d != 2500*time.Millisecond {
		t.Errorf("FramesToDuration(250, 100) = %v, want 2.5s", d)
	}
}
