package mocap

import (
	"errors"
	"math"
	"testing"
)

func TestShoulderWidthConstantDistance(t *testing.T) {
	// Shoulders 400mm apart on the X axis for the whole trial.
	n := 30
	left := make([]Vec3, n)
	right := make([]Vec3, n)
	for i := range left {
		left[i] = Vec3{0, float64(i), 10}
		right[i] = Vec3{400, float64(i), 10}
	}

	width, err := ShoulderWidth(left, right)
	if err != nil {
		t.Fatalf("ShoulderWidth() error: %v", err)
	}
	if width != 400.0 {
		t.Errorf("ShoulderWidth() = %g, want exactly 400", width)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{300, 100, 200}, 200},
		{"even count averages middle two", []float64{400, 100, 300, 200}, 250},
		{"single", []float64{42}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %g, want %g", tt.values, got, tt.want)
			}
		})
	}

	if !math.IsNaN(Median(nil)) {
		t.Error("Median(nil): want NaN")
	}

	// Input order is preserved.
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median reordered its input: %v", values)
	}
}

func TestShoulderWidthMedian(t *testing.T) {
	// Distances 100, 200, 300 -> median 200.
	left := []Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	right := []Vec3{{100, 0, 0}, {200, 0, 0}, {300, 0, 0}}

	width, err := ShoulderWidth(left, right)
	if err != nil {
		t.Fatalf("ShoulderWidth() error: %v", err)
	}
	if width != 200.0 {
		t.Errorf("ShoulderWidth() = %g, want 200", width)
	}
}

func TestShoulderWidthIgnoresNonFiniteFrames(t *testing.T) {
	nan := math.NaN()
	left := []Vec3{{0, 0, 0}, {nan, 0, 0}, {0, 0, 0}}
	right := []Vec3{{350, 0, 0}, {350, 0, 0}, {350, 0, 0}}

	width, err := ShoulderWidth(left, right)
	if err != nil {
		t.Fatalf("ShoulderWidth() error: %v", err)
	}
	if width != 350.0 {
		t.Errorf("ShoulderWidth() = %g, want 350 after dropping the occluded frame", width)
	}
}

func TestShoulderWidthAllFramesInvalid(t *testing.T) {
	nan := math.NaN()
	left := []Vec3{{nan, 0, 0}, {nan, 0, 0}}
	right := []Vec3{{100, 0, 0}, {100, 0, 0}}

	_, err := ShoulderWidth(left, right)
	var ins *InsufficientDataError
	if !errors.As(err, &ins) {
		t.Fatalf("ShoulderWidth() error = %v, want InsufficientDataError", err)
	}
}

func TestShoulderWidthDegenerateGeometry(t *testing.T) {
	// Identical left/right markers: distance 0 on every frame.
	pos := []Vec3{{10, 20, 30}, {10, 20, 30}, {10, 20, 30}}

	_, err := ShoulderWidth(pos, pos)
	var deg *DegenerateGeometryError
	if !errors.As(err, &deg) {
		t.Fatalf("ShoulderWidth() error = %v, want DegenerateGeometryError", err)
	}
	if deg.Width != 0 {
		t.Errorf("DegenerateGeometryError.Width = %g, want 0", deg.Width)
	}
}

func TestShoulderWidthLengthMismatch(t *testing.T) {
	left := []Vec3{{0, 0, 0}, {0, 0, 0}}
	right := []Vec3{{1, 0, 0}}

	if _, err := ShoulderWidth(left, right); err == nil {
		t.Fatal("ShoulderWidth() with mismatched tracks: want error, got nil")
	}
}
