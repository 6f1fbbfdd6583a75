// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kinetic-data/motion.report/internal/mocap"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within tol of want.
func AssertInDelta(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("value = %g, want %g (tol %g)", got, want, tol)
	}
}

// ConstantTrack builds a marker track of n identical positions.
func ConstantTrack(n int, v mocap.Vec3) []mocap.Vec3 {
	track := make([]mocap.Vec3, n)
	for i := range track {
		track[i] = v
	}
	return track
}

// LinearTrack builds a marker track of n positions stepping by step each
// frame, starting at origin.
func LinearTrack(n int, origin, step mocap.Vec3) []mocap.Vec3 {
	track := make([]mocap.Vec3, n)
	for i := range track {
		track[i] = mocap.Vec3{
			X: origin.X + float64(i)*step.X,
			Y: origin.Y + float64(i)*step.Y,
			Z: origin.Z + float64(i)*step.Z,
		}
	}
	return track
}

// WriteFile writes content to a file under dir and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
