package testutil

import (
	"os"
	"testing"

	"github.com/kinetic-data/motion.report/internal/mocap"
)

func TestConstantTrack(t *testing.T) {
	track := ConstantTrack(5, mocap.Vec3{X: 1, Y: 2, Z: 3})
	if len(track) != 5 {
		t.Fatalf("len = %d, want 5", len(track))
	}
	for i, v := range track {
		if v != (mocap.Vec3{X: 1, Y: 2, Z: 3}) {
			t.Errorf("track[%d] = %+v", i, v)
		}
	}
}

func TestLinearTrack(t *testing.T) {
	track := LinearTrack(3, mocap.Vec3{X: 10}, mocap.Vec3{X: 1, Y: 2})
	want := []mocap.Vec3{{X: 10}, {X: 11, Y: 2}, {X: 12, Y: 4}}
	for i := range want {
		if track[i] != want[i] {
			t.Errorf("track[%d] = %+v, want %+v", i, track[i], want[i])
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "x.txt", "hello")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}
