package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/stats"
)

func TestTrialSeriesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial.png")
	series := []float64{0.01, 0.02, math.NaN(), 0.015, 0.03}

	if err := TrialSeriesPNG(path, "P01 SEATED poignet_D", series, 100); err != nil {
		t.Fatalf("TrialSeriesPNG() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestTrialSeriesPNGErrors(t *testing.T) {
	dir := t.TempDir()

	if err := TrialSeriesPNG(filepath.Join(dir, "a.png"), "t", []float64{1}, 0); err == nil {
		t.Error("zero sample rate: want error, got nil")
	}
	allNaN := []float64{math.NaN(), math.NaN()}
	if err := TrialSeriesPNG(filepath.Join(dir, "b.png"), "t", allNaN, 100); err == nil {
		t.Error("all-NaN series: want error, got nil")
	}
}

func TestWriteHTML(t *testing.T) {
	rows := []aggregate.Row{
		{Subject: "P01", Condition: mocap.Seated, Marker: "poignet_D", Steps: 10, QdMNorm: 0.01},
		{Subject: "P01", Condition: mocap.SemiStanding, Marker: "poignet_D", Steps: 10, QdMNorm: 0.02},
		{Subject: "P01", Condition: mocap.Standing, Marker: "poignet_D", Steps: 10, QdMNorm: 0.03},
		{Subject: "P02", Condition: mocap.Seated, Marker: "poignet_D", Steps: 10, QdMNorm: 0.015},
		{Subject: "P02", Condition: mocap.SemiStanding, Marker: "poignet_D", Steps: 10, QdMNorm: 0.025},
		{Subject: "P02", Condition: mocap.Standing, Marker: "poignet_D", Steps: 10, QdMNorm: 0.035},
	}
	anova := map[string]stats.ANOVAResult{
		"poignet_D": {F: 7, DF1: 2, DF2: 4, P: 0.049, PartialEtaSq: 0.78},
	}

	var buf bytes.Buffer
	if err := WriteHTML(&buf, rows, mocap.Conditions, anova); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Marker poignet_D", "SEATED", "SEMI-STANDING", "STANDING", "p=0.0490"} {
		if !strings.Contains(out, want) {
			t.Errorf("report HTML missing %q", want)
		}
	}
}

func TestWriteHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, nil, mocap.Conditions, nil); err == nil {
		t.Error("WriteHTML(nil rows): want error, got nil")
	}
}
