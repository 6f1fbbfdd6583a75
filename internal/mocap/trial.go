// Package mocap holds the motion-capture data model and the core kinematic
// calculators: quantity of motion (QdM), shoulder-width estimation and
// body-scale normalization.
//
// Coordinates are in millimeters, matching Vicon exports. All calculators are
// pure: they never mutate their inputs and derived series are always freshly
// allocated.
package mocap

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Vec3 is a 3D marker position in millimeters.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the Euclidean distance between v and w. If either endpoint has
// a non-finite component the result is NaN, so downstream consumers can treat
// the sample as missing instead of seeing a spurious infinity.
func (v Vec3) Dist(w Vec3) float64 {
	if !v.IsFinite() || !w.IsFinite() {
		return math.NaN()
	}
	return v.Sub(w).Norm()
}

// IsFinite reports whether all three components are finite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Condition is a postural condition label.
type Condition string

// The three postural conditions of the study design.
const (
	Seated       Condition = "SEATED"
	SemiStanding Condition = "SEMI-STANDING"
	Standing     Condition = "STANDING"
)

// Conditions lists all valid condition labels in their design order.
var Conditions = []Condition{Seated, SemiStanding, Standing}

// ParseCondition maps a label to a Condition. Matching is exact and
// case-sensitive: condition labels come from file names and config, both of
// which use the canonical uppercase form.
func ParseCondition(s string) (Condition, error) {
	for _, c := range Conditions {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown condition %q (valid: SEATED, SEMI-STANDING, STANDING)", s)
}

// Trial is one recording session for one subject under one postural
// condition. It is constructed once by the loader and read-only afterwards:
// marker tracks are returned by reference but calculators never write to
// them.
type Trial struct {
	Subject      string
	Condition    Condition
	SampleRateHz float64

	nFrames int
	tracks  map[string][]Vec3
}

// NewTrial builds a Trial from per-marker position tracks. All tracks must
// have the same, non-zero length; marker identity is by name.
func NewTrial(subject string, cond Condition, sampleRateHz float64, tracks map[string][]Vec3) (*Trial, error) {
	if subject == "" {
		return nil, fmt.Errorf("trial needs a subject ID")
	}
	if _, err := ParseCondition(string(cond)); err != nil {
		return nil, fmt.Errorf("trial %s: %w", subject, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("trial %s/%s: no marker tracks", subject, cond)
	}
	n := -1
	for name, track := range tracks {
		if len(track) == 0 {
			return nil, fmt.Errorf("trial %s/%s: marker %q has no frames", subject, cond, name)
		}
		if n == -1 {
			n = len(track)
		} else if len(track) != n {
			return nil, fmt.Errorf("trial %s/%s: marker %q has %d frames, want %d", subject, cond, name, len(track), n)
		}
	}
	copied := make(map[string][]Vec3, len(tracks))
	for name, track := range tracks {
		t := make([]Vec3, len(track))
		copy(t, track)
		copied[name] = t
	}
	return &Trial{
		Subject:      subject,
		Condition:    cond,
		SampleRateHz: sampleRateHz,
		nFrames:      n,
		tracks:       copied,
	}, nil
}

// NFrames returns the number of frames in the trial.
func (t *Trial) NFrames() int {
	return t.nFrames
}

// Markers returns the marker names in the trial, sorted.
func (t *Trial) Markers() []string {
	names := make([]string, 0, len(t.tracks))
	for name := range t.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Track returns the position sequence for a marker. The returned slice must
// not be modified by the caller.
func (t *Trial) Track(marker string) ([]Vec3, error) {
	track, ok := t.tracks[marker]
	if !ok {
		return nil, fmt.Errorf("trial %s/%s: no track for marker %q", t.Subject, t.Condition, marker)
	}
	return track, nil
}

// Frame returns the marker positions at frame index i.
func (t *Trial) Frame(i int) (map[string]Vec3, error) {
	if i < 0 || i >= t.nFrames {
		return nil, fmt.Errorf("trial %s/%s: frame %d out of range [0,%d)", t.Subject, t.Condition, i, t.nFrames)
	}
	frame := make(map[string]Vec3, len(t.tracks))
	for name, track := range t.tracks {
		frame[name] = track[i]
	}
	return frame, nil
}

// QdM computes the quantity-of-motion series for one marker: per-frame
// displacement magnitudes, length NFrames()-1. Errors carry the trial's
// subject and condition.
func (t *Trial) QdM(marker string) ([]float64, error) {
	track, err := t.Track(marker)
	if err != nil {
		return nil, err
	}
	series, err := QdM(track)
	if err != nil {
		var ins *InsufficientDataError
		if errors.As(err, &ins) {
			ins.Subject = t.Subject
			ins.Condition = t.Condition
			ins.Marker = marker
		}
		return nil, err
	}
	return series, nil
}

// ShoulderWidth computes the median inter-shoulder distance for the trial
// given the two shoulder marker names. Errors carry the trial's subject and
// condition.
func (t *Trial) ShoulderWidth(leftMarker, rightMarker string) (float64, error) {
	left, err := t.Track(leftMarker)
	if err != nil {
		return 0, err
	}
	right, err := t.Track(rightMarker)
	if err != nil {
		return 0, err
	}
	width, err := ShoulderWidth(left, right)
	if err != nil {
		switch e := err.(type) {
		case *InsufficientDataError:
			e.Subject = t.Subject
			e.Condition = t.Condition
		case *DegenerateGeometryError:
			e.Subject = t.Subject
			e.Condition = t.Condition
		}
		return 0, err
	}
	return width, nil
}
