// Package units provides shared constants and conversions for coordinate
// units and frame timing.
package units

import (
	"fmt"
	"time"
)

// Coordinate unit constants. The pipeline works in millimeters internally,
// matching Vicon exports.
const (
	Millimeters = "mm"
	Centimeters = "cm"
	Meters      = "m"
)

// ValidUnits contains all valid coordinate unit values.
var ValidUnits = []string{Millimeters, Centimeters, Meters}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, u := range ValidUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ToMillimeters converts a coordinate value from the given unit to mm.
func ToMillimeters(v float64, unit string) (float64, error) {
	switch unit {
	case Millimeters:
		return v, nil
	case Centimeters:
		return v * 10, nil
	case Meters:
		return v * 1000, nil
	default:
		return 0, fmt.Errorf("unknown coordinate unit %q (valid: mm, cm, m)", unit)
	}
}

// FramesToSeconds converts a frame count to seconds at the given sample rate.
func FramesToSeconds(frames int, sampleRateHz float64) float64 {
	if sampleRateHz <= 0 {
		return 0
	}
	return float64(frames) / sampleRateHz
}

// FramesToDuration converts a frame count to a time.Duration at the given
// sample rate.
func FramesToDuration(frames int, sampleRateHz float64) time.Duration {
	return time.Duration(FramesToSeconds(frames, sampleRateHz) * float64(time.Second))
}
