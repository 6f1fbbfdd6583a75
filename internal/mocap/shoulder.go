package mocap

import (
	"fmt"
	"math"
	"sort"
)

// Median returns the median of values, averaging the two middle samples for
// an even count. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ShoulderWidth computes the median Euclidean distance between paired left
// and right shoulder positions across a trial. Frames where either marker has
// a non-finite coordinate are ignored. It fails with InsufficientDataError if
// no valid frame pair remains, and with DegenerateGeometryError if the median
// is not strictly positive (identical or corrupted markers must never reach
// the normalizer as a divisor).
func ShoulderWidth(left, right []Vec3) (float64, error) {
	if len(left) != len(right) {
		return 0, fmt.Errorf("shoulder tracks have different lengths: left %d, right %d", len(left), len(right))
	}
	dists := make([]float64, 0, len(left))
	for i := range left {
		d := left[i].Dist(right[i])
		if math.IsNaN(d) {
			continue
		}
		dists = append(dists, d)
	}
	if len(dists) == 0 {
		return 0, &InsufficientDataError{Got: 0, Want: 1}
	}
	width := Median(dists)
	if width <= 0 {
		return 0, &DegenerateGeometryError{Width: width}
	}
	return width, nil
}
