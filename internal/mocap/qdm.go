package mocap

import "math"

// DisplacementSeries is a lazy, finite, single-pass sequence of per-frame
// displacement magnitudes for one marker. Element i is the Euclidean distance
// between the positions at frames i+1 and i, so the sequence has one fewer
// element than the trial has frames. A frame with a non-finite coordinate
// yields NaN at the affected indices rather than aborting the sequence.
//
// The series is not restartable: once drained it stays exhausted.
type DisplacementSeries struct {
	pos []Vec3
	i   int
}

// Displacements returns the lazy displacement series over a marker's position
// track. It fails with InsufficientDataError when fewer than two frames are
// available, since a displacement needs a prior frame.
func Displacements(pos []Vec3) (*DisplacementSeries, error) {
	if len(pos) < 2 {
		return nil, &InsufficientDataError{Got: len(pos), Want: 2}
	}
	return &DisplacementSeries{pos: pos}, nil
}

// Len returns the total number of steps in the series, including those
// already consumed.
func (d *DisplacementSeries) Len() int {
	return len(d.pos) - 1
}

// Next returns the next displacement magnitude. The second return is false
// once the series is exhausted.
func (d *DisplacementSeries) Next() (float64, bool) {
	if d.i >= len(d.pos)-1 {
		return 0, false
	}
	step := d.pos[d.i].Dist(d.pos[d.i+1])
	d.i++
	return step, true
}

// Collect drains the remaining elements into a slice.
func (d *DisplacementSeries) Collect() []float64 {
	out := make([]float64, 0, d.Len()-d.i)
	for {
		step, ok := d.Next()
		if !ok {
			return out
		}
		out = append(out, step)
	}
}

// QdM computes the full quantity-of-motion series for a marker track:
// the drained DisplacementSeries, length len(pos)-1.
func QdM(pos []Vec3) ([]float64, error) {
	series, err := Displacements(pos)
	if err != nil {
		return nil, err
	}
	return series.Collect(), nil
}

// PathLength sums the finite steps of a QdM series, the cumulative 3D path
// traveled by the marker. NaN steps count as missing and are skipped; the
// second return is the number of steps that contributed.
func PathLength(series []float64) (float64, int) {
	var total float64
	var n int
	for _, step := range series {
		if math.IsNaN(step) || math.IsInf(step, 0) {
			continue
		}
		total += step
		n++
	}
	return total, n
}
