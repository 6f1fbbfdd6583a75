package mocap

import "math"

// Normalize divides a QdM series element-wise by the shoulder width,
// producing a new body-scale-invariant series. The input series is never
// modified, so the raw values stay available for traceability. A width that
// is zero, negative or non-finite fails with DivisionByZeroError instead of
// silently producing infinities. NaN elements stay NaN.
func Normalize(series []float64, width float64) ([]float64, error) {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return nil, &DivisionByZeroError{Width: width}
	}
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v / width
	}
	return out, nil
}
