package mocap

import "fmt"

// InsufficientDataError reports that a computation had too few frames or too
// few valid samples. The Subject/Condition/Marker fields are filled in when
// the failure happens in a trial context; they stay empty for bare series.
type InsufficientDataError struct {
	Subject   string
	Condition Condition
	Marker    string
	Got       int
	Want      int
}

func (e *InsufficientDataError) Error() string {
	msg := fmt.Sprintf("insufficient data: %d valid samples, need at least %d", e.Got, e.Want)
	return withTrialContext(msg, e.Subject, e.Condition, e.Marker)
}

// DegenerateGeometryError reports an implausible geometric result, e.g. a
// non-positive shoulder width. Such a value indicates corrupted or missing
// marker data and is never used as a divisor.
type DegenerateGeometryError struct {
	Subject   string
	Condition Condition
	Width     float64
}

func (e *DegenerateGeometryError) Error() string {
	msg := fmt.Sprintf("degenerate geometry: shoulder width %g mm is not positive", e.Width)
	return withTrialContext(msg, e.Subject, e.Condition, "")
}

// DivisionByZeroError reports a normalization with an invalid denominator.
type DivisionByZeroError struct {
	Subject   string
	Condition Condition
	Marker    string
	Width     float64
}

func (e *DivisionByZeroError) Error() string {
	msg := fmt.Sprintf("cannot normalize by shoulder width %g", e.Width)
	return withTrialContext(msg, e.Subject, e.Condition, e.Marker)
}

func withTrialContext(msg, subject string, cond Condition, marker string) string {
	if subject == "" {
		return msg
	}
	if marker != "" {
		return fmt.Sprintf("%s/%s marker %s: %s", subject, cond, marker, msg)
	}
	return fmt.Sprintf("%s/%s: %s", subject, cond, msg)
}
