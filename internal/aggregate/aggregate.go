// Package aggregate turns per-trial normalized QdM series into summary rows
// for the repeated-measures statistics stage and enforces a complete
// experimental design.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kinetic-data/motion.report/internal/mocap"
)

// Stat selects the central-tendency statistic used to summarize a series.
type Stat string

const (
	StatMean   Stat = "mean"
	StatMedian Stat = "median"
)

// ParseStat maps a config value to a Stat.
func ParseStat(s string) (Stat, error) {
	switch Stat(s) {
	case StatMean, StatMedian:
		return Stat(s), nil
	default:
		return "", fmt.Errorf("unknown summary statistic %q (valid: mean, median)", s)
	}
}

// TrialResult is one trial's normalized QdM series for one marker, tagged
// with its design cell.
type TrialResult struct {
	Subject   string
	Condition mocap.Condition
	Marker    string
	Series    []float64 // normalized QdM, NaN = missing sample
}

// Row is one output row of the summary table: one (subject, condition,
// marker) cell.
type Row struct {
	Subject   string
	Condition mocap.Condition
	Marker    string
	Steps     int     // finite samples that contributed to the summary
	QdMNorm   float64 // summary statistic of the normalized series
}

// MissingCellError reports an incomplete repeated-measures design: a subject
// is missing one of the required condition cells for a marker. The pipeline
// surfaces this instead of silently dropping or imputing; subjects are
// excluded only via explicit configuration.
type MissingCellError struct {
	Subject   string
	Condition mocap.Condition
	Marker    string
}

func (e *MissingCellError) Error() string {
	return fmt.Sprintf("incomplete design: subject %s has no %s trial for marker %s", e.Subject, e.Condition, e.Marker)
}

// Summarize reduces a normalized series to its central-tendency statistic,
// ignoring NaN samples. It fails with InsufficientDataError when no finite
// sample remains.
func Summarize(series []float64, s Stat) (value float64, steps int, err error) {
	finite := make([]float64, 0, len(series))
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return 0, 0, &mocap.InsufficientDataError{Got: 0, Want: 1}
	}
	switch s {
	case StatMean:
		return stat.Mean(finite, nil), len(finite), nil
	case StatMedian:
		return mocap.Median(finite), len(finite), nil
	default:
		return 0, 0, fmt.Errorf("unknown summary statistic %q", s)
	}
}

// Aggregate produces exactly one summary row per (subject, condition, marker)
// cell, sorted by subject, condition design order, then marker. Every subject
// and marker present in the input must cover all required conditions; a
// missing cell fails with MissingCellError and a duplicated cell is rejected
// outright.
func Aggregate(results []TrialResult, required []mocap.Condition, s Stat) ([]Row, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no trial results to aggregate")
	}
	if len(required) == 0 {
		return nil, fmt.Errorf("no required conditions configured")
	}

	type cell struct {
		subject   string
		condition mocap.Condition
		marker    string
	}
	seen := make(map[cell]bool, len(results))
	rows := make([]Row, 0, len(results))

	for _, r := range results {
		c := cell{r.Subject, r.Condition, r.Marker}
		if seen[c] {
			return nil, fmt.Errorf("duplicate cell: subject %s condition %s marker %s appears more than once", r.Subject, r.Condition, r.Marker)
		}
		seen[c] = true

		value, steps, err := Summarize(r.Series, s)
		if err != nil {
			return nil, fmt.Errorf("subject %s condition %s marker %s: %w", r.Subject, r.Condition, r.Marker, err)
		}
		rows = append(rows, Row{
			Subject:   r.Subject,
			Condition: r.Condition,
			Marker:    r.Marker,
			Steps:     steps,
			QdMNorm:   value,
		})
	}

	// Balance check: every (subject, marker) pair must have every required
	// condition.
	subjects := map[string]bool{}
	markers := map[string]bool{}
	for _, r := range results {
		subjects[r.Subject] = true
		markers[r.Marker] = true
	}
	for subject := range subjects {
		for marker := range markers {
			for _, cond := range required {
				if !seen[cell{subject, cond, marker}] {
					return nil, &MissingCellError{Subject: subject, Condition: cond, Marker: marker}
				}
			}
		}
	}

	condOrder := make(map[mocap.Condition]int, len(required))
	for i, c := range required {
		condOrder[c] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Subject != rows[j].Subject {
			return rows[i].Subject < rows[j].Subject
		}
		if rows[i].Condition != rows[j].Condition {
			return condOrder[rows[i].Condition] < condOrder[rows[j].Condition]
		}
		return rows[i].Marker < rows[j].Marker
	})
	return rows, nil
}
