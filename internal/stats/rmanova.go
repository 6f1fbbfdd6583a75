// Package stats implements the repeated-measures statistics for the posture
// study: a one-way repeated-measures ANOVA over per-subject condition means,
// followed by all-pairs paired t-tests with Holm-Bonferroni correction.
//
// The input table must be balanced; the aggregation stage has already
// guaranteed one cell per subject per condition, so an unbalanced or
// incomplete table here is rejected as a programming error.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kinetic-data/motion.report/internal/mocap"
)

// Table is a wide repeated-measures table: one row per subject, one column
// per condition.
type Table struct {
	Subjects   []string
	Conditions []mocap.Condition
	Values     [][]float64 // [subject][condition]
}

// NewTable validates and wraps a wide table. Every subject row must have one
// finite value per condition.
func NewTable(subjects []string, conditions []mocap.Condition, values [][]float64) (*Table, error) {
	if len(subjects) < 2 {
		return nil, &mocap.InsufficientDataError{Got: len(subjects), Want: 2}
	}
	if len(conditions) < 2 {
		return nil, fmt.Errorf("repeated-measures table needs at least 2 conditions, got %d", len(conditions))
	}
	if len(values) != len(subjects) {
		return nil, fmt.Errorf("table has %d rows for %d subjects", len(values), len(subjects))
	}
	for i, row := range values {
		if len(row) != len(conditions) {
			return nil, fmt.Errorf("subject %s has %d cells for %d conditions", subjects[i], len(row), len(conditions))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("subject %s condition %s: non-finite cell %g", subjects[i], conditions[j], v)
			}
		}
	}
	return &Table{Subjects: subjects, Conditions: conditions, Values: values}, nil
}

// Column returns the values of one condition across subjects.
func (t *Table) Column(j int) []float64 {
	col := make([]float64, len(t.Values))
	for i := range t.Values {
		col[i] = t.Values[i][j]
	}
	return col
}

// ANOVAResult holds the outcome of a one-way repeated-measures ANOVA.
type ANOVAResult struct {
	F            float64
	DF1          int // numerator: conditions - 1
	DF2          int // denominator: (conditions-1)(subjects-1)
	P            float64
	PartialEtaSq float64
	GrandMean    float64
}

// RMANOVA runs a one-way repeated-measures ANOVA on the table. The subject
// factor is partialled out of the error term, as required for a within-
// subjects design.
func RMANOVA(t *Table) (*ANOVAResult, error) {
	n := len(t.Subjects)
	k := len(t.Conditions)

	var grand float64
	for _, row := range t.Values {
		for _, v := range row {
			grand += v
		}
	}
	grand /= float64(n * k)

	var ssCond, ssSubj, ssTotal float64
	for j := 0; j < k; j++ {
		m := stat.Mean(t.Column(j), nil)
		ssCond += float64(n) * (m - grand) * (m - grand)
	}
	for _, row := range t.Values {
		m := stat.Mean(row, nil)
		ssSubj += float64(k) * (m - grand) * (m - grand)
		for _, v := range row {
			ssTotal += (v - grand) * (v - grand)
		}
	}
	ssErr := ssTotal - ssCond - ssSubj

	df1 := k - 1
	df2 := (k - 1) * (n - 1)
	msCond := ssCond / float64(df1)
	msErr := ssErr / float64(df2)
	if msErr <= 0 {
		// No within-subject variability left: all subjects respond
		// identically. F is undefined; report it as such.
		return nil, fmt.Errorf("zero error variance: all subjects respond identically across conditions")
	}

	f := msCond / msErr
	fdist := distuv.F{D1: float64(df1), D2: float64(df2)}
	p := 1 - fdist.CDF(f)

	return &ANOVAResult{
		F:            f,
		DF1:          df1,
		DF2:          df2,
		P:            p,
		PartialEtaSq: ssCond / (ssCond + ssErr),
		GrandMean:    grand,
	}, nil
}

// PairedComparison is one post-hoc paired t-test between two conditions.
type PairedComparison struct {
	A, B     mocap.Condition
	MeanDiff float64
	T        float64
	DF       int
	P        float64 // uncorrected, two-sided
	PHolm    float64 // Holm-Bonferroni adjusted
	CohenDz  float64
}

// PostHoc runs all-pairs paired t-tests across the table's conditions and
// adjusts the p-values with the Holm-Bonferroni step-down procedure.
func PostHoc(t *Table) ([]PairedComparison, error) {
	n := len(t.Subjects)
	var comps []PairedComparison
	for a := 0; a < len(t.Conditions); a++ {
		for b := a + 1; b < len(t.Conditions); b++ {
			diffs := make([]float64, n)
			for i := range t.Values {
				diffs[i] = t.Values[i][b] - t.Values[i][a]
			}
			mean := stat.Mean(diffs, nil)
			sd := stat.StdDev(diffs, nil)
			if sd == 0 {
				return nil, fmt.Errorf("paired test %s vs %s: zero variance in differences", t.Conditions[a], t.Conditions[b])
			}
			tval := mean / (sd / math.Sqrt(float64(n)))
			tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
			p := 2 * (1 - tdist.CDF(math.Abs(tval)))

			comps = append(comps, PairedComparison{
				A:        t.Conditions[a],
				B:        t.Conditions[b],
				MeanDiff: mean,
				T:        tval,
				DF:       n - 1,
				P:        p,
				CohenDz:  mean / sd,
			})
		}
	}
	holmAdjust(comps)
	return comps, nil
}

// holmAdjust fills PHolm in place: p-values are ranked ascending, each is
// multiplied by its step count, and adjusted values are made monotone and
// capped at 1.
func holmAdjust(comps []PairedComparison) {
	m := len(comps)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			if comps[order[j]].P < comps[order[i]].P {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	prev := 0.0
	for rank, idx := range order {
		adj := float64(m-rank) * comps[idx].P
		if adj < prev {
			adj = prev
		}
		if adj > 1 {
			adj = 1
		}
		comps[idx].PHolm = adj
		prev = adj
	}
}

// WideTable builds the repeated-measures table for one marker from aggregate
// summary rows. Rows for other markers are ignored; the aggregation stage has
// already enforced that every (subject, condition) cell exists.
func WideTable(subjects []string, conditions []mocap.Condition, lookup func(subject string, cond mocap.Condition) (float64, bool)) (*Table, error) {
	values := make([][]float64, len(subjects))
	for i, subject := range subjects {
		row := make([]float64, len(conditions))
		for j, cond := range conditions {
			v, ok := lookup(subject, cond)
			if !ok {
				return nil, fmt.Errorf("missing cell for subject %s condition %s", subject, cond)
			}
			row[j] = v
		}
		values[i] = row
	}
	return NewTable(subjects, conditions, values)
}
