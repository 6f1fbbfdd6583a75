package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the summary table in long format, one row per (subject,
// condition, marker) cell, for the downstream statistics tool.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"subject", "condition", "marker", "n_steps", "qdm_norm"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Subject,
			string(r.Condition),
			r.Marker,
			strconv.Itoa(r.Steps),
			strconv.FormatFloat(r.QdMNorm, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV row for %s/%s/%s: %w", r.Subject, r.Condition, r.Marker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
