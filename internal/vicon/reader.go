// Package vicon parses Vicon "Trajectories" CSV exports into motion-capture
// trials.
//
// Expected layout:
//
//	row 1: "Trajectories"
//	row 2: sampling frequency in Hz (e.g. 100)
//	row 3: marker names, blank under the same marker for Y/Z (forward-filled)
//	row 4: axes (Frame / Sub Frame / X / Y / Z)
//	row 5: units (e.g. mm)
//	row 6+: numeric data
//
// Column names are flattened to "<marker>_X" etc. Marker names may carry a
// subject prefix ("Patient 1:poignet_D"); lookups tolerate any prefix before
// the colon. Blank cells parse as NaN (occluded marker).
package vicon

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/units"
)

const headerRows = 5

// Export is a parsed Vicon trajectories file: flattened column names plus the
// numeric frame rows. Coordinates are converted to millimeters on load.
type Export struct {
	Path         string
	SampleRateHz float64
	Columns      []string
	Rows         [][]float64
}

// ReadTrajectories parses a Vicon trajectories CSV file from disk.
func ReadTrajectories(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trajectories file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) < headerRows+1 {
		return nil, fmt.Errorf("%s: %d rows, want at least %d header rows plus data", path, len(records), headerRows)
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(records[1][0]), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("%s: invalid sampling frequency %q", path, records[1][0])
	}

	columns := flattenColumns(records[2], records[3])

	unit := units.Millimeters
	if len(records[4]) > 0 {
		if u := normalizeUnit(records[4]); u != "" {
			unit = u
		}
	}
	scale, err := units.ToMillimeters(1, unit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([][]float64, 0, len(records)-headerRows)
	for i, rec := range records[headerRows:] {
		row := make([]float64, len(columns))
		for j := range columns {
			row[j] = math.NaN()
			if j >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[j])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: invalid number %q", path, i+headerRows+1, columns[j], cell)
			}
			if isCoordinateColumn(columns[j]) {
				v *= scale
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return &Export{
		Path:         path,
		SampleRateHz: rate,
		Columns:      columns,
		Rows:         rows,
	}, nil
}

// flattenColumns combines the marker and axis header rows into flat column
// names. Vicon leaves the marker cell blank under the same marker for Y/Z, so
// marker names are forward-filled before joining.
func flattenColumns(markerRow, axisRow []string) []string {
	n := len(markerRow)
	if len(axisRow) > n {
		n = len(axisRow)
	}

	filled := make([]string, n)
	last := ""
	for i := 0; i < n; i++ {
		m := ""
		if i < len(markerRow) {
			m = strings.TrimSpace(markerRow[i])
		}
		if m != "" {
			last = m
		}
		filled[i] = last
	}

	columns := make([]string, n)
	for i := 0; i < n; i++ {
		a := ""
		if i < len(axisRow) {
			a = strings.TrimSpace(axisRow[i])
		}
		switch {
		case a == "Frame" || a == "Sub Frame":
			columns[i] = a
		case a == "X" || a == "Y" || a == "Z":
			columns[i] = filled[i] + "_" + a
		case filled[i] != "":
			columns[i] = filled[i]
		default:
			columns[i] = a
		}
	}
	return columns
}

func isCoordinateColumn(name string) bool {
	return strings.HasSuffix(name, "_X") || strings.HasSuffix(name, "_Y") || strings.HasSuffix(name, "_Z")
}

// normalizeUnit picks the first non-empty unit cell past the frame columns.
func normalizeUnit(unitRow []string) string {
	for _, cell := range unitRow {
		u := strings.ToLower(strings.TrimSpace(cell))
		switch u {
		case units.Millimeters, units.Centimeters, units.Meters:
			return u
		}
	}
	return ""
}

// MarkerColumns finds the X/Y/Z column names for a marker token. The export
// sometimes prefixes marker names with a subject label ("Patient 1:tete_X"),
// so the token is matched after any prefix ending in ':'. When several
// columns match an axis the shortest name wins, which is usually the cleanest
// one. Matching is case-insensitive and ignores spaces.
func (e *Export) MarkerColumns(token string) (x, y, z string, err error) {
	pat := regexp.MustCompile(`(?i)(?:^|:)` + regexp.QuoteMeta(strings.ReplaceAll(token, " ", "")) + `_([XYZ])$`)

	found := map[string]string{}
	for _, c := range e.Columns {
		stripped := strings.ReplaceAll(c, " ", "")
		m := pat.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}
		axis := strings.ToUpper(m[1])
		if prev, ok := found[axis]; !ok || len(stripped) < len(strings.ReplaceAll(prev, " ", "")) {
			found[axis] = c
		}
	}

	x, y, z = found["X"], found["Y"], found["Z"]
	if x == "" || y == "" || z == "" {
		return "", "", "", fmt.Errorf("%s: marker %q: missing X/Y/Z columns (found X=%q Y=%q Z=%q)", e.Path, token, x, y, z)
	}
	return x, y, z, nil
}

// MarkerTrack extracts the per-frame 3D positions for a marker token.
func (e *Export) MarkerTrack(token string) ([]mocap.Vec3, error) {
	xCol, yCol, zCol, err := e.MarkerColumns(token)
	if err != nil {
		return nil, err
	}
	xi, yi, zi := e.columnIndex(xCol), e.columnIndex(yCol), e.columnIndex(zCol)

	track := make([]mocap.Vec3, len(e.Rows))
	for i, row := range e.Rows {
		track[i] = mocap.Vec3{X: row[xi], Y: row[yi], Z: row[zi]}
	}
	return track, nil
}

func (e *Export) columnIndex(name string) int {
	for i, c := range e.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Trial builds a mocap.Trial from the export, extracting one track per
// requested marker token. The schema is validated up front: any missing
// marker column fails here, naming the marker and the file.
func (e *Export) Trial(subject string, cond mocap.Condition, markers []string) (*mocap.Trial, error) {
	tracks := make(map[string][]mocap.Vec3, len(markers))
	for _, token := range markers {
		track, err := e.MarkerTrack(token)
		if err != nil {
			return nil, err
		}
		tracks[token] = track
	}
	trial, err := mocap.NewTrial(subject, cond, e.SampleRateHz, tracks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Path, err)
	}
	return trial, nil
}

var trialFilePattern = regexp.MustCompile(`^([A-Za-z0-9]+)_(SEATED|SEMI-STANDING|STANDING)\.csv$`)

// ParseTrialFilename extracts subject ID and condition from a trial file name
// of the form "<subject>_<CONDITION>.csv", e.g. "P01_SEATED.csv".
func ParseTrialFilename(name string) (subject string, cond mocap.Condition, err error) {
	base := filepath.Base(name)
	m := trialFilePattern.FindStringSubmatch(base)
	if m == nil {
		return "", "", fmt.Errorf("file %q does not match <subject>_<CONDITION>.csv", base)
	}
	cond, err = mocap.ParseCondition(m[2])
	if err != nil {
		return "", "", err
	}
	return m[1], cond, nil
}
