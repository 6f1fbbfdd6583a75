// Package results stores pipeline runs in SQLite: one row per run plus the
// per-cell QdM summaries and ANOVA outcomes the run produced. The schema is
// managed by embedded golang-migrate SQL migrations.
package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/stats"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the results database at path and applies any
// pending migrations.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	db := &DB{sqldb}
	if err := db.MigrateUp(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}

// Run is one pipeline execution.
type Run struct {
	ID        string // uuid
	Mode      string // test or raw
	Dataset   string // dataset directory the run read
	CreatedAt time.Time
}

// CreateRun records a new pipeline run and returns it with a fresh run ID.
func (db *DB) CreateRun(mode, dataset string) (*Run, error) {
	run := &Run{
		ID:      uuid.NewString(),
		Mode:    mode,
		Dataset: dataset,
	}

	query := `INSERT INTO runs (run_id, mode, dataset) VALUES (?, ?, ?)`
	if _, err := db.DB.Exec(query, run.ID, run.Mode, run.Dataset); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	var createdAtUnix int64
	row := db.DB.QueryRow(`SELECT created_at FROM runs WHERE run_id = ?`, run.ID)
	if err := row.Scan(&createdAtUnix); err != nil {
		return nil, fmt.Errorf("failed to read back run timestamp: %w", err)
	}
	run.CreatedAt = time.Unix(createdAtUnix, 0)
	return run, nil
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(id string) (*Run, error) {
	query := `SELECT run_id, mode, dataset, created_at FROM runs WHERE run_id = ?`

	var run Run
	var createdAtUnix int64
	err := db.DB.QueryRow(query, id).Scan(&run.ID, &run.Mode, &run.Dataset, &createdAtUnix)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.CreatedAt = time.Unix(createdAtUnix, 0)
	return &run, nil
}

// InsertSummaries stores the aggregated summary rows for a run in one
// transaction.
func (db *DB) InsertSummaries(runID string, rows []aggregate.Row) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO qdm_summaries (run_id, subject, condition, marker, n_steps, qdm_norm)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(runID, r.Subject, string(r.Condition), r.Marker, r.Steps, r.QdMNorm); err != nil {
			return fmt.Errorf("failed to insert summary for %s/%s/%s: %w", r.Subject, r.Condition, r.Marker, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summaries: %w", err)
	}
	return nil
}

// SummariesForRun retrieves the stored summary rows for a run, in insert
// order.
func (db *DB) SummariesForRun(runID string) ([]aggregate.Row, error) {
	query := `
		SELECT subject, condition, marker, n_steps, qdm_norm
		FROM qdm_summaries
		WHERE run_id = ?
		ORDER BY id
	`
	rows, err := db.DB.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var out []aggregate.Row
	for rows.Next() {
		var r aggregate.Row
		var cond string
		if err := rows.Scan(&r.Subject, &cond, &r.Marker, &r.Steps, &r.QdMNorm); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		r.Condition = mocap.Condition(cond)
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertANOVA stores one marker's repeated-measures ANOVA result for a run.
func (db *DB) InsertANOVA(runID, marker string, res *stats.ANOVAResult) error {
	query := `
		INSERT INTO anova_results (run_id, marker, f, df1, df2, p, partial_eta_sq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.DB.Exec(query, runID, marker, res.F, res.DF1, res.DF2, res.P, res.PartialEtaSq)
	if err != nil {
		return fmt.Errorf("failed to insert ANOVA result for marker %s: %w", marker, err)
	}
	return nil
}

// ANOVAForRun retrieves the stored ANOVA results for a run, keyed by marker.
func (db *DB) ANOVAForRun(runID string) (map[string]stats.ANOVAResult, error) {
	query := `
		SELECT marker, f, df1, df2, p, partial_eta_sq
		FROM anova_results
		WHERE run_id = ?
	`
	rows, err := db.DB.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ANOVA results: %w", err)
	}
	defer rows.Close()

	out := map[string]stats.ANOVAResult{}
	for rows.Next() {
		var marker string
		var res stats.ANOVAResult
		if err := rows.Scan(&marker, &res.F, &res.DF1, &res.DF2, &res.P, &res.PartialEtaSq); err != nil {
			return nil, fmt.Errorf("failed to scan ANOVA row: %w", err)
		}
		out[marker] = res
	}
	return out, rows.Err()
}
