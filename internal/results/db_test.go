package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/stats"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), version)

	// Reopening an already-migrated database must be a no-op.
	path := filepath.Join(t.TempDir(), "reopen.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestCreateAndGetRun(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("test", "/data/test")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	require.False(t, run.CreatedAt.IsZero())

	got, err := db.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, got.ID)
	require.Equal(t, "test", got.Mode)
	require.Equal(t, "/data/test", got.Dataset)

	_, err = db.GetRun("no-such-run")
	require.Error(t, err)
}

func TestInsertAndReadSummaries(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("raw", "/data/raw")
	require.NoError(t, err)

	rows := []aggregate.Row{
		{Subject: "P01", Condition: mocap.Seated, Marker: "poignet_D", Steps: 249, QdMNorm: 0.0125},
		{Subject: "P01", Condition: mocap.Standing, Marker: "poignet_D", Steps: 250, QdMNorm: 0.031},
	}
	require.NoError(t, db.InsertSummaries(run.ID, rows))

	got, err := db.SummariesForRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, rows, got)

	// A different run sees nothing.
	other, err := db.CreateRun("raw", "/data/raw")
	require.NoError(t, err)
	none, err := db.SummariesForRun(other.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestInsertAndReadANOVA(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("test", "/data/test")
	require.NoError(t, err)

	res := &stats.ANOVAResult{F: 7, DF1: 2, DF2: 4, P: 0.049, PartialEtaSq: 0.778, GrandMean: 3.33}
	require.NoError(t, db.InsertANOVA(run.ID, "poignet_D", res))

	got, err := db.ANOVAForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 7.0, got["poignet_D"].F, 1e-12)
	require.Equal(t, 2, got["poignet_D"].DF1)
	require.Equal(t, 4, got["poignet_D"].DF2)
}
