package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/seatmap/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "seatmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntries() []models.SpaceEntry {
	return []models.SpaceEntry{
		{
			SpaceRecord: models.SpaceRecord{
				SourceID: "survey-1", RawName: "[LIB] Science Library - Level 2",
				FreeSeats: 45, TotalSeats: 80,
			},
			Location: "Science Library", ShortName: "Level 2",
		},
		{
			SpaceRecord: models.SpaceRecord{
				SourceID: "location-7", RawName: "Eastman Dental Library",
				Description: "Quiet study",
			},
			Location: "Eastman Dental Library",
		},
	}
}

func TestSnapshotRepository_SaveAndLatest(t *testing.T) {
	repo := NewSnapshotRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleEntries()))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestSnapshotRepository_LatestWinsOverOlder(t *testing.T) {
	repo := NewSnapshotRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleEntries()))

	newer := []models.SpaceEntry{
		{
			SpaceRecord: models.SpaceRecord{SourceID: "survey-9", RawName: "Main Library - Level 1", FreeSeats: 3, TotalSeats: 10},
			Location:    "Main Library", ShortName: "Level 1",
		},
	}
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestSnapshotRepository_EmptyDatabase(t *testing.T) {
	repo := NewSnapshotRepository(newTestStore(t))

	got, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnapshotRepository_PrunesHistory(t *testing.T) {
	s := newTestStore(t)
	repo := NewSnapshotRepository(s)
	ctx := context.Background()

	for i := 0; i < keepSnapshots+5; i++ {
		require.NoError(t, repo.Save(ctx, sampleEntries()))
	}

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshots`).Scan(&count))
	assert.Equal(t, keepSnapshots, count)

	// Entries of pruned snapshots go with them (cascade).
	var orphans int
	require.NoError(t, s.DB().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM snapshot_entries
		WHERE snapshot_id NOT IN (SELECT id FROM snapshots)`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestSnapshotRepository_EmptyEntrySetIsValid(t *testing.T) {
	repo := NewSnapshotRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, nil))
	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
