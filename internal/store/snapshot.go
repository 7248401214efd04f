package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencampus/seatmap/pkg/models"
)

// keepSnapshots bounds how much refresh history Save retains.
const keepSnapshots = 10

// SnapshotRepository stores and loads merged entry sets. It implements the
// engine's SnapshotStore contract.
type SnapshotRepository struct {
	store *SQLiteStore
}

// NewSnapshotRepository creates a SnapshotRepository on the given store.
func NewSnapshotRepository(s *SQLiteStore) *SnapshotRepository {
	return &SnapshotRepository{store: s}
}

// Save stores the entry set as a new snapshot and prunes history beyond the
// retention bound. Entry order is preserved.
func (r *SnapshotRepository) Save(ctx context.Context, entries []models.SpaceEntry) error {
	id := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	err := r.store.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, created_at) VALUES (?, ?)`, id, createdAt,
		); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO snapshot_entries (
					snapshot_id, position, source_id, raw_name, description,
					free_seats, total_seats, location, short_name
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, i, e.SourceID, e.RawName, e.Description,
				e.FreeSeats, e.TotalSeats, e.Location, e.ShortName,
			); err != nil {
				return fmt.Errorf("insert snapshot entry %d: %w", i, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM snapshots WHERE id NOT IN (
				SELECT id FROM snapshots ORDER BY created_at DESC LIMIT ?
			)`, keepSnapshots,
		); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot's entries in saved order, or an
// empty slice when no snapshot exists.
func (r *SnapshotRepository) Latest(ctx context.Context) ([]models.SpaceEntry, error) {
	var id string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return []models.SpaceEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot id: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT source_id, raw_name, description, free_seats, total_seats, location, short_name
		FROM snapshot_entries WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", id, err)
	}
	defer rows.Close()

	entries := []models.SpaceEntry{}
	for rows.Next() {
		var e models.SpaceEntry
		if err := rows.Scan(
			&e.SourceID, &e.RawName, &e.Description,
			&e.FreeSeats, &e.TotalSeats, &e.Location, &e.ShortName,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot entries: %w", err)
	}
	return entries, nil
}
