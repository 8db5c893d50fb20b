package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/vesselscope/internal/domain/snapshot"
	"github.com/rpggio/vesselscope/internal/repository"
)

// SnapshotRepository implements snapshot.Repository for SQLite
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts a snapshot. The payload is stored as JSON.
func (r *SnapshotRepository) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	snap.SavedAt = savedAt

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, payload, vessel_count, location_count, commodity_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		string(payload),
		len(snap.Graph.Vessels),
		len(snap.Graph.Locations),
		len(snap.Graph.Commodities),
		savedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently saved snapshot
func (r *SnapshotRepository) Latest(ctx context.Context) (*snapshot.Snapshot, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM snapshots
		ORDER BY saved_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Prune deletes all but the newest keep snapshots and reports how many were removed
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY saved_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.RowsAffected()
}
