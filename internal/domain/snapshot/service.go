package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/vesselscope/internal/repository"
)

// Service handles snapshot operations.
type Service struct {
	repo   Repository
	keep   int
	logger *slog.Logger
}

// NewService creates a snapshot service that retains at most keep snapshots.
// keep <= 0 disables pruning.
func NewService(repo Repository, keep int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, keep: keep, logger: logger}
}

// Save stores snap, assigning an id and timestamp if missing, then prunes old snapshots.
func (s *Service) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrInvalidInput
	}
	if strings.TrimSpace(snap.ID) == "" {
		snap.ID = uuid.NewString()
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if s.keep > 0 {
		removed, err := s.repo.Prune(ctx, s.keep)
		if err != nil {
			return fmt.Errorf("pruning snapshots: %w", err)
		}
		if removed > 0 {
			s.logger.Debug("pruned snapshots", "removed", removed, "keep", s.keep)
		}
	}
	return nil
}

// Latest returns the most recently saved snapshot.
func (s *Service) Latest(ctx context.Context) (*Snapshot, error) {
	snap, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return snap, nil
}
