package snapshot_test

import (
	"context"
	"testing"

	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/snapshot"
	"github.com/rpggio/vesselscope/internal/repository"
	"github.com/rpggio/vesselscope/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotService_SaveAssignsIDAndPrunes(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SnapshotRepository{}
	repo.On("Save", ctx, mock.Anything).Return(nil)
	repo.On("Prune", ctx, 3).Return(int64(2), nil)

	svc := snapshot.NewService(repo, 3, nil)
	snap := &snapshot.Snapshot{Graph: entity.Graph{Vessels: []entity.Vessel{{ID: "v1"}}}}
	require.NoError(t, svc.Save(ctx, snap))
	require.NotEmpty(t, snap.ID)
	require.False(t, snap.SavedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestSnapshotService_NoPruneWhenUnbounded(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SnapshotRepository{}
	repo.On("Save", ctx, mock.Anything).Return(nil)

	svc := snapshot.NewService(repo, 0, nil)
	require.NoError(t, svc.Save(ctx, &snapshot.Snapshot{ID: "s1"}))
	repo.AssertNotCalled(t, "Prune", mock.Anything, mock.Anything)
}

func TestSnapshotService_LatestNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.SnapshotRepository{}
	repo.On("Latest", ctx).Return((*snapshot.Snapshot)(nil), repository.ErrNotFound)

	svc := snapshot.NewService(repo, 0, nil)
	_, err := svc.Latest(ctx)
	require.ErrorIs(t, err, snapshot.ErrSnapshotNotFound)
}

func TestSnapshotService_SaveValidation(t *testing.T) {
	svc := snapshot.NewService(&mocks.SnapshotRepository{}, 0, nil)
	require.ErrorIs(t, svc.Save(context.Background(), nil), snapshot.ErrInvalidInput)
}
