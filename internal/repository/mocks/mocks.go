package mocks

import (
	"context"

	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/domain/snapshot"
	"github.com/stretchr/testify/mock"
)

// RequestLogRepository is a mock for requestlog.Repository.
type RequestLogRepository struct {
	mock.Mock
}

func (m *RequestLogRepository) Log(ctx context.Context, entry *requestlog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *RequestLogRepository) List(ctx context.Context, opts requestlog.ListOptions) ([]requestlog.Entry, error) {
	args := m.Called(ctx, opts)
	if entries, ok := args.Get(0).([]requestlog.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// SnapshotRepository is a mock for snapshot.Repository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *SnapshotRepository) Latest(ctx context.Context) (*snapshot.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(*snapshot.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).(int64), args.Error(1)
}
