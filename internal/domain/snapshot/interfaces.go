package snapshot

import "context"

// Repository provides persistence for snapshots.
type Repository interface {
	Save(ctx context.Context, snap *Snapshot) error
	Latest(ctx context.Context) (*Snapshot, error)
	Prune(ctx context.Context, keep int) (int64, error)
}
