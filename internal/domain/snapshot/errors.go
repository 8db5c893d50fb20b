package snapshot

import "errors"

var (
	// ErrSnapshotNotFound indicates no snapshot has been saved yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrInvalidInput indicates a nil snapshot.
	ErrInvalidInput = errors.New("invalid snapshot input")
)
