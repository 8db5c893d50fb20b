package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a row with the same key already exists
	ErrConflict = errors.New("conflict: row already exists")
)
