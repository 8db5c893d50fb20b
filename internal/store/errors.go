package store

import "errors"

var (
	// ErrTransport wraps a failure to reach the analytics service.
	ErrTransport = errors.New("transport failure")
	// ErrSuperseded indicates a response that arrived after a newer request
	// for the same state was issued. Its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrProjection wraps projection failures that followed a successful entity load.
	ErrProjection = errors.New("projection refresh failed")
)
