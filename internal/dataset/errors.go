package dataset

import "errors"

var (
	// ErrTransport wraps a failure to reach the analytics service.
	ErrTransport = errors.New("transport failure")
	// ErrShape indicates a response that is not a JSON array.
	ErrShape = errors.New("unexpected response shape")
	// ErrSuperseded indicates a response discarded in favor of a newer request.
	ErrSuperseded = errors.New("superseded by a newer request")
)
