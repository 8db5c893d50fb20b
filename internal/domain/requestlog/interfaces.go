package requestlog

import "context"

// Repository provides persistence operations for request log entries.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}
