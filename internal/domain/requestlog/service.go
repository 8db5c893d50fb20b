package requestlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const defaultListLimit = 50

// Service handles request log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new request log service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogRequest stores an entry with the current timestamp if missing.
func (s *Service) LogRequest(ctx context.Context, entry *Entry) error {
	if entry == nil || strings.TrimSpace(entry.Endpoint) == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging request: %w", err)
	}
	return nil
}

// Recent lists entries newest first. A zero limit means the default page size.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return entries, nil
}
