// Package dataset mirrors the analytics service's example dataset: a single
// flat JSON array with a get and a modify endpoint and no derived views.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Endpoints served by the analytics service.
const (
	EndpointGet    = "get_example_data"
	EndpointModify = "modify_example_data"
)

// Transport has the same contract as the entity store's transport.
type Transport interface {
	Fetch(ctx context.Context, endpoint string) (json.RawMessage, error)
	Submit(ctx context.Context, endpoint string, payload any) (json.RawMessage, error)
}

// ModifyRequest is the modify_example_data payload.
type ModifyRequest struct {
	Example int `json:"example"`
}

// Store holds the last dataset received from the service.
type Store struct {
	transport Transport
	logger    *slog.Logger

	mu    sync.RWMutex
	data  []json.RawMessage
	token uint64
}

// New creates an empty dataset store.
func New(transport Transport, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{transport: transport, logger: logger, data: []json.RawMessage{}}
}

// Load replaces the dataset with the service's copy.
func (s *Store) Load(ctx context.Context) error {
	token := s.next()
	raw, err := s.transport.Fetch(ctx, EndpointGet)
	return s.apply(token, EndpointGet, nil, raw, err)
}

// Modify asks the service to replace its dataset with value and stores what
// it returns. An array replaces the dataset; any other JSON value becomes the
// single item, since the service echoes the stored scalar.
func (s *Store) Modify(ctx context.Context, value int) error {
	token := s.next()
	payload := ModifyRequest{Example: value}
	raw, err := s.transport.Submit(ctx, EndpointModify, payload)
	if err == nil && !isArray(raw) && json.Valid(raw) {
		s.logger.Warn("dataset modify returned a non-array value, storing it as one item",
			"endpoint", EndpointModify, "payload", payload, "response", string(raw))
		raw = json.RawMessage("[" + strings.TrimSpace(string(raw)) + "]")
	}
	return s.apply(token, EndpointModify, payload, raw, err)
}

func (s *Store) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	return s.token
}

func (s *Store) apply(token uint64, endpoint string, payload any, raw json.RawMessage, err error) error {
	if err != nil {
		s.logger.Error("dataset request failed", "endpoint", endpoint, "payload", payload, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
	}

	items, err := decode(raw)
	if err != nil {
		// A rejected modify reply may still mean the service changed its copy.
		s.logger.Error("dataset response rejected, local copy may be stale", "endpoint", endpoint, "payload", payload, "error", err)
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		s.logger.Debug("discarding superseded response", "endpoint", endpoint, "token", token)
		return ErrSuperseded
	}
	s.data = items
	return nil
}

func isArray(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "[")
}

func decode(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !isArray(raw) {
		return nil, fmt.Errorf("%w: expected array", ErrShape)
	}
	items := []json.RawMessage{}
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return items, nil
}

// Data returns a copy of the dataset.
func (s *Store) Data() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]json.RawMessage{}, s.data...)
}

// Len is the number of items in the dataset.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
