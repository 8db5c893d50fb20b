package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
)

// call tracks one request from issue to commit.
type call struct {
	target    target
	endpoint  string
	payload   any
	token     uint64
	requestID string
	started   time.Time
}

// begin issues the next token for t. build runs under the write lock so the
// payload and the token describe the same state.
func (s *Store) begin(ctx context.Context, t target, endpoint string, build func() any) (context.Context, *call) {
	s.mu.Lock()
	var payload any
	if build != nil {
		payload = build()
	}
	s.tokens[t]++
	c := &call{
		target:    t,
		endpoint:  endpoint,
		payload:   payload,
		token:     s.tokens[t],
		requestID: uuid.NewString(),
		started:   time.Now(),
	}
	s.mu.Unlock()

	return requestlog.WithRequestID(ctx, c.requestID), c
}

func (s *Store) send(ctx context.Context, c *call) (json.RawMessage, error) {
	var (
		raw json.RawMessage
		err error
	)
	if c.payload == nil {
		raw, err = s.transport.Fetch(ctx, c.endpoint)
	} else {
		raw, err = s.transport.Submit(ctx, c.endpoint, c.payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, c.endpoint, err)
	}
	return raw, nil
}

// commit applies the result if c still holds the latest token for its target.
func (s *Store) commit(c *call, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[c.target] != c.token {
		return ErrSuperseded
	}
	apply()
	return nil
}

// finish logs and records the outcome of c and returns err unchanged.
func (s *Store) finish(ctx context.Context, c *call, err error) error {
	outcome := requestlog.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrSuperseded):
		outcome = requestlog.OutcomeStale
	case errors.Is(err, entity.ErrShape):
		outcome = requestlog.OutcomeShapeError
	default:
		outcome = requestlog.OutcomeTransportError
	}

	payload := ""
	if c.payload != nil {
		if data, mErr := json.Marshal(c.payload); mErr == nil {
			payload = string(data)
		}
	}
	elapsed := time.Since(c.started)
	attrs := []any{
		"endpoint", c.endpoint,
		"request_id", c.requestID,
		"token", c.token,
		"duration", elapsed,
	}

	switch outcome {
	case requestlog.OutcomeOK:
		s.logger.Debug("request applied", attrs...)
	case requestlog.OutcomeStale:
		s.logger.Debug("discarding superseded response", attrs...)
	default:
		s.logger.Error("request failed", append(attrs, "payload", payload, "error", err)...)
	}

	if s.recorder != nil {
		entry := &requestlog.Entry{
			RequestID:  c.requestID,
			Endpoint:   c.endpoint,
			Payload:    payload,
			Token:      c.token,
			Outcome:    outcome,
			DurationMS: elapsed.Milliseconds(),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if rErr := s.recorder.LogRequest(context.WithoutCancel(ctx), entry); rErr != nil {
			s.logger.Warn("failed to record request", "endpoint", c.endpoint, "error", rErr)
		}
	}
	return err
}

// Initialize loads the entity graph, selects every entity, and refreshes both
// projections for that selection. When the entity load fails nothing changes.
// Projection failures are returned wrapped in ErrProjection; the entity graph
// stays applied.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.loadEntities(ctx, true); err != nil {
		return err
	}
	return s.afterLoad(ctx)
}

// Reload refetches the entity graph but keeps the user's selection, dropping
// ids that are no longer present. Projections are refreshed afterwards.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.loadEntities(ctx, false); err != nil {
		return err
	}
	return s.afterLoad(ctx)
}

func (s *Store) afterLoad(ctx context.Context) error {
	err := s.RefreshProjections(ctx)
	if s.snapshots != nil {
		snap := s.Snapshot()
		if sErr := s.snapshots.Save(context.WithoutCancel(ctx), &snap); sErr != nil {
			s.logger.Warn("failed to save snapshot", "error", sErr)
		}
	}
	return err
}

func (s *Store) loadEntities(ctx context.Context, seed bool) error {
	ctx, c := s.begin(ctx, targetEntities, entity.EndpointAllEntities, nil)

	raw, err := s.send(ctx, c)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	records, err := entity.DecodeRecords(raw)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	graph, err := entity.Partition(records)
	if err != nil {
		return s.finish(ctx, c, err)
	}

	err = s.commit(c, func() {
		s.setGraph(graph)
		if seed {
			s.filter.seed(s.views)
		} else {
			s.filter.clamp(s.views)
		}
	})
	if err == nil {
		s.logger.Info("entity graph loaded",
			slog.Int("vessels", len(graph.Vessels)),
			slog.Int("locations", len(graph.Locations)),
			slog.Int("commodities", len(graph.Commodities)),
			slog.Int("dropped", len(records)-len(graph.Vessels)-len(graph.Locations)-len(graph.Commodities)),
		)
	}
	return s.finish(ctx, c, err)
}

// RefreshProjections refreshes the t-SNE embedding and the movements
// concurrently and reports both failures, if any.
func (s *Store) RefreshProjections(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = s.RefreshVesselTSNE(ctx)
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.RefreshVesselMovements(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs[0], errs[1]); err != nil {
		return fmt.Errorf("%w: %w", ErrProjection, err)
	}
	return nil
}

// RefreshVesselTSNE fetches the embedding for every known vessel, restricted
// to the selected locations and the date window, and replaces the stored one.
func (s *Store) RefreshVesselTSNE(ctx context.Context) error {
	ctx, c := s.begin(ctx, targetTSNE, entity.EndpointVesselTSNE, func() any {
		return entity.NewProjectionQuery(s.filter.DateInterval, s.views.Vessels.IDs, s.filter.SelectedLocationIDs)
	})

	raw, err := s.send(ctx, c)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	points, err := entity.DecodeTSNE(raw)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	err = s.commit(c, func() {
		s.tsne = points
	})
	return s.finish(ctx, c, err)
}

// RefreshVesselMovements fetches raw and aggregated movements for the selected
// vessels and locations in the date window and replaces both together.
func (s *Store) RefreshVesselMovements(ctx context.Context) error {
	ctx, c := s.begin(ctx, targetMovements, entity.EndpointVesselMovements, func() any {
		return entity.NewProjectionQuery(s.filter.DateInterval, s.filter.SelectedVesselIDs, s.filter.SelectedLocationIDs)
	})

	raw, err := s.send(ctx, c)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	movements, err := entity.DecodeMovements(raw)
	if err != nil {
		return s.finish(ctx, c, err)
	}
	err = s.commit(c, func() {
		s.movements = movements.Raw
		s.aggregated = movements.Aggregated
	})
	return s.finish(ctx, c, err)
}
