package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewRequestLogRepository(db)
	entry1 := &requestlog.Entry{
		RequestID: "req-1",
		Endpoint:  "get_all_entities",
		Token:     1,
		Outcome:   requestlog.OutcomeOK,
	}
	entry2 := &requestlog.Entry{
		RequestID:  "req-2",
		Endpoint:   "get_vessel_movements",
		Payload:    `{"start_date":"2035-02-01","end_date":"2035-03-17","vessel_ids":[],"location_ids":[]}`,
		Token:      7,
		Outcome:    requestlog.OutcomeTransportError,
		Error:      "connection refused",
		DurationMS: 12,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, requestlog.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "req-2", entries[0].RequestID)
	require.Equal(t, uint64(7), entries[0].Token)
	require.Equal(t, entry2.Payload, entries[0].Payload)
	require.Equal(t, "connection refused", entries[0].Error)
	require.Equal(t, "req-1", entries[1].RequestID)
	require.Empty(t, entries[1].Payload)
}

func TestRequestLogRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRequestLogRepository(db)

	for i, outcome := range []requestlog.Outcome{requestlog.OutcomeOK, requestlog.OutcomeStale, requestlog.OutcomeOK} {
		require.NoError(t, repo.Log(ctx, &requestlog.Entry{
			RequestID: "req",
			Endpoint:  "get_vessel_tsne",
			Token:     uint64(i + 1),
			Outcome:   outcome,
		}))
	}
	require.NoError(t, repo.Log(ctx, &requestlog.Entry{RequestID: "other", Endpoint: "get_all_entities", Outcome: requestlog.OutcomeOK}))

	stale := requestlog.OutcomeStale
	entries, err := repo.List(ctx, requestlog.ListOptions{Endpoint: "get_vessel_tsne", Outcome: &stale})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint64(2), entries[0].Token)

	entries, err = repo.List(ctx, requestlog.ListOptions{Endpoint: "get_vessel_tsne", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, requestlog.ListOptions{Offset: 3})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
