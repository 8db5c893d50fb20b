package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/vesselscope/internal/client"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/store"
	"github.com/rpggio/vesselscope/internal/testserver"
	"github.com/stretchr/testify/require"
)

type memoryRequests struct {
	mu      sync.Mutex
	entries []requestlog.Entry
}

func (m *memoryRequests) LogRequest(_ context.Context, entry *requestlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]requestlog.Entry{*entry}, m.entries...)
	return nil
}

func (m *memoryRequests) Recent(_ context.Context, opts requestlog.ListOptions) ([]requestlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []requestlog.Entry
	for _, e := range m.entries {
		if opts.Endpoint != "" && e.Endpoint != opts.Endpoint {
			continue
		}
		if opts.Outcome != nil && e.Outcome != *opts.Outcome {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type harness struct {
	session   *sdkmcp.ClientSession
	analytics *testserver.Analytics
	store     *store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	analytics := testserver.New(t)
	requests := &memoryRequests{}
	st := store.New(client.New(client.Config{BaseURL: analytics.URL()}), store.Options{Recorder: requests})
	require.NoError(t, st.Initialize(ctx))

	server := NewServer(Config{Services: Services{Store: st, Requests: requests}})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &harness{session: session, analytics: analytics, store: st}
}

func (h *harness) call(t *testing.T, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	res, err := h.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		data, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return res
}

func errorText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_Listed(t *testing.T) {
	h := newHarness(t)

	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"get_state", "list_entities", "get_colors", "set_date_interval", "select_entities",
		"set_focus_vessel", "refresh_projections", "get_projections", "reload_entities", "recent_requests",
	}, names)
}

func TestTools_GetState(t *testing.T) {
	h := newHarness(t)

	var st stateView
	h.call(t, "get_state", nil, &st)
	require.True(t, st.Loaded)
	require.Equal(t, "2035-02-01", st.StartDate)
	require.Equal(t, "2035-03-17", st.EndDate)
	require.Equal(t, store.DefaultFocusVesselID, st.FocusVesselID)
	require.Equal(t, 3, st.Vessels)
	require.Len(t, st.SelectedVesselIDs, 3)
}

func TestTools_ListEntitiesAndColors(t *testing.T) {
	h := newHarness(t)

	var list listEntitiesOutput
	h.call(t, "list_entities", map[string]any{"kind": "location", "limit": 2}, &list)
	require.Equal(t, "locations", list.Kind)
	require.Equal(t, 4, list.Total)
	require.Len(t, list.Entities, 2)
	require.Equal(t, "City of Himark", list.Entities[0].ID)
	require.Equal(t, []string{"trade"}, list.Entities[0].Activities)
	require.NotEmpty(t, list.Entities[0].Color)

	var colors colorsOutput
	h.call(t, "get_colors", map[string]any{"kind": "commodities"}, &colors)
	require.Len(t, colors.Assignments, 2)
	require.Equal(t, "#e41a1c", colors.Assignments[0].Color)

	res := h.call(t, "get_colors", map[string]any{"kind": "ships"}, nil)
	require.Contains(t, errorText(t, res), "UNKNOWN_KIND")
}

func TestTools_SelectAndProjections(t *testing.T) {
	h := newHarness(t)

	var st stateView
	h.call(t, "select_entities", map[string]any{"kind": "vessels", "ids": []string{"roachrobberdb6"}}, &st)
	require.Equal(t, []string{"roachrobberdb6"}, st.SelectedVesselIDs)

	var proj projectionsOutput
	h.call(t, "get_projections", nil, &proj)
	require.Len(t, proj.VesselMovements, 1)
	require.Equal(t, "Exit East", proj.VesselMovements[0].LocationID)
	require.Equal(t, "2035-02-20T12:00:00Z", proj.VesselMovements[0].StartTime)
	require.Len(t, proj.VesselTSNE, 3, "t-SNE ignores the vessel selection")

	h.call(t, "get_projections", map[string]any{"limit": 1}, &proj)
	require.Len(t, proj.VesselTSNE, 1)
}

func TestTools_SetDateInterval(t *testing.T) {
	h := newHarness(t)

	var st stateView
	h.call(t, "set_date_interval", map[string]any{"start_date": "2035-02-10", "end_date": "2035-02-11"}, &st)
	require.Equal(t, "2035-02-10", st.StartDate)
	require.Equal(t, 2, st.Movements)

	res := h.call(t, "set_date_interval", map[string]any{"start_date": "tomorrow", "end_date": "2035-02-11"}, nil)
	require.Contains(t, errorText(t, res), "INVALID_DATE")
}

func TestTools_SetFocusVessel(t *testing.T) {
	h := newHarness(t)

	var st stateView
	h.call(t, "set_focus_vessel", map[string]any{"vessel_id": "cargo1"}, &st)
	require.Equal(t, "cargo1", st.FocusVesselID)
	require.Equal(t, "cargo1", h.store.FocusVesselID())
}

func TestTools_ServiceFailure(t *testing.T) {
	h := newHarness(t)
	before := h.store.VesselMovements()

	h.analytics.Fail(entity.EndpointVesselMovements, http.StatusInternalServerError)
	res := h.call(t, "refresh_projections", nil, nil)
	require.Contains(t, errorText(t, res), "SERVICE_UNAVAILABLE")
	require.Equal(t, before, h.store.VesselMovements())

	var reqs recentRequestsOutput
	h.call(t, "recent_requests", map[string]any{"outcome": "transport_error"}, &reqs)
	require.Len(t, reqs.Requests, 1)
	require.Equal(t, entity.EndpointVesselMovements, reqs.Requests[0].Endpoint)
	require.Contains(t, reqs.Requests[0].Payload, `"start_date":"2035-02-01"`)

	h.analytics.Recover(entity.EndpointVesselMovements)
	var st stateView
	h.call(t, "reload_entities", nil, &st)
	require.True(t, st.Loaded)
}

func TestDocResources(t *testing.T) {
	h := newHarness(t)

	res, err := h.session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "vesselscope://docs/guide"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Entity.Vessel")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Equal(t, "SUPERSEDED", MapError(store.ErrSuperseded).Code)
	require.Equal(t, "BAD_RESPONSE", MapError(entity.ErrShape).Code)
	require.Nil(t, MapError(context.Canceled))
}
