package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/vesselscope/internal/client"
	"github.com/rpggio/vesselscope/internal/dataset"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/store"
	"github.com/rpggio/vesselscope/internal/testserver"
	"github.com/stretchr/testify/require"
)

type staticRequests struct {
	opts    requestlog.ListOptions
	entries []requestlog.Entry
}

func (s *staticRequests) Recent(_ context.Context, opts requestlog.ListOptions) ([]requestlog.Entry, error) {
	s.opts = opts
	return s.entries, nil
}

type fixture struct {
	server    *httptest.Server
	analytics *testserver.Analytics
	store     *store.Store
	requests  *staticRequests
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	analytics := testserver.New(t)
	c := client.New(client.Config{BaseURL: analytics.URL()})
	st := store.New(c, store.Options{})
	require.NoError(t, st.Initialize(context.Background()))

	requests := &staticRequests{entries: []requestlog.Entry{{ID: 1, Endpoint: entity.EndpointAllEntities, Outcome: requestlog.OutcomeOK}}}
	server := httptest.NewServer(NewServer(Config{
		Store:    st,
		Dataset:  dataset.New(c, nil),
		Requests: requests,
	}))
	t.Cleanup(server.Close)

	return &fixture{server: server, analytics: analytics, store: st, requests: requests}
}

func (f *fixture) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Config{Store: store.New(nil, store.Options{})}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_State(t *testing.T) {
	f := newFixture(t)

	var st store.State
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/state", "", &st))
	require.True(t, st.Loaded)
	require.Equal(t, 3, st.VesselCount)
	require.Equal(t, 4, st.LocationCount, "compound tag lands in locations too")
	require.Equal(t, 2, st.CommodityCount)
	require.Equal(t, store.DefaultFocusVesselID, st.Filter.FocusVesselID)
	require.Equal(t, "2035-02-01", st.Filter.DateInterval.StartDate())
}

func TestHTTPServer_EntitiesAndIndex(t *testing.T) {
	f := newFixture(t)

	var vessels []entity.Vessel
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/entities/vessels", "", &vessels))
	require.Len(t, vessels, 3)
	require.Equal(t, "Snapper Snatcher", vessels[0].Name)

	var index struct {
		IDs      []string          `json:"ids"`
		NameToID map[string]string `json:"name_to_id"`
	}
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/index/commodity", "", &index))
	require.Equal(t, []string{"fish1", "fish3"}, index.IDs)
	require.Equal(t, "fish1", index.NameToID["Cod/Gadus n.specificatae"])

	var errResp errorResponse
	require.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/entities/ships", "", &errResp))
	require.Contains(t, errResp.Error, "unknown entity kind")
}

func TestHTTPServer_Colors(t *testing.T) {
	f := newFixture(t)

	var resp colorsResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/colors/vessels", "", &resp))
	require.Equal(t, entity.KindVessel, resp.Kind)
	require.Len(t, resp.Assignments, 2)
	require.Equal(t, "Entity.Vessel.FishingVessel", resp.Assignments[0].Category)
	require.Equal(t, "#1f77b4", resp.Assignments[0].Color)
}

func TestHTTPServer_SelectionRefreshesProjections(t *testing.T) {
	f := newFixture(t)

	var st store.State
	status := f.do(t, http.MethodPut, "/api/selection/locations", `{"ids":["Nemo Reef"]}`, &st)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"Nemo Reef"}, st.Filter.SelectedLocationIDs)

	var proj projectionsResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/projections", "", &proj))
	require.Len(t, proj.VesselMovements, 2)
	require.Len(t, proj.AggregatedVesselMovements, 1)
	require.Len(t, proj.VesselTSNE, 3)

	calls := f.analytics.Calls(entity.EndpointVesselMovements)
	var last entity.ProjectionQuery
	require.NoError(t, json.Unmarshal(calls[len(calls)-1].Body, &last))
	require.Equal(t, []string{"Nemo Reef"}, last.LocationIDs)
}

func TestHTTPServer_Filter(t *testing.T) {
	f := newFixture(t)

	var st store.State
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/filter", `{"start_date":"2035-03-18","end_date":"2035-03-31"}`, &st))
	require.Equal(t, "2035-03-18", st.Filter.DateInterval.StartDate())

	var proj projectionsResponse
	f.do(t, http.MethodGet, "/api/projections", "", &proj)
	require.Len(t, proj.VesselMovements, 1)
	require.Equal(t, "cargo1", proj.VesselMovements[0].VesselID)

	var errResp errorResponse
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/filter", `{"start_date":"03/18/2035","end_date":"2035-03-31"}`, &errResp))
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/filter", `{"start":"x"}`, &errResp))
}

func TestHTTPServer_Focus(t *testing.T) {
	f := newFixture(t)

	var st store.State
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/focus", `{"vessel_id":"roachrobberdb6"}`, &st))
	require.Equal(t, "roachrobberdb6", st.Filter.FocusVesselID)
}

func TestHTTPServer_ReloadFailureIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.analytics.Fail(entity.EndpointAllEntities, http.StatusServiceUnavailable)

	var errResp errorResponse
	require.Equal(t, http.StatusBadGateway, f.do(t, http.MethodPost, "/api/reload", "", &errResp))
	require.Len(t, f.store.Vessels(), 3)

	f.analytics.Recover(entity.EndpointAllEntities)
	f.analytics.SetEntities(`[{"id":"cargo1","type":"Entity.Vessel.CargoVessel","Name":"Cargo One"}]`)
	var st store.State
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/reload", "", &st))
	require.Equal(t, []string{"cargo1"}, st.Filter.SelectedVesselIDs)
	require.Empty(t, st.Filter.SelectedLocationIDs)
}

func TestHTTPServer_Requests(t *testing.T) {
	f := newFixture(t)

	var entries []requestlog.Entry
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/requests?endpoint=get_all_entities&outcome=ok&limit=5", "", &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "get_all_entities", f.requests.opts.Endpoint)
	require.Equal(t, 5, f.requests.opts.Limit)
	require.NotNil(t, f.requests.opts.Outcome)
	require.Equal(t, requestlog.OutcomeOK, *f.requests.opts.Outcome)

	var errResp errorResponse
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/requests?limit=-1", "", &errResp))
}

func TestHTTPServer_Example(t *testing.T) {
	f := newFixture(t)

	var resp exampleResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/example", "", &resp))
	require.Zero(t, resp.Length)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/example/reload", "", &resp))
	require.Equal(t, 2, resp.Length)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/example", `{"example":100}`, &resp))
	require.Equal(t, 1, resp.Length)
	require.JSONEq(t, `100`, string(resp.Data[0]))
}

func TestHTTPServer_APIKey(t *testing.T) {
	server := httptest.NewServer(NewServer(Config{Store: store.New(nil, store.Options{}), APIKey: "secret"}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/state", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
