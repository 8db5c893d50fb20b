// Package testserver runs a fake analytics service for tests.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/vesselscope/internal/client"
	"github.com/rpggio/vesselscope/internal/dataset"
	"github.com/rpggio/vesselscope/internal/domain/entity"
)

// Entities is the default get_all_entities fixture. fish3 carries a compound
// tag and reef-2 matches no marker.
const Entities = `[
	{"id":"snappersnatcher7be","type":"Entity.Vessel.FishingVessel","Name":"Snapper Snatcher"},
	{"id":"roachrobberdb6","type":"Entity.Vessel.FishingVessel","Name":"Roach Robber"},
	{"id":"cargo1","type":"Entity.Vessel.CargoVessel","Name":"Cargo One"},
	{"id":"City of Himark","type":"Entity.Location.City","Name":"City of Himark","kind":"city","Activities":["trade"],"Description":"harbor city"},
	{"id":"Nemo Reef","type":"Entity.Location.Preserve","Name":"Nemo Reef","kind":"ecological preserve","Activities":["tourism"],"Description":"protected reef"},
	{"id":"Exit East","type":"Entity.Location.Point","Name":"Exit East","kind":"buoy"},
	{"id":"fish1","type":"Entity.Commodity.Fish","name":"Cod/Gadus n.specificatae"},
	{"id":"fish3","type":"Entity.Commodity.Fish.Entity.Location","name":"Wrasse/Labridae n.refert"},
	{"id":"reef-2","type":"Entity.Document","name":"log"}
]`

// Movements is the default movement fixture filtered per query.
var Movements = []entity.VesselMovement{
	movement("snappersnatcher7be", "Nemo Reef", "2035-02-03T08:00:00", "2035-02-03T20:00:00"),
	movement("snappersnatcher7be", "Nemo Reef", "2035-02-10T08:00:00", "2035-02-10T18:00:00"),
	movement("snappersnatcher7be", "City of Himark", "2035-02-11T06:00:00", "2035-02-11T09:00:00"),
	movement("roachrobberdb6", "Exit East", "2035-02-20T12:00:00", "2035-02-21T12:00:00"),
	movement("cargo1", "City of Himark", "2035-03-20T00:00:00", "2035-03-21T00:00:00"),
}

func movement(vessel, location, start, end string) entity.VesselMovement {
	parse := func(s string) entity.Timestamp {
		t, err := time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			panic(err)
		}
		return entity.Timestamp{Time: t}
	}
	return entity.VesselMovement{VesselID: vessel, LocationID: location, StartTime: parse(start), EndTime: parse(end)}
}

// Call is one request received by the fake service.
type Call struct {
	Method    string
	Endpoint  string
	RequestID string
	Body      json.RawMessage
}

// Analytics is a fake analytics service.
type Analytics struct {
	Server *httptest.Server

	mu        sync.Mutex
	entities  string
	movements []entity.VesselMovement
	example   []json.RawMessage
	overrides map[string]string
	failures  map[string]int
	calls     []Call
}

// New starts a fake service with the default fixtures. It is closed when t ends.
func New(t testing.TB) *Analytics {
	t.Helper()

	a := &Analytics{
		entities:  Entities,
		movements: slices.Clone(Movements),
		example:   []json.RawMessage{json.RawMessage(`{"id":1}`), json.RawMessage(`{"id":2}`)},
		overrides: make(map[string]string),
		failures:  make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(a.record)
	r.Get("/"+entity.EndpointAllEntities, a.handleEntities)
	r.Post("/"+entity.EndpointVesselTSNE, a.handleTSNE)
	r.Post("/"+entity.EndpointVesselMovements, a.handleMovements)
	r.Get("/"+dataset.EndpointGet, a.handleExample)
	r.Post("/"+dataset.EndpointModify, a.handleModify)

	a.Server = httptest.NewServer(r)
	t.Cleanup(a.Server.Close)
	return a
}

// URL is the service base URL.
func (a *Analytics) URL() string { return a.Server.URL }

// SetEntities replaces the get_all_entities body.
func (a *Analytics) SetEntities(body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entities = body
}

// Respond makes endpoint answer with body verbatim.
func (a *Analytics) Respond(endpoint, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrides[endpoint] = body
}

// Fail makes endpoint answer with status until Recover is called.
func (a *Analytics) Fail(endpoint string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[endpoint] = status
}

// Recover clears failures and overrides for endpoint.
func (a *Analytics) Recover(endpoint string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.failures, endpoint)
	delete(a.overrides, endpoint)
}

// Calls returns the requests received for endpoint, oldest first.
func (a *Analytics) Calls(endpoint string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Call
	for _, c := range a.calls {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func (a *Analytics) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		endpoint := r.URL.Path[1:]

		a.mu.Lock()
		a.calls = append(a.calls, Call{
			Method:    r.Method,
			Endpoint:  endpoint,
			RequestID: r.Header.Get(client.RequestIDHeader),
			Body:      body,
		})
		status, failing := a.failures[endpoint]
		override, overridden := a.overrides[endpoint]
		a.mu.Unlock()

		switch {
		case failing:
			http.Error(w, "injected failure", status)
		case overridden:
			writeRaw(w, override)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (a *Analytics) handleEntities(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	body := a.entities
	a.mu.Unlock()
	writeRaw(w, body)
}

func (a *Analytics) handleTSNE(w http.ResponseWriter, r *http.Request) {
	var q entity.ProjectionQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	points := make([]entity.TSNEPoint, 0, len(q.VesselIDs))
	for i, id := range q.VesselIDs {
		points = append(points, entity.TSNEPoint{VesselID: id, X: float64(i), Y: float64(len(q.LocationIDs))})
	}
	writeJSON(w, points)
}

type movementsResponse struct {
	VesselMovements           []entity.VesselMovement `json:"vessel_movements"`
	AggregatedVesselMovements []entity.VesselMovement `json:"aggregated_vessel_movements"`
}

// handleMovements returns the fixture movements that overlap the date window
// and match the selections, plus one aggregate per vessel and location.
func (a *Analytics) handleMovements(w http.ResponseWriter, r *http.Request) {
	var q entity.ProjectionQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	iv, err := entity.ParseDateInterval(q.StartDate, q.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	end := iv.End.AddDate(0, 0, 1)

	a.mu.Lock()
	all := slices.Clone(a.movements)
	a.mu.Unlock()

	resp := movementsResponse{VesselMovements: []entity.VesselMovement{}, AggregatedVesselMovements: []entity.VesselMovement{}}
	type key struct{ vessel, location string }
	agg := make(map[key]entity.VesselMovement)
	for _, m := range all {
		if !slices.Contains(q.VesselIDs, m.VesselID) || !slices.Contains(q.LocationIDs, m.LocationID) {
			continue
		}
		if !m.EndTime.After(iv.Start) || !m.StartTime.Before(end) {
			continue
		}
		resp.VesselMovements = append(resp.VesselMovements, m)

		k := key{m.VesselID, m.LocationID}
		cur, ok := agg[k]
		if !ok {
			agg[k] = m
			continue
		}
		if m.StartTime.Before(cur.StartTime.Time) {
			cur.StartTime = m.StartTime
		}
		if m.EndTime.After(cur.EndTime.Time) {
			cur.EndTime = m.EndTime
		}
		agg[k] = cur
	}
	for _, m := range agg {
		resp.AggregatedVesselMovements = append(resp.AggregatedVesselMovements, m)
	}
	sort.Slice(resp.AggregatedVesselMovements, func(i, j int) bool {
		x, y := resp.AggregatedVesselMovements[i], resp.AggregatedVesselMovements[j]
		if x.VesselID != y.VesselID {
			return x.VesselID < y.VesselID
		}
		return x.LocationID < y.LocationID
	})
	writeJSON(w, resp)
}

func (a *Analytics) handleExample(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	data := slices.Clone(a.example)
	a.mu.Unlock()
	writeJSON(w, data)
}

// handleModify answers a non-integer example with an empty body and otherwise
// stores the value as the dataset and echoes the value back.
func (a *Analytics) handleModify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Example json.RawMessage `json:"example"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var value int
	if err := json.Unmarshal(req.Example, &value); err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	a.mu.Lock()
	a.example = []json.RawMessage{req.Example}
	a.mu.Unlock()
	writeJSON(w, value)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}
