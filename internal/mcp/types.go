package mcp

import (
	"time"

	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/store"
)

type emptyInput struct{}

type kindInput struct {
	Kind string `json:"kind" jsonschema:"entity kind: vessels, locations or commodities"`
}

type listEntitiesInput struct {
	Kind  string `json:"kind" jsonschema:"entity kind: vessels, locations or commodities"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entities, 0 for all"`
}

type setDateIntervalInput struct {
	StartDate string `json:"start_date" jsonschema:"inclusive start date, YYYY-MM-DD"`
	EndDate   string `json:"end_date" jsonschema:"inclusive end date, YYYY-MM-DD"`
}

type selectEntitiesInput struct {
	Kind string   `json:"kind" jsonschema:"entity kind: vessels, locations or commodities"`
	IDs  []string `json:"ids" jsonschema:"ids to select; replaces the current selection"`
}

type setFocusVesselInput struct {
	VesselID string `json:"vessel_id" jsonschema:"vessel to highlight"`
}

type getProjectionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries per list, 0 for all"`
}

type recentRequestsInput struct {
	Endpoint string `json:"endpoint,omitempty" jsonschema:"only requests to this endpoint"`
	Outcome  string `json:"outcome,omitempty" jsonschema:"only this outcome: ok, transport_error, shape_error or stale"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
}

type stateView struct {
	Loaded               bool     `json:"loaded"`
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date"`
	FocusVesselID        string   `json:"focus_vessel_id"`
	SelectedVesselIDs    []string `json:"selected_vessel_ids"`
	SelectedLocationIDs  []string `json:"selected_location_ids"`
	SelectedCommodityIDs []string `json:"selected_commodity_ids"`
	Vessels              int      `json:"vessels"`
	Locations            int      `json:"locations"`
	Commodities          int      `json:"commodities"`
	TSNEPoints           int      `json:"tsne_points"`
	Movements            int      `json:"movements"`
	AggregatedMovements  int      `json:"aggregated_movements"`
}

func newStateView(st store.State) stateView {
	return stateView{
		Loaded:               st.Loaded,
		StartDate:            st.Filter.DateInterval.StartDate(),
		EndDate:              st.Filter.DateInterval.EndDate(),
		FocusVesselID:        st.Filter.FocusVesselID,
		SelectedVesselIDs:    nonNil(st.Filter.SelectedVesselIDs),
		SelectedLocationIDs:  nonNil(st.Filter.SelectedLocationIDs),
		SelectedCommodityIDs: nonNil(st.Filter.SelectedCommodityIDs),
		Vessels:              st.VesselCount,
		Locations:            st.LocationCount,
		Commodities:          st.CommodityCount,
		TSNEPoints:           st.TSNECount,
		Movements:            st.MovementCount,
		AggregatedMovements:  st.AggregatedMovementCount,
	}
}

type entityView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Color       string   `json:"color"`
	Kind        string   `json:"kind,omitempty"`
	Activities  []string `json:"activities,omitempty"`
	Description string   `json:"description,omitempty"`
}

type listEntitiesOutput struct {
	Kind     string       `json:"kind"`
	Total    int          `json:"total"`
	Entities []entityView `json:"entities"`
}

type colorsOutput struct {
	Kind        string              `json:"kind"`
	Assignments []derive.Assignment `json:"assignments"`
}

type tsneView struct {
	VesselID string  `json:"vessel_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type movementView struct {
	VesselID   string `json:"vessel_id"`
	LocationID string `json:"location_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type projectionsOutput struct {
	VesselTSNE                []tsneView     `json:"vessel_tsne"`
	VesselMovements           []movementView `json:"vessel_movements"`
	AggregatedVesselMovements []movementView `json:"aggregated_vessel_movements"`
}

func newProjectionsOutput(s *store.Store, limit int) projectionsOutput {
	points := truncate(s.VesselTSNE(), limit)
	out := projectionsOutput{
		VesselTSNE:                make([]tsneView, 0, len(points)),
		VesselMovements:           movementViews(truncate(s.VesselMovements(), limit)),
		AggregatedVesselMovements: movementViews(truncate(s.AggregatedVesselMovements(), limit)),
	}
	for _, p := range points {
		out.VesselTSNE = append(out.VesselTSNE, tsneView{VesselID: p.VesselID, X: p.X, Y: p.Y})
	}
	return out
}

func movementViews(ms []entity.VesselMovement) []movementView {
	out := make([]movementView, 0, len(ms))
	for _, m := range ms {
		out = append(out, movementView{
			VesselID:   m.VesselID,
			LocationID: m.LocationID,
			StartTime:  m.StartTime.RFC3339(),
			EndTime:    m.EndTime.RFC3339(),
		})
	}
	return out
}

type requestView struct {
	RequestID  string `json:"request_id"`
	Endpoint   string `json:"endpoint"`
	Payload    string `json:"payload,omitempty"`
	Token      uint64 `json:"token"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

type recentRequestsOutput struct {
	Requests []requestView `json:"requests"`
}

func newRequestView(e requestlog.Entry) requestView {
	return requestView{
		RequestID:  e.RequestID,
		Endpoint:   e.Endpoint,
		Payload:    e.Payload,
		Token:      e.Token,
		Outcome:    string(e.Outcome),
		Error:      e.Error,
		DurationMS: e.DurationMS,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
