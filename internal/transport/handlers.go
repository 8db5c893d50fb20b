package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
)

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) kind(r *http.Request) (entity.Kind, error) {
	return entity.ParseKind(chi.URLParam(r, "kind"))
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	kind, err := s.kind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g := s.store.Graph()
	switch kind {
	case entity.KindVessel:
		writeJSON(w, http.StatusOK, g.Vessels)
	case entity.KindLocation:
		writeJSON(w, http.StatusOK, g.Locations)
	case entity.KindCommodity:
		writeJSON(w, http.StatusOK, g.Commodities)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	kind, err := s.kind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	switch kind {
	case entity.KindVessel:
		writeJSON(w, http.StatusOK, s.store.VesselIndex())
	case entity.KindLocation:
		writeJSON(w, http.StatusOK, s.store.LocationIndex())
	case entity.KindCommodity:
		writeJSON(w, http.StatusOK, s.store.CommodityIndex())
	}
}

type colorsResponse struct {
	Kind        entity.Kind         `json:"kind"`
	Assignments []derive.Assignment `json:"assignments"`
}

func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	kind, err := s.kind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scale, err := s.store.Colors(kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, colorsResponse{Kind: kind, Assignments: scale.Assignments()})
}

type projectionsResponse struct {
	VesselTSNE                []entity.TSNEPoint      `json:"vessel_tsne"`
	VesselMovements           []entity.VesselMovement `json:"vessel_movements"`
	AggregatedVesselMovements []entity.VesselMovement `json:"aggregated_vessel_movements"`
}

func (s *Server) projections() projectionsResponse {
	return projectionsResponse{
		VesselTSNE:                s.store.VesselTSNE(),
		VesselMovements:           s.store.VesselMovements(),
		AggregatedVesselMovements: s.store.AggregatedVesselMovements(),
	}
}

func (s *Server) handleProjections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.projections())
}

func (s *Server) handleRefreshProjections(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RefreshProjections(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.projections())
}

type filterRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	iv, err := entity.ParseDateInterval(req.StartDate, req.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.SetDateInterval(iv)
	s.refreshAndRespond(w, r)
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	kind, err := s.kind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetSelection(kind, req.IDs); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.refreshAndRespond(w, r)
}

// refreshAndRespond refreshes projections for the new filter and returns the state.
func (s *Server) refreshAndRespond(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RefreshProjections(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.State())
}

type focusRequest struct {
	VesselID string `json:"vessel_id"`
}

func (s *Server) handleSetFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.SetFocusVesselID(req.VesselID)
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reload(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	if s.requests == nil {
		writeJSON(w, http.StatusOK, []requestlog.Entry{})
		return
	}

	q := r.URL.Query()
	opts := requestlog.ListOptions{Endpoint: q.Get("endpoint")}
	if v := q.Get("outcome"); v != "" {
		outcome := requestlog.Outcome(v)
		opts.Outcome = &outcome
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.requests.Recent(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []requestlog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrBadRequest, v)
	}
	return n, nil
}
