package transport

import (
	"encoding/json"
	"net/http"

	"github.com/rpggio/vesselscope/internal/dataset"
)

type exampleResponse struct {
	Length int               `json:"length"`
	Data   []json.RawMessage `json:"data"`
}

func (s *Server) example() exampleResponse {
	return exampleResponse{Length: s.dataset.Len(), Data: s.dataset.Data()}
}

func (s *Server) handleExample(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.example())
}

func (s *Server) handleExampleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.dataset.Load(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.example())
}

func (s *Server) handleExampleModify(w http.ResponseWriter, r *http.Request) {
	var req dataset.ModifyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.dataset.Modify(r.Context(), req.Example); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.example())
}
