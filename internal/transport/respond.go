package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/vesselscope/internal/dataset"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/store"
)

// ErrBadRequest marks a malformed request body or query.
var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, entity.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSuperseded), errors.Is(err, dataset.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, store.ErrTransport), errors.Is(err, entity.ErrShape),
		errors.Is(err, dataset.ErrTransport), errors.Is(err, dataset.ErrShape):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
