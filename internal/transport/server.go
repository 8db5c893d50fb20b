// Package transport serves the store's state to a dashboard over HTTP.
package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rpggio/vesselscope/internal/dataset"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/store"
)

// RequestLister returns recent request log entries.
type RequestLister interface {
	Recent(ctx context.Context, opts requestlog.ListOptions) ([]requestlog.Entry, error)
}

// Config wires the HTTP state API.
type Config struct {
	Store    *store.Store
	Dataset  *dataset.Store
	Requests RequestLister
	Logger   *slog.Logger
	// APIKey, when set, is required as a bearer token on /api routes.
	APIKey string
}

// Server holds the handler dependencies.
type Server struct {
	store    *store.Store
	dataset  *dataset.Store
	requests RequestLister
	logger   *slog.Logger
}

// NewServer creates the router with middleware. Extra routes, such as an MCP
// endpoint, can be mounted on the returned mux.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		store:    cfg.Store,
		dataset:  cfg.Dataset,
		requests: cfg.Requests,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.APIKey))
		r.Get("/state", srv.handleState)
		r.Get("/entities/{kind}", srv.handleEntities)
		r.Get("/index/{kind}", srv.handleIndex)
		r.Get("/colors/{kind}", srv.handleColors)
		r.Get("/projections", srv.handleProjections)
		r.Post("/projections/refresh", srv.handleRefreshProjections)
		r.Put("/filter", srv.handleSetFilter)
		r.Put("/selection/{kind}", srv.handleSetSelection)
		r.Put("/focus", srv.handleSetFocus)
		r.Post("/reload", srv.handleReload)
		r.Get("/requests", srv.handleRequests)

		if srv.dataset != nil {
			r.Get("/example", srv.handleExample)
			r.Post("/example/reload", srv.handleExampleReload)
			r.Put("/example", srv.handleExampleModify)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
