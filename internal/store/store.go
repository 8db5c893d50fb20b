// Package store owns the mirrored entity graph, the user's filter and
// selection, and the projections last fetched for that filter.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/requestlog"
	"github.com/rpggio/vesselscope/internal/domain/snapshot"
)

// DefaultFocusVesselID is the vessel highlighted before the user picks one.
const DefaultFocusVesselID = "snappersnatcher7be"

// DefaultDateInterval is the initial date window, 2035-02-01 to 2035-03-17.
func DefaultDateInterval() entity.DateInterval {
	iv, _ := entity.ParseDateInterval("2035-02-01", "2035-03-17")
	return iv
}

// Transport is the analytics service as seen by the store.
type Transport interface {
	Fetch(ctx context.Context, endpoint string) (json.RawMessage, error)
	Submit(ctx context.Context, endpoint string, payload any) (json.RawMessage, error)
}

// Recorder receives one entry per request to the service.
type Recorder interface {
	LogRequest(ctx context.Context, entry *requestlog.Entry) error
}

// SnapshotSaver persists the store contents after an entity load.
type SnapshotSaver interface {
	Save(ctx context.Context, snap *snapshot.Snapshot) error
}

// Options configures a Store. Zero values select the defaults.
type Options struct {
	Logger        *slog.Logger
	Recorder      Recorder
	Snapshots     SnapshotSaver
	DateInterval  entity.DateInterval
	FocusVesselID string
}

type target int

const (
	targetEntities target = iota
	targetTSNE
	targetMovements
	targetCount
)

// Store is the single owner of dashboard state. All methods are safe for
// concurrent use; readers receive copies.
type Store struct {
	transport Transport
	recorder  Recorder
	snapshots SnapshotSaver
	logger    *slog.Logger

	mu         sync.RWMutex
	loaded     bool
	graph      entity.Graph
	views      derive.Views
	filter     Filter
	tsne       []entity.TSNEPoint
	movements  []entity.VesselMovement
	aggregated []entity.VesselMovement
	tokens     [targetCount]uint64
}

// New creates an empty store backed by transport.
func New(transport Transport, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := opts.DateInterval
	if interval.Start.IsZero() && interval.End.IsZero() {
		interval = DefaultDateInterval()
	}
	focus := opts.FocusVesselID
	if focus == "" {
		focus = DefaultFocusVesselID
	}

	empty := entity.Graph{Vessels: []entity.Vessel{}, Locations: []entity.Location{}, Commodities: []entity.Commodity{}}
	return &Store{
		transport: transport,
		recorder:  opts.Recorder,
		snapshots: opts.Snapshots,
		logger:    logger,
		graph:     empty,
		views:     derive.Build(empty),
		filter: Filter{
			DateInterval:         interval,
			SelectedVesselIDs:    []string{},
			SelectedLocationIDs:  []string{},
			SelectedCommodityIDs: []string{},
			FocusVesselID:        focus,
		},
		tsne:       []entity.TSNEPoint{},
		movements:  []entity.VesselMovement{},
		aggregated: []entity.VesselMovement{},
	}
}

// setGraph replaces the raw collections and rebuilds every derived view.
// Callers hold s.mu.
func (s *Store) setGraph(g entity.Graph) {
	s.graph = g
	s.views = derive.Build(g)
	s.loaded = true
}

// Loaded reports whether an entity graph has been applied.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Graph returns a copy of all three raw collections.
func (s *Store) Graph() entity.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Clone()
}

// Vessels returns a copy of the vessel collection in service order.
func (s *Store) Vessels() []entity.Vessel { return s.Graph().Vessels }

// Locations returns a copy of the location collection in service order.
func (s *Store) Locations() []entity.Location { return s.Graph().Locations }

// Commodities returns a copy of the commodity collection in service order.
func (s *Store) Commodities() []entity.Commodity { return s.Graph().Commodities }

// Views returns a copy of all derived views.
func (s *Store) Views() derive.Views {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return derive.Views{
		Vessels:         s.views.Vessels.Clone(),
		Locations:       s.views.Locations.Clone(),
		Commodities:     s.views.Commodities.Clone(),
		VesselColors:    s.views.VesselColors,
		LocationColors:  s.views.LocationColors,
		CommodityColors: s.views.CommodityColors,
	}
}

// VesselIndex returns the vessel lookup views.
func (s *Store) VesselIndex() derive.Index[entity.Vessel] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.Vessels.Clone()
}

// LocationIndex returns the location lookup views.
func (s *Store) LocationIndex() derive.Index[entity.Location] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.Locations.Clone()
}

// CommodityIndex returns the commodity lookup views.
func (s *Store) CommodityIndex() derive.Index[entity.Commodity] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.Commodities.Clone()
}

// VesselTypeColors assigns colors to vessel types.
func (s *Store) VesselTypeColors() derive.ColorScale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.VesselColors
}

// LocationColors assigns colors to location types.
func (s *Store) LocationColors() derive.ColorScale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.LocationColors
}

// CommodityColors assigns colors to commodity types.
func (s *Store) CommodityColors() derive.ColorScale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.CommodityColors
}

// Colors returns the color scale for kind.
func (s *Store) Colors(kind entity.Kind) (derive.ColorScale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views.Colors(kind)
}

// VesselTSNE returns the last embedding, in service order.
func (s *Store) VesselTSNE() []entity.TSNEPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.TSNEPoint{}, s.tsne...)
}

// VesselMovements returns the last raw movements.
func (s *Store) VesselMovements() []entity.VesselMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.VesselMovement{}, s.movements...)
}

// AggregatedVesselMovements returns the last aggregated movements.
func (s *Store) AggregatedVesselMovements() []entity.VesselMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.VesselMovement{}, s.aggregated...)
}

// State summarises the store for status surfaces.
type State struct {
	Loaded                  bool   `json:"loaded"`
	Filter                  Filter `json:"filter"`
	VesselCount             int    `json:"vessel_count"`
	LocationCount           int    `json:"location_count"`
	CommodityCount          int    `json:"commodity_count"`
	TSNECount               int    `json:"tsne_count"`
	MovementCount           int    `json:"movement_count"`
	AggregatedMovementCount int    `json:"aggregated_movement_count"`
}

// State returns a consistent summary taken under one lock.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Loaded:                  s.loaded,
		Filter:                  s.filter.clone(),
		VesselCount:             len(s.graph.Vessels),
		LocationCount:           len(s.graph.Locations),
		CommodityCount:          len(s.graph.Commodities),
		TSNECount:               len(s.tsne),
		MovementCount:           len(s.movements),
		AggregatedMovementCount: len(s.aggregated),
	}
}
