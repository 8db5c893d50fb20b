package store

import (
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/domain/snapshot"
)

// Snapshot copies the raw collections and projections.
func (s *Store) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.Snapshot{
		Graph:                     s.graph.Clone(),
		VesselTSNE:                append([]entity.TSNEPoint{}, s.tsne...),
		VesselMovements:           append([]entity.VesselMovement{}, s.movements...),
		AggregatedVesselMovements: append([]entity.VesselMovement{}, s.aggregated...),
	}
}

// Restore replaces the store contents with snap and selects every entity, as
// Initialize does. Responses to requests issued before Restore are discarded.
func (s *Store) Restore(snap snapshot.Snapshot) {
	g := snap.Graph.Clone()
	if g.Vessels == nil {
		g.Vessels = []entity.Vessel{}
	}
	if g.Locations == nil {
		g.Locations = []entity.Location{}
	}
	if g.Commodities == nil {
		g.Commodities = []entity.Commodity{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for t := range s.tokens {
		s.tokens[t]++
	}
	s.setGraph(g)
	s.filter.seed(s.views)
	s.tsne = append([]entity.TSNEPoint{}, snap.VesselTSNE...)
	s.movements = append([]entity.VesselMovement{}, snap.VesselMovements...)
	s.aggregated = append([]entity.VesselMovement{}, snap.AggregatedVesselMovements...)
}
