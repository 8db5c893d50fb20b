package snapshot

import (
	"time"

	"github.com/rpggio/vesselscope/internal/domain/entity"
)

// Snapshot is a persisted copy of the entity graph and the last projections,
// used to warm-start the store before the service answers.
type Snapshot struct {
	ID                        string                  `json:"id"`
	Graph                     entity.Graph            `json:"graph"`
	VesselTSNE                []entity.TSNEPoint      `json:"vessel_tsne"`
	VesselMovements           []entity.VesselMovement `json:"vessel_movements"`
	AggregatedVesselMovements []entity.VesselMovement `json:"aggregated_vessel_movements"`
	SavedAt                   time.Time               `json:"saved_at"`
}
