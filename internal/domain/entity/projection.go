package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Endpoints served by the analytics service.
const (
	EndpointAllEntities     = "get_all_entities"
	EndpointVesselTSNE      = "get_vessel_tsne"
	EndpointVesselMovements = "get_vessel_movements"
)

// ProjectionQuery is the payload of both projection endpoints.
type ProjectionQuery struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	VesselIDs   []string `json:"vessel_ids"`
	LocationIDs []string `json:"location_ids"`
}

// NewProjectionQuery copies the id lists so the payload never aliases store state.
func NewProjectionQuery(interval DateInterval, vesselIDs, locationIDs []string) ProjectionQuery {
	return ProjectionQuery{
		StartDate:   interval.StartDate(),
		EndDate:     interval.EndDate(),
		VesselIDs:   append(make([]string, 0, len(vesselIDs)), vesselIDs...),
		LocationIDs: append(make([]string, 0, len(locationIDs)), locationIDs...),
	}
}

// TSNEPoint is a vessel's 2-D embedding coordinate. On the wire it is the
// pair [vessel_id, [x, y]].
type TSNEPoint struct {
	VesselID string
	X        float64
	Y        float64
}

func (p *TSNEPoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("t-SNE entry must be [id, [x, y]]")
	}
	var id string
	if err := json.Unmarshal(pair[0], &id); err != nil {
		return fmt.Errorf("t-SNE vessel id: %w", err)
	}
	var coord []float64
	if err := json.Unmarshal(pair[1], &coord); err != nil || len(coord) != 2 {
		return fmt.Errorf("t-SNE coordinate for %q must be [x, y]", id)
	}
	p.VesselID, p.X, p.Y = id, coord[0], coord[1]
	return nil
}

func (p TSNEPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.VesselID, []float64{p.X, p.Y}})
}

// DecodeTSNE parses the get_vessel_tsne response.
func DecodeTSNE(data []byte) ([]TSNEPoint, error) {
	points := []TSNEPoint{}
	if err := decodeArray(data, &points); err != nil {
		return nil, fmt.Errorf("%w: vessel t-SNE: %v", ErrShape, err)
	}
	return points, nil
}

// Movements is the get_vessel_movements response.
type Movements struct {
	Raw        []VesselMovement
	Aggregated []VesselMovement
}

type movementsEnvelope struct {
	VesselMovements           json.RawMessage `json:"vessel_movements"`
	AggregatedVesselMovements json.RawMessage `json:"aggregated_vessel_movements"`
}

// DecodeMovements parses the get_vessel_movements response. Both arrays must be present.
func DecodeMovements(data []byte) (Movements, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return Movements{}, fmt.Errorf("%w: vessel movements: expected object", ErrShape)
	}
	var env movementsEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return Movements{}, fmt.Errorf("%w: vessel movements: %v", ErrShape, err)
	}

	raw := []VesselMovement{}
	if err := decodeArray(env.VesselMovements, &raw); err != nil {
		return Movements{}, fmt.Errorf("%w: vessel_movements: %v", ErrShape, err)
	}
	aggregated := []VesselMovement{}
	if err := decodeArray(env.AggregatedVesselMovements, &aggregated); err != nil {
		return Movements{}, fmt.Errorf("%w: aggregated_vessel_movements: %v", ErrShape, err)
	}
	return Movements{Raw: raw, Aggregated: aggregated}, nil
}
