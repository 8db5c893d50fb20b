package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind names one of the three entity collections.
type Kind string

const (
	KindVessel    Kind = "vessels"
	KindLocation  Kind = "locations"
	KindCommodity Kind = "commodities"
)

// Type-tag markers. A record belongs to a collection when its type contains
// the marker; compound tags may match more than one.
const (
	MarkerVessel    = "Entity.Vessel"
	MarkerLocation  = "Entity.Location"
	MarkerCommodity = "Entity.Commodity"
)

// Kinds lists the entity kinds in a fixed order.
var Kinds = []Kind{KindVessel, KindLocation, KindCommodity}

// ParseKind accepts plural and singular kind names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vessels", "vessel":
		return KindVessel, nil
	case "locations", "location":
		return KindLocation, nil
	case "commodities", "commodity":
		return KindCommodity, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Record is one entry of the flat entity list as sent by the service.
type Record struct {
	ID   string
	Type string
	Raw  json.RawMessage
}

type recordHeader struct {
	ID   *string `json:"id"`
	Type *string `json:"type"`
}

// DecodeRecords parses the get_all_entities response. Every element must be an
// object with string id and type fields.
func DecodeRecords(data []byte) ([]Record, error) {
	var raws []json.RawMessage
	if err := decodeArray(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: entity list: %v", ErrShape, err)
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		var hdr recordHeader
		if err := json.Unmarshal(raw, &hdr); err != nil {
			return nil, fmt.Errorf("%w: entity %d: %v", ErrShape, i, err)
		}
		if hdr.ID == nil || hdr.Type == nil {
			return nil, fmt.Errorf("%w: entity %d: missing id or type", ErrShape, i)
		}
		records = append(records, Record{ID: *hdr.ID, Type: *hdr.Type, Raw: raw})
	}
	return records, nil
}

// Partition splits records into typed collections by marker containment.
// Records matching no marker are dropped.
func Partition(records []Record) (Graph, error) {
	g := Graph{
		Vessels:     []Vessel{},
		Locations:   []Location{},
		Commodities: []Commodity{},
	}
	for i, rec := range records {
		if strings.Contains(rec.Type, MarkerVessel) {
			var v Vessel
			if err := json.Unmarshal(rec.Raw, &v); err != nil {
				return Graph{}, fmt.Errorf("%w: vessel %d: %v", ErrShape, i, err)
			}
			g.Vessels = append(g.Vessels, v)
		}
		if strings.Contains(rec.Type, MarkerLocation) {
			var l Location
			if err := json.Unmarshal(rec.Raw, &l); err != nil {
				return Graph{}, fmt.Errorf("%w: location %d: %v", ErrShape, i, err)
			}
			g.Locations = append(g.Locations, l)
		}
		if strings.Contains(rec.Type, MarkerCommodity) {
			var c Commodity
			if err := json.Unmarshal(rec.Raw, &c); err != nil {
				return Graph{}, fmt.Errorf("%w: commodity %d: %v", ErrShape, i, err)
			}
			g.Commodities = append(g.Commodities, c)
		}
	}
	return g, nil
}

// decodeArray rejects anything but a JSON array, including null and an empty body.
func decodeArray(data []byte, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("expected array")
	}
	return json.Unmarshal([]byte(trimmed), v)
}
