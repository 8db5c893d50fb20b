package entity

// Vessel is a ship tracked by the analytics service.
type Vessel struct {
	ID   string `json:"id"`
	Name string `json:"Name"`
	Type string `json:"type"`
}

// Location is a port, region or other place a vessel can visit.
type Location struct {
	ID          string   `json:"id"`
	Name        string   `json:"Name"`
	Type        string   `json:"type"`
	Kind        string   `json:"kind"`
	Activities  []string `json:"Activities"`
	Description string   `json:"Description"`
}

// Commodity is a traded good.
type Commodity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (v Vessel) EntityID() string { return v.ID }
func (v Vessel) EntityName() string { return v.Name }
func (v Vessel) EntityCategory() string { return v.Type }

func (l Location) EntityID() string { return l.ID }
func (l Location) EntityName() string { return l.Name }
func (l Location) EntityCategory() string { return l.Type }

func (c Commodity) EntityID() string { return c.ID }
func (c Commodity) EntityName() string { return c.Name }
func (c Commodity) EntityCategory() string { return c.Type }

// VesselMovement is a vessel's stay at a location. The references are not
// checked against the local collections.
type VesselMovement struct {
	VesselID   string    `json:"vessel_id"`
	LocationID string    `json:"location_id"`
	StartTime  Timestamp `json:"start_time"`
	EndTime    Timestamp `json:"end_time"`
}

// Graph holds the three typed entity collections in service order.
type Graph struct {
	Vessels     []Vessel    `json:"vessels"`
	Locations   []Location  `json:"locations"`
	Commodities []Commodity `json:"commodities"`
}

// Clone returns a copy that shares no slices with g.
func (g Graph) Clone() Graph {
	out := Graph{
		Vessels:     append([]Vessel{}, g.Vessels...),
		Locations:   make([]Location, len(g.Locations)),
		Commodities: append([]Commodity{}, g.Commodities...),
	}
	for i, loc := range g.Locations {
		loc.Activities = append([]string(nil), loc.Activities...)
		out.Locations[i] = loc
	}
	return out
}
