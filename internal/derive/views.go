package derive

import "github.com/rpggio/vesselscope/internal/domain/entity"

// Views bundles every derived structure for an entity graph.
type Views struct {
	Vessels     Index[entity.Vessel]
	Locations   Index[entity.Location]
	Commodities Index[entity.Commodity]

	VesselColors    ColorScale
	LocationColors  ColorScale
	CommodityColors ColorScale
}

// Build derives all views from g.
func Build(g entity.Graph) Views {
	v := Views{
		Vessels:     NewIndex(g.Vessels),
		Locations:   NewIndex(g.Locations),
		Commodities: NewIndex(g.Commodities),
	}
	v.VesselColors = NewColorScale(VesselPalette, v.Vessels.Categories)
	v.LocationColors = NewColorScale(LocationPalette, v.Locations.Categories)
	v.CommodityColors = NewColorScale(CommodityPalette, v.Commodities.Categories)
	return v
}

// IDs returns the id universe for kind.
func (v Views) IDs(kind entity.Kind) ([]string, error) {
	switch kind {
	case entity.KindVessel:
		return v.Vessels.IDs, nil
	case entity.KindLocation:
		return v.Locations.IDs, nil
	case entity.KindCommodity:
		return v.Commodities.IDs, nil
	default:
		return nil, entity.ErrUnknownKind
	}
}

// Colors returns the color scale for kind.
func (v Views) Colors(kind entity.Kind) (ColorScale, error) {
	switch kind {
	case entity.KindVessel:
		return v.VesselColors, nil
	case entity.KindLocation:
		return v.LocationColors, nil
	case entity.KindCommodity:
		return v.CommodityColors, nil
	default:
		return ColorScale{}, entity.ErrUnknownKind
	}
}
