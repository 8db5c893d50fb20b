package derive_test

import (
	"testing"

	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func sampleGraph() entity.Graph {
	return entity.Graph{
		Vessels: []entity.Vessel{
			{ID: "v1", Name: "Snapper", Type: "Entity.Vessel.FishingVessel"},
			{ID: "v2", Name: "Marlin", Type: "Entity.Vessel.CargoVessel"},
			{ID: "v1", Name: "Snapper II", Type: "Entity.Vessel.FishingVessel"},
			{ID: "v3", Name: "Marlin", Type: "Entity.Vessel.Tour"},
		},
		Locations: []entity.Location{
			{ID: "l1", Name: "Haacklee", Type: "Entity.Location.City"},
			{ID: "l2", Name: "Nav 1", Type: "Entity.Location.Point"},
		},
		Commodities: []entity.Commodity{
			{ID: "c1", Name: "salmon", Type: "Entity.Commodity.Fish"},
		},
	}
}

func TestNewIndex_FirstSeenDeduplicated(t *testing.T) {
	idx := derive.NewIndex(sampleGraph().Vessels)

	require.Equal(t, []string{"v1", "v2", "v3"}, idx.IDs)
	require.Equal(t, []string{"Snapper", "Marlin", "Snapper II"}, idx.Names)
	require.Equal(t, []string{"Entity.Vessel.FishingVessel", "Entity.Vessel.CargoVessel", "Entity.Vessel.Tour"}, idx.Categories)

	require.Equal(t, "v3", idx.NameToID["Marlin"])
	require.Equal(t, "Snapper II", idx.IDToName["v1"])
	v1, ok := idx.Get("v1")
	require.True(t, ok)
	require.Equal(t, "Snapper II", v1.Name)
	require.False(t, idx.Has("missing"))
}

func TestNewIndex_IDSetMatchesCollection(t *testing.T) {
	g := sampleGraph()
	idx := derive.NewIndex(g.Vessels)

	want := map[string]struct{}{}
	for _, v := range g.Vessels {
		want[v.ID] = struct{}{}
	}
	got := map[string]struct{}{}
	for _, id := range idx.IDs {
		_, dup := got[id]
		require.False(t, dup, "duplicate id %s", id)
		got[id] = struct{}{}
	}
	require.Equal(t, want, got)
}

func TestNewIndex_Empty(t *testing.T) {
	idx := derive.NewIndex([]entity.Commodity{})
	require.NotNil(t, idx.IDs)
	require.Empty(t, idx.IDs)
	require.Empty(t, idx.IDToEntity)
}

func TestColorScale_OrdinalByFirstSeenCategory(t *testing.T) {
	views := derive.Build(sampleGraph())

	require.Equal(t, []derive.Assignment{
		{Category: "Entity.Vessel.FishingVessel", Color: "#1f77b4"},
		{Category: "Entity.Vessel.CargoVessel", Color: "#ff7f0e"},
		{Category: "Entity.Vessel.Tour", Color: "#2ca02c"},
	}, views.VesselColors.Assignments())

	color, ok := views.LocationColors.ColorOf("Entity.Location.Point")
	require.True(t, ok)
	require.Equal(t, "#ffffb3", color)

	color, ok = derive.EntityColor(views.Commodities, views.CommodityColors, "c1")
	require.True(t, ok)
	require.Equal(t, "#e41a1c", color)

	_, ok = derive.EntityColor(views.Commodities, views.CommodityColors, "c9")
	require.False(t, ok)
}

func TestColorScale_StableAcrossRebuilds(t *testing.T) {
	first := derive.Build(sampleGraph())
	second := derive.Build(sampleGraph())
	require.Equal(t, first.VesselColors.Map(), second.VesselColors.Map())
	require.Equal(t, first.LocationColors.Assignments(), second.LocationColors.Assignments())
	require.Equal(t, first.CommodityColors.Assignments(), second.CommodityColors.Assignments())
}

func TestColorScale_WrapsPalette(t *testing.T) {
	domain := make([]string, 0, len(derive.CommodityPalette)+1)
	for i := 0; i <= len(derive.CommodityPalette); i++ {
		domain = append(domain, string(rune('a'+i)))
	}
	scale := derive.NewColorScale(derive.CommodityPalette, domain)
	require.Equal(t, len(domain), scale.Len())

	last, ok := scale.ColorOf(domain[len(domain)-1])
	require.True(t, ok)
	require.Equal(t, derive.CommodityPalette[0], last)
}

func TestLocationPalette_Concatenated(t *testing.T) {
	require.Len(t, derive.LocationPalette, 12+10+9)
	require.Equal(t, "#8dd3c7", derive.LocationPalette[0])
	require.Equal(t, "#4e79a7", derive.LocationPalette[12])
	require.Equal(t, "#fbb4ae", derive.LocationPalette[22])
}

func TestViews_IDsByKind(t *testing.T) {
	views := derive.Build(sampleGraph())
	ids, err := views.IDs(entity.KindLocation)
	require.NoError(t, err)
	require.Equal(t, []string{"l1", "l2"}, ids)

	_, err = views.IDs(entity.Kind("ports"))
	require.ErrorIs(t, err, entity.ErrUnknownKind)
}
