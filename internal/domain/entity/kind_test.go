package entity_test

import (
	"testing"

	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func TestPartition_ScenarioFromService(t *testing.T) {
	records, err := entity.DecodeRecords([]byte(`[
		{"id":"v1","type":"Entity.Vessel"},
		{"id":"l1","type":"Entity.Location"},
		{"id":"c1","type":"Entity.Commodity"},
		{"id":"x1","type":"Entity.Unknown"}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 4)

	g, err := entity.Partition(records)
	require.NoError(t, err)
	require.Equal(t, []entity.Vessel{{ID: "v1", Type: "Entity.Vessel"}}, g.Vessels)
	require.Len(t, g.Locations, 1)
	require.Equal(t, "l1", g.Locations[0].ID)
	require.Equal(t, []entity.Commodity{{ID: "c1", Type: "Entity.Commodity"}}, g.Commodities)
}

func TestPartition_CompoundTags(t *testing.T) {
	records, err := entity.DecodeRecords([]byte(`[
		{"id":"v1","type":"Entity.Vessel.FishingVessel","Name":"Snapper"},
		{"id":"l1","type":"Entity.Location.Point","Name":"Haacklee","kind":"city","Activities":["Fishing"],"Description":"port"},
		{"id":"both","type":"Entity.Vessel|Entity.Commodity","name":"hybrid"}
	]`))
	require.NoError(t, err)

	g, err := entity.Partition(records)
	require.NoError(t, err)
	require.Equal(t, []string{"v1", "both"}, []string{g.Vessels[0].ID, g.Vessels[1].ID})
	require.Equal(t, "Snapper", g.Vessels[0].Name)
	require.Equal(t, []string{"Fishing"}, g.Locations[0].Activities)
	require.Equal(t, "city", g.Locations[0].Kind)
	require.Len(t, g.Commodities, 1)
	require.Equal(t, "both", g.Commodities[0].ID)
	require.Equal(t, "hybrid", g.Commodities[0].Name)
}

func TestPartition_EmptyList(t *testing.T) {
	records, err := entity.DecodeRecords([]byte(`[]`))
	require.NoError(t, err)
	g, err := entity.Partition(records)
	require.NoError(t, err)
	require.Empty(t, g.Vessels)
	require.NotNil(t, g.Vessels)
}

func TestDecodeRecords_ShapeErrors(t *testing.T) {
	cases := map[string]string{
		"object":       `{"id":"v1"}`,
		"null":         `null`,
		"empty body":   ``,
		"missing type": `[{"id":"v1"}]`,
		"numeric id":   `[{"id":1,"type":"Entity.Vessel"}]`,
		"scalar item":  `["v1"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := entity.DecodeRecords([]byte(body))
			require.ErrorIs(t, err, entity.ErrShape)
		})
	}
}

func TestPartition_BadTypedField(t *testing.T) {
	records, err := entity.DecodeRecords([]byte(`[{"id":"l1","type":"Entity.Location","Activities":"Fishing"}]`))
	require.NoError(t, err)
	_, err = entity.Partition(records)
	require.ErrorIs(t, err, entity.ErrShape)
}

func TestParseKind(t *testing.T) {
	kind, err := entity.ParseKind("Vessel")
	require.NoError(t, err)
	require.Equal(t, entity.KindVessel, kind)

	_, err = entity.ParseKind("ports")
	require.ErrorIs(t, err, entity.ErrUnknownKind)
}
