package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationrecon/internal/table"
	"stationrecon/pkg/contracts/domain"
)

func newTable(headers []string, rows ...[]string) *table.Table {
	return &table.Table{Headers: headers, Rows: rows}
}

func TestParseStationCentricScenario(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Cableway", "Weir", "Condition"},
		[]string{"08NA005", "X", "", "Good"},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceAssetInventory, inv.Source)
	require.Len(t, inv.Stations, 1)

	st := inv.Stations[0]
	assert.Equal(t, "08NA005", st.StationID)
	require.Len(t, st.Assets, 1)
	assert.Equal(t, domain.AssetCableway, st.Assets[0].Type)
	assert.Equal(t, map[string]any{"Condition": "Good"}, st.Attributes)
}

func TestParseStationCentricBooleanishGate(t *testing.T) {
	// "Maybe" breaks the boolean vocabulary, so Weir is demoted to an
	// attribute column for every row.
	tbl := newTable(
		[]string{"Station ID", "Weir"},
		[]string{"A1", "Yes"},
		[]string{"A2", "No"},
		[]string{"A3", "Maybe"},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 3)
	for _, st := range inv.Stations {
		assert.Empty(t, st.Assets, st.StationID)
	}
	assert.Equal(t, "Yes", inv.Stations[0].Attributes["Weir"])
}

func TestParseStationCentricNoIDColumn(t *testing.T) {
	tbl := newTable(
		[]string{"Description", "Remarks"},
		[]string{"a long free text description", "more free text here"},
	)

	inv, err := ParseStationCentric(tbl)
	assert.Nil(t, inv)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestParseStationCentricSkipsBlankIDs(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Cableway"},
		[]string{"", "X"},
		[]string{"08NA005", "X"},
		[]string{"   ", "X"},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 1)
	assert.Equal(t, "08NA005", inv.Stations[0].StationID)
}

func TestParseStationCentricIgnoreListAndDates(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Start Time", "Last Visit Date"},
		[]string{"08NA005", "2023-01-01 09:00:00", "2023-05-01 14:30:00"},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	st := inv.Stations[0]
	_, hasStart := st.Attributes["Start Time"]
	assert.False(t, hasStart)
	assert.Equal(t, "2023-05-01", st.Attributes["Last Visit Date"])
}

func TestParseStationCentricStationName(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Station Name", "Shelter"},
		[]string{"01AD003", "Saint John River", "Yes"},
		[]string{"01AD004", "", "No"},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 2)
	require.NotNil(t, inv.Stations[0].StationName)
	assert.Equal(t, "Saint John River", *inv.Stations[0].StationName)
	assert.Nil(t, inv.Stations[1].StationName)
}

func TestParseStationCentricDuplicateIDFirstWins(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Cableway"},
		[]string{"08NA005", "X"},
		[]string{"08na005", ""},
	)

	inv, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 1)
	assert.Len(t, inv.Stations[0].Assets, 1)
}

func TestParseStationCentricIdempotent(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Station Name", "Cableway", "Weir", "Condition"},
		[]string{"08NB012", "Nechako River", "Yes", "No", "Fair"},
		[]string{"08NA005", "Fraser River", "X", "X", "Good"},
	)

	first, err := ParseStationCentric(tbl)
	require.NoError(t, err)
	second, err := ParseStationCentric(tbl)
	require.NoError(t, err)

	assert.Equal(t, first.Stations, second.Stations)
	// Stations come out ordered by id regardless of input row order.
	assert.Equal(t, "08NA005", first.Stations[0].StationID)
	assert.Equal(t, "08NB012", first.Stations[1].StationID)
}
