package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationrecon/pkg/contracts/domain"
)

// hydexHeaders is the canonical column set of the asset-centric export.
var hydexHeaders = []string{
	"Station ID", "Station Name", "Category Type", "Value", "Status",
	"Date", "Note", "Province", "Office", "Technician", "Latitude", "Longitude",
}

func hydexRow(cells ...string) []string {
	row := make([]string, len(hydexHeaders))
	copy(row, cells)
	return row
}

func TestParseAssetCentricScenario(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "Saint John River", "SHELTER TYPE", "STEEL LOOK-IN", "ACTIVE"),
		hydexRow("01AD003", "Saint John River", "Installation Type", "X"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceHydex, inv.Source)
	require.Len(t, inv.Stations, 1)

	st := inv.Stations[0]
	require.Len(t, st.Assets, 1)
	assert.Equal(t, domain.AssetShelter, st.Assets[0].Type)
	assert.Equal(t, "STEEL LOOK-IN", st.Assets[0].Attributes["value"])
	assert.Equal(t, "ACTIVE", st.Assets[0].Attributes["status"])
}

func TestParseAssetCentricStatusGate(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "", "SHELTER TYPE", "WOOD", "MOTHBALLED"),
		hydexRow("01AD004", "", "SHELTER TYPE", "WOOD", ""),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 2)

	mothballed, ok := inv.StationByID("01AD003")
	require.True(t, ok)
	assert.Empty(t, mothballed.Assets)

	blank, ok := inv.StationByID("01AD004")
	require.True(t, ok)
	require.Len(t, blank.Assets, 1)
	assert.Equal(t, domain.AssetShelter, blank.Assets[0].Type)
}

func TestParseAssetCentricDuplicateCollapse(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "", "SHELTER TYPE", "WOOD", "ACTIVE", "2019-04-01"),
		hydexRow("01AD003", "", "SHELTER TYPE", "STEEL", "ACTIVE", "2022-09-15"),
		hydexRow("01AD003", "", "SHELTER TYPE", "ALUMINUM", "ACTIVE", "2020-01-01"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	st := inv.Stations[0]
	require.Len(t, st.Assets, 1)
	// Most recent date wins.
	assert.Equal(t, "STEEL", st.Assets[0].Attributes["value"])
	assert.Equal(t, "2022-09-15", st.Assets[0].Attributes["date"])
}

func TestParseAssetCentricDuplicateTieKeepsFirstRow(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "", "WELL TYPE", "DRILLED", "ACTIVE", "2021-03-03"),
		hydexRow("01AD003", "", "WELL TYPE", "DUG", "ACTIVE", "2021-03-03"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	st := inv.Stations[0]
	require.Len(t, st.Assets, 1)
	assert.Equal(t, "DRILLED", st.Assets[0].Attributes["value"])
}

func TestParseAssetCentricCoordinateMean(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "", "SHELTER TYPE", "WOOD", "ACTIVE", "", "", "NB", "", "", "45.1234561", "-66.5"),
		hydexRow("01AD003", "", "WEIR", "V-NOTCH", "ACTIVE", "", "", "NB", "", "", "45.1234567", "-66.7"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	st := inv.Stations[0]
	assert.InDelta(t, 45.123456, st.Attributes["Latitude"].(float64), 1e-9)
	assert.InDelta(t, -66.6, st.Attributes["Longitude"].(float64), 1e-9)
}

func TestParseAssetCentricCategoricalAggregation(t *testing.T) {
	rows := [][]string{
		hydexRow("01AD003", "", "SHELTER TYPE", "WOOD", "ACTIVE", "", "", "NB", "Fredericton", "R. Levesque"),
		hydexRow("01AD003", "", "WEIR", "V-NOTCH", "ACTIVE", "", "", "NB", "Moncton", "R. Levesque"),
		hydexRow("01AD003", "", "CABLEWAY", "", "ACTIVE", "", "", "NB", "Fredericton", "R. Levesque"),
	}

	// A clear majority must win regardless of row order.
	perms := [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}}
	for _, p := range perms {
		tbl := newTable(hydexHeaders, rows[p[0]], rows[p[1]], rows[p[2]])
		inv, err := ParseAssetCentric(tbl)
		require.NoError(t, err)
		st := inv.Stations[0]
		assert.Equal(t, "NB", st.Attributes["Province"])
		assert.Equal(t, "Fredericton", st.Attributes["Office"])
		assert.Equal(t, "R. Levesque", st.Attributes["Technician"])
	}
}

func TestParseAssetCentricModeTieFirstOccurrence(t *testing.T) {
	tbl := newTable(hydexHeaders,
		hydexRow("01AD003", "", "SHELTER TYPE", "WOOD", "ACTIVE", "", "", "", "Moncton"),
		hydexRow("01AD003", "", "WEIR", "V-NOTCH", "ACTIVE", "", "", "", "Fredericton"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	assert.Equal(t, "Moncton", inv.Stations[0].Attributes["Office"])
}

func TestParseAssetCentricNoCategoryColumn(t *testing.T) {
	tbl := newTable(
		[]string{"Station ID", "Value", "Status"},
		[]string{"01AD003", "WOOD", "ACTIVE"},
	)

	inv, err := ParseAssetCentric(tbl)
	assert.Nil(t, inv)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestParseAssetCentricStationWithoutAssetsKept(t *testing.T) {
	// A station whose rows map to no asset still surfaces with attributes,
	// so the missing-stations report can describe it.
	tbl := newTable(hydexHeaders,
		hydexRow("01AD009", "Green River", "Installation Type", "X", "", "", "", "NB", "Fredericton"),
	)

	inv, err := ParseAssetCentric(tbl)
	require.NoError(t, err)
	require.Len(t, inv.Stations, 1)
	st := inv.Stations[0]
	assert.Empty(t, st.Assets)
	assert.Equal(t, "NB", st.Attributes["Province"])
	require.NotNil(t, st.StationName)
	assert.Equal(t, "Green River", *st.StationName)
}
