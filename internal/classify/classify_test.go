package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stationrecon/pkg/contracts/domain"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "shelter type", NormalizeHeader("  Shelter   Type "))
	assert.Equal(t, "station id", NormalizeHeader("Station\tID"))
	assert.Equal(t, "", NormalizeHeader("   "))
}

func TestIsBooleanish(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"yes no", []string{"Yes", "No", "yes"}, true},
		{"x blank", []string{"X", "", "x"}, true},
		{"zero one", []string{"0", "1"}, true},
		{"true false", []string{"TRUE", "False"}, true},
		{"maybe breaks vocabulary", []string{"Yes", "No", "Maybe"}, false},
		{"free text", []string{"Good", "Fair"}, false},
		{"all blank", []string{"", "  "}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBooleanish(tt.values))
		})
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"Yes", "x", "X", "1", "TRUE", " yes "} {
		assert.True(t, IsTruthy(v), v)
	}
	for _, v := range []string{"No", "", "0", "false", "Maybe"} {
		assert.False(t, IsTruthy(v), v)
	}
}

func TestCoerceDate(t *testing.T) {
	got, ok := CoerceDate(time.Date(2021, 6, 3, 14, 30, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "2021-06-03", got)

	got, ok = CoerceDate("2021-06-03 14:30:00")
	assert.True(t, ok)
	assert.Equal(t, "2021-06-03", got)

	got, ok = CoerceDate("2021/06/03")
	assert.True(t, ok)
	assert.Equal(t, "2021-06-03", got)

	_, ok = CoerceDate("not a date")
	assert.False(t, ok)

	_, ok = CoerceDate("")
	assert.False(t, ok)

	_, ok = CoerceDate(nil)
	assert.False(t, ok)
}

func TestHeaderAsset(t *testing.T) {
	tests := []struct {
		header string
		canon  string
		ok     bool
	}{
		{"Cableway", domain.AssetCableway, true},
		{"  Metering   Bridge ", domain.AssetMeteringBridge, true},
		{"Bridge", domain.AssetMeteringBridge, true},
		{"Helicopter Pad", domain.AssetHelicopterPad, true},
		{"Heli Pad", domain.AssetHelicopterPad, true},
		{"Weir", domain.AssetWeir, true},
		// Exclusion tokens win over the asset vocabulary.
		{"Weir Condition", "", false},
		{"Well Status", "", false},
		{"Cableway Installed Date", "", false},
		{"Condition", "", false},
		{"Province", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			canon, ok := HeaderAsset(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.canon, canon)
		})
	}
}

func TestCategoryAsset(t *testing.T) {
	canon, ok := CategoryAsset("SHELTER TYPE")
	assert.True(t, ok)
	assert.Equal(t, domain.AssetShelter, canon)

	canon, ok = CategoryAsset("Well Type")
	assert.True(t, ok)
	assert.Equal(t, domain.AssetWell, canon)

	_, ok = CategoryAsset("Installation Type")
	assert.False(t, ok)

	_, ok = CategoryAsset("")
	assert.False(t, ok)
}

func TestIgnoredAttr(t *testing.T) {
	assert.True(t, IgnoredAttr("Start Time"))
	assert.True(t, IgnoredAttr("Completion  Time"))
	assert.False(t, IgnoredAttr("Condition"))
}

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, IsActiveStatus(""))
	assert.True(t, IsActiveStatus("ACTIVE"))
	assert.True(t, IsActiveStatus("anything else"))
	assert.False(t, IsActiveStatus("MOTHBALLED"))
	assert.False(t, IsActiveStatus(" removed "))
	assert.False(t, IsActiveStatus("Inactive"))
	assert.False(t, IsActiveStatus("Decommissioned"))
}
