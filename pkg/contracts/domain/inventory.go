package domain

import (
	"strings"
	"time"
)

// Source identifies which spreadsheet export an Inventory was normalized from.
type Source string

const (
	// SourceAssetInventory is the station-centric export (one row per station,
	// asset presence encoded as flag columns).
	SourceAssetInventory Source = "asset_inventory"

	// SourceHydex is the asset-centric export (one row per category/value/status
	// fact, grouped by station).
	SourceHydex Source = "hydex"
)

// Valid reports whether s is one of the two known source tags.
func (s Source) Valid() bool {
	return s == SourceAssetInventory || s == SourceHydex
}

// Canonical asset type names. Both parsers map their heterogeneous inputs
// onto this fixed vocabulary so inventories from either source are comparable.
const (
	AssetCableway       = "Cableway"
	AssetWeir           = "Weir"
	AssetWell           = "Well"
	AssetMeteringBridge = "Metering Bridge"
	AssetShelter        = "Shelter"
	AssetHelicopterPad  = "Helicopter Pad"
	AssetFlume          = "Flume"
)

// Asset is a single physical installation at a station (e.g. a cableway).
// Attributes may be empty for flag-derived assets.
type Asset struct {
	Type       string         `json:"type" validate:"required"`
	Attributes map[string]any `json:"attributes"`
}

// Station is one monitoring station with its descriptive attributes and the
// assets detected at it. A Station owns at most one Asset per canonical type.
type Station struct {
	StationID   string         `json:"station_id" validate:"required"`
	StationName *string        `json:"station_name"`
	Attributes  map[string]any `json:"attributes"`
	Assets      []Asset        `json:"assets"`
}

// AssetTypes returns the de-duplicated asset type names at the station in
// their detection order.
func (s *Station) AssetTypes() []string {
	seen := make(map[string]struct{}, len(s.Assets))
	types := make([]string, 0, len(s.Assets))
	for _, a := range s.Assets {
		if _, ok := seen[a.Type]; ok {
			continue
		}
		seen[a.Type] = struct{}{}
		types = append(types, a.Type)
	}
	return types
}

// Inventory is the canonical per-source collection of stations produced by one
// parse pass. It is replaced wholesale on every upload; station ids are unique
// within it when compared case-insensitively.
type Inventory struct {
	Source      Source    `json:"source" validate:"required,oneof=asset_inventory hydex"`
	GeneratedAt time.Time `json:"generated_at"`
	Stations    []Station `json:"stations"`
}

// NewInventory creates an empty Inventory stamped with the current UTC time.
func NewInventory(source Source) *Inventory {
	return &Inventory{
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Stations:    []Station{},
	}
}

// StationByID looks up a station by case-insensitive id match.
func (inv *Inventory) StationByID(id string) (*Station, bool) {
	want := NormalizeStationID(id)
	for i := range inv.Stations {
		if NormalizeStationID(inv.Stations[i].StationID) == want {
			return &inv.Stations[i], true
		}
	}
	return nil, false
}

// NormalizeStationID trims and upper-cases a station id for comparison.
// Display code keeps the original casing; all matching goes through here.
func NormalizeStationID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
