// Package parser converts the two heterogeneous spreadsheet shapes into the
// canonical inventory model. Heuristics live in column detection and the
// classify vocabulary; row-level anomalies are absorbed locally so one bad
// row never sinks a parse.
package parser

import (
	"log/slog"
	"sort"
	"strings"

	"stationrecon/internal/classify"
	"stationrecon/internal/table"
	"stationrecon/pkg/contracts/domain"
)

// assetFlagColumn is a column classified as an asset presence flag.
type assetFlagColumn struct {
	index int
	canon string
}

// ParseStationCentric normalizes a station-per-row workbook into an Inventory
// tagged asset_inventory.
//
// A column becomes an asset flag only when its header matches the asset
// vocabulary AND its values are boolean-ish; a single stray value ("Maybe")
// demotes the whole column back to an attribute. Rows without a station id
// are skipped. The only fatal condition is failing to find a station id
// column.
func ParseStationCentric(tbl *table.Table) (*domain.Inventory, error) {
	idCol := findStationIDColumn(tbl)
	if idCol == -1 {
		return nil, &SchemaError{Reason: "could not detect a station id column"}
	}
	nameCol := findStationNameColumn(tbl)

	var flagCols []assetFlagColumn
	attrCols := make(map[int]bool)
	for i, h := range tbl.Headers {
		if i == idCol || i == nameCol {
			continue
		}
		if canon, ok := classify.HeaderAsset(h); ok && classify.IsBooleanish(tbl.Column(i)) {
			flagCols = append(flagCols, assetFlagColumn{index: i, canon: canon})
			continue
		}
		if classify.IgnoredAttr(h) {
			continue
		}
		attrCols[i] = true
	}

	inv := domain.NewInventory(domain.SourceAssetInventory)
	seen := make(map[string]bool)
	skipped := 0

	for r := range tbl.Rows {
		sid := strings.TrimSpace(tbl.Cell(r, idCol))
		if sid == "" {
			skipped++
			continue
		}
		norm := domain.NormalizeStationID(sid)
		if seen[norm] {
			// First row wins; duplicates would break id uniqueness.
			skipped++
			continue
		}
		seen[norm] = true

		station := domain.Station{
			StationID:  sid,
			Attributes: map[string]any{},
			Assets:     []domain.Asset{},
		}
		if nameCol != -1 {
			if name := strings.TrimSpace(tbl.Cell(r, nameCol)); name != "" {
				station.StationName = &name
			}
		}

		assetSeen := make(map[string]bool)
		for _, fc := range flagCols {
			if !classify.IsTruthy(tbl.Cell(r, fc.index)) {
				continue
			}
			if assetSeen[fc.canon] {
				continue
			}
			assetSeen[fc.canon] = true
			station.Assets = append(station.Assets, domain.Asset{
				Type:       fc.canon,
				Attributes: map[string]any{},
			})
		}

		for i := range attrCols {
			val := strings.TrimSpace(tbl.Cell(r, i))
			if val == "" {
				continue
			}
			key := cleanHeader(tbl.Headers[i])
			if coerced, ok := classify.CoerceDate(val); ok {
				station.Attributes[key] = coerced
			} else {
				station.Attributes[key] = val
			}
		}

		inv.Stations = append(inv.Stations, station)
	}

	sortStations(inv)

	slog.Debug("parsed station-centric table",
		slog.Int("stations", len(inv.Stations)),
		slog.Int("asset_flag_columns", len(flagCols)),
		slog.Int("rows_skipped", skipped))

	return inv, nil
}

// sortStations orders inventory stations ascending by normalized id.
func sortStations(inv *domain.Inventory) {
	sort.SliceStable(inv.Stations, func(i, j int) bool {
		return domain.NormalizeStationID(inv.Stations[i].StationID) <
			domain.NormalizeStationID(inv.Stations[j].StationID)
	})
}
