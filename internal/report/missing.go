// Package report builds the missing-stations view: stations the asset-centric
// source knows about that the station-centric source does not.
package report

import (
	"fmt"
	"sort"
	"strings"

	"stationrecon/pkg/contracts/domain"
)

// ExportHeaders is the fixed column order of the missing-stations artifact.
var ExportHeaders = []string{"Station ID", "Station Name", "Province", "Office", "Tech Name"}

// MissingStations lists stations present in the asset-centric inventory and
// absent from the station-centric one, ascending by station id. Descriptive
// fields are projected from the asset-centric station's attributes and left
// blank when absent.
func MissingStations(stationCentric, assetCentric *domain.Inventory) []domain.MissingStationRow {
	known := make(map[string]struct{}, len(stationCentric.Stations))
	for i := range stationCentric.Stations {
		known[domain.NormalizeStationID(stationCentric.Stations[i].StationID)] = struct{}{}
	}

	rows := []domain.MissingStationRow{}
	for i := range assetCentric.Stations {
		st := &assetCentric.Stations[i]
		if _, ok := known[domain.NormalizeStationID(st.StationID)]; ok {
			continue
		}
		row := domain.MissingStationRow{
			StationID: st.StationID,
			Province:  attrLike(st.Attributes, "province", "prov"),
			Office:    attrLike(st.Attributes, "office"),
			TechName:  techName(st.Attributes),
		}
		if st.StationName != nil {
			row.StationName = *st.StationName
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return domain.NormalizeStationID(rows[i].StationID) <
			domain.NormalizeStationID(rows[j].StationID)
	})
	return rows
}

// RowCells projects a row into the ExportHeaders column order.
func RowCells(row domain.MissingStationRow) []string {
	return []string{row.StationID, row.StationName, row.Province, row.Office, row.TechName}
}

// attrLike returns the first attribute whose key contains any of the tokens,
// case-insensitively. Attribute keys drift across exports, so matching is
// fuzzy by design.
func attrLike(attrs map[string]any, tokens ...string) string {
	for _, tok := range tokens {
		var keys []string
		for k := range attrs {
			if strings.Contains(strings.ToLower(k), tok) {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		sort.Strings(keys) // deterministic across map iteration order
		return fmt.Sprint(attrs[keys[0]])
	}
	return ""
}

// techName assembles the technician's name. Explicit first/last name columns
// win; otherwise any technician-ish field is used as-is.
func techName(attrs map[string]any) string {
	first := attrLike(attrs, "first name", "firstname", "given name")
	last := attrLike(attrs, "last name", "lastname", "surname", "family name")
	if first != "" || last != "" {
		return strings.TrimSpace(strings.Join(nonEmpty(first, last), " "))
	}
	return attrLike(attrs, "technician", "tech name", "tech", "contact name", "name")
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
