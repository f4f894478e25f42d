// Package compare computes per-station asset-presence differences between two
// normalized inventories.
package compare

import (
	"sort"
	"strings"

	"stationrecon/pkg/contracts/domain"
)

// stationView is one inventory's take on a station, keyed case-insensitively.
type stationView struct {
	name   string
	assets map[string]string // normalized type -> display type
}

// Compare diffs asset presence between two inventories. Only stations known
// to both sources participate: a station present in one inventory only is
// neither counted nor reported (the missing-stations report answers that
// question). Details contain discrepant stations only, ascending by id.
func Compare(left, right *domain.Inventory) *domain.ComparisonResult {
	l := index(left)
	r := index(right)

	var shared []string
	for id := range l {
		if _, ok := r[id]; ok {
			shared = append(shared, id)
		}
	}
	sort.Strings(shared)

	result := &domain.ComparisonResult{
		Summary: domain.ComparisonSummary{StationsCompared: len(shared)},
		Details: []domain.ComparisonDetail{},
	}

	for _, id := range shared {
		lv, rv := l[id], r[id]
		missingInLeft := difference(rv.assets, lv.assets)
		missingInRight := difference(lv.assets, rv.assets)
		if len(missingInLeft) == 0 && len(missingInRight) == 0 {
			continue
		}
		result.Details = append(result.Details, domain.ComparisonDetail{
			StationID:        id,
			StationNameLeft:  lv.name,
			StationNameRight: rv.name,
			SourceLeft:       left.Source,
			SourceRight:      right.Source,
			AssetsLeft:       sortedTypes(lv.assets),
			AssetsRight:      sortedTypes(rv.assets),
			MissingInLeft:    missingInLeft,
			MissingInRight:   missingInRight,
		})
	}
	result.Summary.StationsWithDiscrepancies = len(result.Details)

	return result
}

func index(inv *domain.Inventory) map[string]stationView {
	views := make(map[string]stationView, len(inv.Stations))
	for i := range inv.Stations {
		st := &inv.Stations[i]
		v := stationView{assets: make(map[string]string, len(st.Assets))}
		if st.StationName != nil {
			v.name = *st.StationName
		}
		for _, a := range st.Assets {
			v.assets[strings.ToLower(a.Type)] = a.Type
		}
		views[domain.NormalizeStationID(st.StationID)] = v
	}
	return views
}

// difference returns the display names of asset types in a but not in b,
// sorted ascending.
func difference(a, b map[string]string) []string {
	out := []string{}
	for k, display := range a {
		if _, ok := b[k]; !ok {
			out = append(out, display)
		}
	}
	sort.Strings(out)
	return out
}

func sortedTypes(assets map[string]string) []string {
	out := make([]string, 0, len(assets))
	for _, display := range assets {
		out = append(out, display)
	}
	sort.Strings(out)
	return out
}
