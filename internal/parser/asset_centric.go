package parser

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"stationrecon/internal/classify"
	"stationrecon/internal/table"
	"stationrecon/pkg/contracts/domain"
)

var categoryHeaderRe = regexp.MustCompile(`\b(type|category)\b`)

// assetCandidate is one materialized asset occurrence, kept alongside the
// data needed to resolve duplicates of the same type.
type assetCandidate struct {
	attrs map[string]any
	date  string // coerced YYYY-MM-DD, "" when the row carried none
	row   int
}

// stationGroup accumulates everything seen for one station id across the
// fact rows.
type stationGroup struct {
	id     string
	name   string
	assets map[string]assetCandidate
	order  []string // asset types in first-detection order
	rows   []int
}

// ParseAssetCentric normalizes a fact-per-row workbook (category/value/
// status/date facts grouped by station) into an Inventory tagged hydex.
//
// Categories map onto the canonical asset vocabulary; rows whose status is
// mothballed/removed/inactive produce no asset. Station-level descriptive
// columns are aggregated per group: latitude/longitude as a rounded mean,
// categorical fields as the unanimous value or the mode with ties broken by
// first occurrence in row order.
func ParseAssetCentric(tbl *table.Table) (*domain.Inventory, error) {
	idCol := findStationIDColumn(tbl)
	if idCol == -1 {
		return nil, &SchemaError{Reason: "could not detect a station id column"}
	}
	nameCol := findStationNameColumn(tbl)

	catCol := -1
	for i, h := range tbl.Headers {
		if i == idCol || i == nameCol {
			continue
		}
		if categoryHeaderRe.MatchString(classify.NormalizeHeader(h)) {
			catCol = i
			break
		}
	}
	if catCol == -1 {
		return nil, &SchemaError{Reason: "could not detect a category column"}
	}

	// The value column sits immediately after the category column in every
	// known export of this shape.
	valCol := -1
	if catCol+1 < len(tbl.Headers) {
		valCol = catCol + 1
	}
	statusCol := findHeaderContaining(tbl, "status")
	dateCol := findHeaderContaining(tbl, "date")
	noteCol := findHeaderContaining(tbl, "comment", "note", "remark")

	groups := make(map[string]*stationGroup)
	var groupOrder []string
	skipped := 0

	for r := range tbl.Rows {
		sid := strings.TrimSpace(tbl.Cell(r, idCol))
		if sid == "" {
			skipped++
			continue
		}
		norm := domain.NormalizeStationID(sid)
		g, ok := groups[norm]
		if !ok {
			g = &stationGroup{id: sid, assets: map[string]assetCandidate{}}
			groups[norm] = g
			groupOrder = append(groupOrder, norm)
		}
		g.rows = append(g.rows, r)

		if nameCol != -1 && g.name == "" {
			g.name = strings.TrimSpace(tbl.Cell(r, nameCol))
		}

		canon, ok := classify.CategoryAsset(tbl.Cell(r, catCol))
		if !ok {
			// Not a station-level asset (e.g. "Installation Type"); the row
			// still feeds attribute aggregation below.
			continue
		}
		if statusCol != -1 && !classify.IsActiveStatus(tbl.Cell(r, statusCol)) {
			continue
		}

		attrs := map[string]any{}
		if valCol != -1 {
			if v := strings.TrimSpace(tbl.Cell(r, valCol)); v != "" {
				attrs["value"] = v
			}
		}
		if statusCol != -1 {
			if v := strings.TrimSpace(tbl.Cell(r, statusCol)); v != "" {
				attrs["status"] = v
			}
		}
		date := ""
		if dateCol != -1 {
			if d, ok := classify.CoerceDate(tbl.Cell(r, dateCol)); ok {
				attrs["date"] = d
				date = d
			}
		}
		if noteCol != -1 {
			if v := strings.TrimSpace(tbl.Cell(r, noteCol)); v != "" {
				attrs["note"] = v
			}
		}

		cand := assetCandidate{attrs: attrs, date: date, row: r}
		prev, exists := g.assets[canon]
		if !exists {
			g.assets[canon] = cand
			g.order = append(g.order, canon)
			continue
		}
		// One asset per type per station: the occurrence with the most
		// recent date wins, earlier row order wins ties. ISO dates compare
		// correctly as strings; a missing date loses to any date.
		if cand.date > prev.date {
			g.assets[canon] = cand
		}
	}

	attrCols := attributeColumns(tbl, []int{idCol, nameCol, catCol, valCol, statusCol, dateCol, noteCol})

	inv := domain.NewInventory(domain.SourceHydex)
	for _, norm := range groupOrder {
		g := groups[norm]
		station := domain.Station{
			StationID:  g.id,
			Attributes: aggregateAttributes(tbl, g.rows, attrCols),
			Assets:     []domain.Asset{},
		}
		if g.name != "" {
			name := g.name
			station.StationName = &name
		}
		for _, canon := range g.order {
			station.Assets = append(station.Assets, domain.Asset{
				Type:       canon,
				Attributes: g.assets[canon].attrs,
			})
		}
		inv.Stations = append(inv.Stations, station)
	}

	sortStations(inv)

	slog.Debug("parsed asset-centric table",
		slog.Int("stations", len(inv.Stations)),
		slog.Int("rows_skipped", skipped))

	return inv, nil
}

// findHeaderContaining returns the first column whose normalized header
// contains any of the tokens, -1 when none does.
func findHeaderContaining(tbl *table.Table, tokens ...string) int {
	for i, h := range tbl.Headers {
		n := classify.NormalizeHeader(h)
		for _, tok := range tokens {
			if strings.Contains(n, tok) {
				return i
			}
		}
	}
	return -1
}

// attributeColumns lists the columns that feed station-level aggregation:
// everything not already claimed by a structural role.
func attributeColumns(tbl *table.Table, claimed []int) []int {
	taken := make(map[int]bool, len(claimed))
	for _, c := range claimed {
		if c != -1 {
			taken[c] = true
		}
	}
	var cols []int
	for i := range tbl.Headers {
		if !taken[i] {
			cols = append(cols, i)
		}
	}
	return cols
}

func isLatHeader(n string) bool {
	return strings.Contains(n, "lat") && !strings.Contains(n, "plate")
}

func isLonHeader(n string) bool {
	return (strings.Contains(n, "lon") || strings.Contains(n, "lng")) &&
		!strings.Contains(n, "length")
}

// aggregateAttributes folds the group's rows into one attribute map.
// Coordinates average, everything else resolves to the unanimous value or the
// mode (first occurrence breaks ties). Date-named columns are coerced to
// calendar dates.
func aggregateAttributes(tbl *table.Table, rows []int, cols []int) map[string]any {
	attrs := map[string]any{}
	for _, col := range cols {
		norm := classify.NormalizeHeader(tbl.Headers[col])
		key := cleanHeader(tbl.Headers[col])

		if isLatHeader(norm) || isLonHeader(norm) {
			if mean, ok := meanOfColumn(tbl, rows, col); ok {
				attrs[key] = mean
			}
			continue
		}

		val, ok := dominantValue(tbl, rows, col)
		if !ok {
			continue
		}
		if strings.Contains(norm, "date") {
			if d, dok := classify.CoerceDate(val); dok {
				attrs[key] = d
				continue
			}
		}
		attrs[key] = val
	}
	return attrs
}

// meanOfColumn averages the parseable numeric values of a column across the
// group, rounded to 6 decimal places.
func meanOfColumn(tbl *table.Table, rows []int, col int) (float64, bool) {
	sum := 0.0
	n := 0
	for _, r := range rows {
		s := strings.TrimSpace(tbl.Cell(r, col))
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(sum/float64(n)*1e6) / 1e6, true
}

// dominantValue picks the group's value for a categorical column: the
// unanimous non-blank value when there is one, otherwise the most frequent
// value with ties broken by first occurrence in row order.
func dominantValue(tbl *table.Table, rows []int, col int) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		s := strings.TrimSpace(tbl.Cell(r, col))
		if s == "" {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}
