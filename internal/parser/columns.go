package parser

import (
	"regexp"
	"strings"

	"stationrecon/internal/classify"
	"stationrecon/internal/table"
)

// preferredIDHeaders are matched verbatim against normalized headers before
// any fuzzier rule runs.
var preferredIDHeaders = map[string]bool{
	"station id":     true,
	"station_id":     true,
	"stationid":      true,
	"station number": true,
	"station":        true,
	"station code":   true,
	"site id":        true,
	"site code":      true,
	"nhs id":         true,
	"id":             true,
}

var idLikeValueRe = regexp.MustCompile(`^[A-Za-z0-9\-_/]+$`)

// findStationIDColumn locates the column keying each row to a station.
// Header vocabulary first, then a value-shape heuristic: mostly short
// alphanumeric codes with a plausible uniqueness ratio. Returns -1 when no
// column qualifies.
func findStationIDColumn(tbl *table.Table) int {
	for i, h := range tbl.Headers {
		n := classify.NormalizeHeader(h)
		if preferredIDHeaders[n] {
			return i
		}
		if strings.Contains(n, "station") && (strings.Contains(n, "id") || strings.Contains(n, "number")) {
			return i
		}
	}
	for i := range tbl.Headers {
		if idLikeValues(tbl.Column(i)) {
			return i
		}
	}
	return -1
}

// idLikeValues applies the shape heuristic used when no header matches:
// at least 90% of non-blank values are plain codes, and the column is
// neither near-constant nor per-row unique free text.
func idLikeValues(values []string) bool {
	nonBlank := 0
	matching := 0
	distinct := make(map[string]struct{})
	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" {
			continue
		}
		nonBlank++
		if idLikeValueRe.MatchString(s) {
			matching++
		}
		distinct[s] = struct{}{}
	}
	if nonBlank == 0 {
		return false
	}
	if float64(matching)/float64(nonBlank) < 0.9 {
		return false
	}
	uniqueRatio := float64(len(distinct)) / float64(nonBlank)
	return uniqueRatio > 0.05 && uniqueRatio < 0.9
}

// findStationNameColumn locates the optional display-name column; -1 when
// absent.
func findStationNameColumn(tbl *table.Table) int {
	for i, h := range tbl.Headers {
		n := classify.NormalizeHeader(h)
		switch n {
		case "station name", "name", "site name":
			return i
		}
		if strings.Contains(n, "station") && strings.Contains(n, "name") {
			return i
		}
	}
	return -1
}

// cleanHeader collapses internal whitespace and trims, preserving case.
// Attribute keys are stored under this form of the source header.
func cleanHeader(h string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(h), " "))
}
