// Package classify holds the shared classification tables and predicates used
// by both spreadsheet parsers: header normalization, boolean-ish column
// detection, date coercion and the canonical asset vocabulary. Keeping these
// table-driven means the vocabulary can grow without touching parser control
// flow.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"stationrecon/pkg/contracts/domain"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader trims, case-folds and collapses internal whitespace so that
// "  Shelter   Type " and "shelter type" match the same vocabulary entry.
func NormalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " ")))
}

// Boolean encodings accepted for asset flag columns. Anything outside this
// vocabulary disqualifies the whole column from being a flag.
var booleanVocab = map[string]bool{
	"yes": true, "no": true,
	"x": true,
	"0": true, "1": true,
	"true": true, "false": true,
}

var truthyVocab = map[string]bool{
	"yes": true, "x": true, "1": true, "true": true,
}

// IsBooleanish reports whether every non-blank value in the column belongs to
// the fixed boolean vocabulary (Yes/No, X/blank, 0/1, True/False). A column
// with no non-blank values at all is not boolean-ish.
func IsBooleanish(values []string) bool {
	nonBlank := 0
	for _, v := range values {
		s := strings.ToLower(strings.TrimSpace(v))
		if s == "" {
			continue
		}
		nonBlank++
		if !booleanVocab[s] {
			return false
		}
	}
	return nonBlank > 0
}

// IsTruthy reports whether a single cell value marks an asset as present.
func IsTruthy(v string) bool {
	return truthyVocab[strings.ToLower(strings.TrimSpace(v))]
}

// dateLayouts are tried in order by CoerceDate. Time-of-day components are
// parsed and then discarded.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"1/2/2006",
	"02-Jan-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var digitRe = regexp.MustCompile(`\d`)

// CoerceDate converts a date, datetime or date-like string into calendar-date
// form ("YYYY-MM-DD"), dropping any time-of-day component. The second return
// is false when the value does not look like a date; callers treat that as
// "no date" rather than an error.
func CoerceDate(v any) (string, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02"), true
	case *time.Time:
		if t == nil {
			return "", false
		}
		return t.Format("2006-01-02"), true
	case nil:
		return "", false
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" || !digitRe.MatchString(s) {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// assetHeaderPatterns maps station-centric column headers onto canonical asset
// types. Order matters: "metering bridge" must win before the bare "bridge"
// fallback.
var assetHeaderPatterns = []struct {
	re    *regexp.Regexp
	canon string
}{
	{regexp.MustCompile(`\bcableway\b`), domain.AssetCableway},
	{regexp.MustCompile(`\bweir\b`), domain.AssetWeir},
	{regexp.MustCompile(`\bwell\b`), domain.AssetWell},
	{regexp.MustCompile(`\bmetering\s*bridge\b`), domain.AssetMeteringBridge},
	{regexp.MustCompile(`\bbridge\b`), domain.AssetMeteringBridge},
	{regexp.MustCompile(`\bheli(copter)?\s*pad\b`), domain.AssetHelicopterPad},
	{regexp.MustCompile(`\bshelter\b`), domain.AssetShelter},
	{regexp.MustCompile(`\bflume\b`), domain.AssetFlume},
}

// Headers containing these tokens never become asset flags, even when their
// values look boolean-ish ("Weir Condition", "Well Status", ...).
var assetHeaderExclusions = []string{
	"condition", "status", "service", "functional",
	"id", "identifier", "material", "owner", "region",
	"date", "installed", "comment", "note",
}

// HeaderAsset maps a station-centric column header onto a canonical asset
// type. Headers carrying an exclusion token are never assets.
func HeaderAsset(header string) (string, bool) {
	s := NormalizeHeader(header)
	for _, tok := range assetHeaderExclusions {
		if strings.Contains(s, tok) {
			return "", false
		}
	}
	for _, p := range assetHeaderPatterns {
		if p.re.MatchString(s) {
			return p.canon, true
		}
	}
	return "", false
}

// categoryTokens maps asset-centric category labels onto canonical asset
// types. Substring match against the normalized category; labels not listed
// here (e.g. "Installation Type") carry no asset meaning.
var categoryTokens = []struct {
	token string
	canon string
}{
	{"shelter type", domain.AssetShelter},
	{"well type", domain.AssetWell},
	{"cableway", domain.AssetCableway},
	{"weir", domain.AssetWeir},
	{"metering bridge", domain.AssetMeteringBridge},
	{"bridge", domain.AssetMeteringBridge},
	{"helicopter pad", domain.AssetHelicopterPad},
	{"heli pad", domain.AssetHelicopterPad},
	{"flume", domain.AssetFlume},
}

// CategoryAsset maps an asset-centric category label onto a canonical asset
// type.
func CategoryAsset(category string) (string, bool) {
	s := NormalizeHeader(category)
	if s == "" {
		return "", false
	}
	for _, c := range categoryTokens {
		if strings.Contains(s, c.token) {
			return c.canon, true
		}
	}
	return "", false
}

// ignoredAttrTokens are noisy bookkeeping columns dropped from station
// attributes regardless of source.
var ignoredAttrTokens = []string{"start time", "completion time"}

// IgnoredAttr reports whether a column should be dropped entirely instead of
// stored as a station attribute.
func IgnoredAttr(header string) bool {
	s := NormalizeHeader(header)
	for _, tok := range ignoredAttrTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// inactiveStatuses suppress asset materialization in the asset-centric
// source. Anything else, blank included, counts as active.
var inactiveStatuses = map[string]bool{
	"mothballed":     true,
	"removed":        true,
	"inactive":       true,
	"decommissioned": true,
}

// IsActiveStatus reports whether a status value still counts the asset as
// present. Blank statuses are active by default.
func IsActiveStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return true
	}
	return !inactiveStatuses[s]
}
