package domain

// ComparisonSummary aggregates the outcome of one comparison run.
type ComparisonSummary struct {
	StationsCompared          int `json:"stations_compared"`
	StationsWithDiscrepancies int `json:"stations_with_discrepancies"`
}

// ComparisonDetail is one station where the two sources disagree about which
// assets exist. MissingInLeft holds asset types present in the right inventory
// but absent from the left one, and vice versa.
type ComparisonDetail struct {
	StationID        string   `json:"station_id"`
	StationNameLeft  string   `json:"station_name_left"`
	StationNameRight string   `json:"station_name_right"`
	SourceLeft       Source   `json:"source_left"`
	SourceRight      Source   `json:"source_right"`
	AssetsLeft       []string `json:"assets_left"`
	AssetsRight      []string `json:"assets_right"`
	MissingInLeft    []string `json:"missing_in_left"`
	MissingInRight   []string `json:"missing_in_right"`
}

// ComparisonResult is the full asset-presence diff between two inventories.
// Only stations known to both sources participate; details are ordered
// ascending by station id and contain discrepant stations only.
type ComparisonResult struct {
	Summary ComparisonSummary  `json:"summary"`
	Details []ComparisonDetail `json:"details"`
}

// MissingStationRow describes a station that exists in the asset-centric
// source but not in the station-centric one, projected into the fixed export
// column set.
type MissingStationRow struct {
	StationID   string `json:"station_id"`
	StationName string `json:"station_name"`
	Province    string `json:"province"`
	Office      string `json:"office"`
	TechName    string `json:"tech_name"`
}
