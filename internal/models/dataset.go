package models

import (
	"time"
)

// MapCenter is the initial map position, the mean of per-area centroids.
type MapCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FallbackCenter is used when no boundary feature carries a geometry
// (approximate center of Barcelona).
var FallbackCenter = MapCenter{Lat: 41.39, Lon: 2.17}

// Quality reports what the lossy load policies swallowed. The display values
// are unaffected (failed parses still become zero); this exists so upstream
// data problems are visible instead of silently looking like empty areas.
type Quality struct {
	CoercionFailures map[string]int `json:"coercion_failures"` // column -> failed parse count
	UnmatchedRows    int            `json:"unmatched_rows"`    // boundary rows with no measures match
	EmptyGeometries  int            `json:"empty_geometries"`
}

// Dataset is the unified table produced by one pipeline run. It is immutable
// after construction and shared read-only across requests.
type Dataset struct {
	Rows   []Neighborhood `json:"rows"`
	Center MapCenter      `json:"center"`

	// HasClusters records whether the measures file carried a cluster id
	// column. When false every row's zone is the "General" label.
	HasClusters bool `json:"has_clusters"`

	LoadedAt        time.Time `json:"loaded_at"`
	MeasuresMTime   time.Time `json:"measures_mtime"`
	BoundariesMTime time.Time `json:"boundaries_mtime"`

	Quality Quality `json:"quality"`
}
