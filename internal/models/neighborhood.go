package models

import (
	"github.com/paulmach/orb"
)

// Neighborhood is one row of the unified dashboard table: a boundary feature
// joined to its mobility measures. Field names follow the upstream dataset
// columns so the frontend keeps its existing data dictionary.
type Neighborhood struct {
	Name    string `json:"nom_barri"`
	JoinKey string `json:"-"`

	TotalTrips    float64 `json:"in_total_viajes"`  // Demand: people arriving in the area
	Stops         float64 `json:"num_paradas_tmb"`  // Transit stops (supply)
	Pressure      float64 `json:"presion_tmb"`      // Trips per stop (saturation proxy)
	AvgDistanceKm float64 `json:"avg_distance_in"`  // Mean trip distance of incoming users
	PageRank      float64 `json:"pagerank"`         // Network importance
	Entropy       float64 `json:"entropy_in"`       // Diversity of trip origins
	ResidentTrips float64 `json:"viajes_residentes"`
	TouristTrips  float64 `json:"viajes_turistas"`

	// ClusterID comes from the upstream clustering step; -1 when the value
	// could not be parsed, and it is meaningless when Dataset.HasClusters is
	// false.
	ClusterID int    `json:"cluster_kmeans"`
	ZoneName  string `json:"nom_zona"`

	// Highlight carries the area name for top-decile rows (by trips or by
	// stops) and is empty otherwise. Chart layers use it for text labels.
	Highlight string `json:"highlight,omitempty"`

	// DistCenterKm is the haversine distance from the dataset map center to
	// this area's centroid.
	DistCenterKm float64 `json:"dist_centre_km"`

	Geometry    orb.Geometry `json:"-"`
	CentroidLat float64      `json:"centroid_lat"`
	CentroidLon float64      `json:"centroid_lon"`
	// Matched is false for boundary rows that found no measures row; their
	// numeric fields are all zero by policy.
	Matched bool `json:"-"`
}

// MeasureColumns is the fixed list of numeric columns expected in the
// measures file. Values that fail conversion, and columns that are absent
// entirely, become zero.
var MeasureColumns = []string{
	"in_total_viajes",
	"num_paradas_tmb",
	"presion_tmb",
	"avg_distance_in",
	"pagerank",
	"entropy_in",
	"viajes_residentes",
	"viajes_turistas",
}

// ClusterColumn is the measures-file column holding the upstream cluster id.
const ClusterColumn = "cluster_kmeans"
