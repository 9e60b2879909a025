package models

import "time"

// ScatterPoint is one dot of the supply-vs-demand scatter.
type ScatterPoint struct {
	Name       string  `json:"nom_barri"`
	Stops      float64 `json:"num_paradas_tmb"`
	TotalTrips float64 `json:"in_total_viajes"`
	ZoneName   string  `json:"nom_zona"`
}

// Trendline is the overall least-squares fit drawn across the scatter.
type Trendline struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// ScatterData is the scatter tab read model.
type ScatterData struct {
	Points    []ScatterPoint `json:"points"`
	Trendline *Trendline     `json:"trendline,omitempty"`
}

// RankingEntry is one bar of the top-N ranking, highest volume first.
type RankingEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"nom_barri"`
	TotalTrips float64 `json:"in_total_viajes"`
	ZoneName   string  `json:"nom_zona"`
	Highlight  string  `json:"highlight,omitempty"`
}

// RankingFilter binds the ranking query parameters.
type RankingFilter struct {
	N int `form:"n"`
}

// ClusterProfileRow is the per-cluster mean of the technical columns,
// the "identification" table of the ranking tab.
type ClusterProfileRow struct {
	ClusterID     int     `json:"cluster_kmeans"`
	ZoneName      string  `json:"nom_zona"`
	RowCount      int     `json:"row_count"`
	TotalTrips    float64 `json:"in_total_viajes"`
	AvgDistanceKm float64 `json:"avg_distance_in"`
	PageRank      float64 `json:"pagerank"`
	Pressure      float64 `json:"presion_tmb"`
}

// SnapshotMeta describes one persisted pipeline run.
type SnapshotMeta struct {
	ID              int64     `json:"id"`
	LoadedAt        time.Time `json:"loaded_at"`
	MeasuresMTime   time.Time `json:"measures_mtime"`
	BoundariesMTime time.Time `json:"boundaries_mtime"`
	RowCount        int       `json:"row_count"`
	UnmatchedRows   int       `json:"unmatched_rows"`
	EmptyGeometries int       `json:"empty_geometries"`
}

// SnapshotRow is one persisted table row of a snapshot, without geometry.
type SnapshotRow struct {
	Name          string  `json:"nom_barri"`
	TotalTrips    float64 `json:"in_total_viajes"`
	Stops         float64 `json:"num_paradas_tmb"`
	Pressure      float64 `json:"presion_tmb"`
	AvgDistanceKm float64 `json:"avg_distance_in"`
	PageRank      float64 `json:"pagerank"`
	Entropy       float64 `json:"entropy_in"`
	ClusterID     int     `json:"cluster_kmeans"`
	ZoneName      string  `json:"nom_zona"`
	DistCenterKm  float64 `json:"dist_centre_km"`
}
