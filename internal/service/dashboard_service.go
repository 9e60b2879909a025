package service

import (
	"sort"

	"github.com/paulmach/orb/geojson"

	"github.com/smartmove-bcn/mobility-backend-go/internal/dataset"
	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
	"github.com/smartmove-bcn/mobility-backend-go/internal/stats"
	"github.com/smartmove-bcn/mobility-backend-go/internal/zones"
)

// Ranking bounds come from the original dashboard slider.
const (
	DefaultTopN = 20
	MinTopN     = 5
	MaxTopN     = 50

	// DefaultZoom is the initial map zoom level for the city extent.
	DefaultZoom = 11.5
)

// DashboardService builds the read models served to the dashboard frontend.
// All methods operate on the store's immutable cached dataset.
type DashboardService struct {
	store *dataset.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *dataset.Store) *DashboardService {
	return &DashboardService{store: store}
}

// MapPayload is the choropleth read model: the unified table as GeoJSON plus
// the initial camera position.
type MapPayload struct {
	Features *geojson.FeatureCollection `json:"features"`
	Center   models.MapCenter           `json:"center"`
	Zoom     float64                    `json:"zoom"`
}

// MapData returns the choropleth payload. Rows without geometry are kept in
// the table endpoints but have nothing to draw, so they are omitted here.
func (s *DashboardService) MapData() (*MapPayload, error) {
	ds, err := s.store.Dataset()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, row := range ds.Rows {
		if row.Geometry == nil {
			continue
		}
		f := geojson.NewFeature(row.Geometry)
		f.Properties = geojson.Properties{
			"nom_barri":       row.Name,
			"in_total_viajes": row.TotalTrips,
			"num_paradas_tmb": row.Stops,
			"presion_tmb":     row.Pressure,
			"avg_distance_in": row.AvgDistanceKm,
			"pagerank":        row.PageRank,
			"nom_zona":        row.ZoneName,
			"zone_color":      zones.Color(row.ZoneName),
			"dist_centre_km":  row.DistCenterKm,
		}
		if row.Highlight != "" {
			f.Properties["highlight"] = row.Highlight
		}
		fc.Append(f)
	}

	return &MapPayload{
		Features: fc,
		Center:   ds.Center,
		Zoom:     DefaultZoom,
	}, nil
}

// Scatter returns the supply-vs-demand points with an overall least-squares
// trendline, matching the efficiency tab.
func (s *DashboardService) Scatter() (*models.ScatterData, error) {
	ds, err := s.store.Dataset()
	if err != nil {
		return nil, err
	}

	out := &models.ScatterData{
		Points: make([]models.ScatterPoint, 0, len(ds.Rows)),
	}

	xs := make([]float64, 0, len(ds.Rows))
	ys := make([]float64, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		out.Points = append(out.Points, models.ScatterPoint{
			Name:       row.Name,
			Stops:      row.Stops,
			TotalTrips: row.TotalTrips,
			ZoneName:   row.ZoneName,
		})
		xs = append(xs, row.Stops)
		ys = append(ys, row.TotalTrips)
	}

	if len(xs) >= 2 {
		slope, intercept := stats.LinearRegression(xs, ys)
		out.Trendline = &models.Trendline{
			Slope:     slope,
			Intercept: intercept,
			RSquared:  stats.RSquared(xs, ys),
		}
	}

	return out, nil
}

// Ranking returns the top-N areas by trip volume, highest first. n is
// clamped to the slider bounds; n<=0 selects the default.
func (s *DashboardService) Ranking(n int) ([]models.RankingEntry, error) {
	ds, err := s.store.Dataset()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = DefaultTopN
	}
	if n < MinTopN {
		n = MinTopN
	}
	if n > MaxTopN {
		n = MaxTopN
	}
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}

	ranked := make([]models.Neighborhood, len(ds.Rows))
	copy(ranked, ds.Rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalTrips > ranked[j].TotalTrips
	})

	out := make([]models.RankingEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.RankingEntry{
			Rank:       i + 1,
			Name:       ranked[i].Name,
			TotalTrips: ranked[i].TotalTrips,
			ZoneName:   ranked[i].ZoneName,
			Highlight:  ranked[i].Highlight,
		})
	}

	return out, nil
}

// Profile returns the per-cluster mean of the technical columns, restricted
// to catalog clusters, ordered by cluster id.
func (s *DashboardService) Profile() ([]models.ClusterProfileRow, error) {
	ds, err := s.store.Dataset()
	if err != nil {
		return nil, err
	}

	if !ds.HasClusters {
		return []models.ClusterProfileRow{}, nil
	}

	groups := make(map[int][]models.Neighborhood)
	for _, row := range ds.Rows {
		if !zones.Known(row.ClusterID) {
			continue
		}
		groups[row.ClusterID] = append(groups[row.ClusterID], row)
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]models.ClusterProfileRow, 0, len(ids))
	for _, id := range ids {
		rows := groups[id]
		trips := make([]float64, len(rows))
		dist := make([]float64, len(rows))
		pr := make([]float64, len(rows))
		pressure := make([]float64, len(rows))
		for i, r := range rows {
			trips[i] = r.TotalTrips
			dist[i] = r.AvgDistanceKm
			pr[i] = r.PageRank
			pressure[i] = r.Pressure
		}

		out = append(out, models.ClusterProfileRow{
			ClusterID:     id,
			ZoneName:      zones.Name(id),
			RowCount:      len(rows),
			TotalTrips:    stats.Mean(trips),
			AvgDistanceKm: stats.Mean(dist),
			PageRank:      stats.Mean(pr),
			Pressure:      stats.Mean(pressure),
		})
	}

	return out, nil
}

// Meta describes the current load cycle and its quality report.
type Meta struct {
	LoadedAt        string           `json:"loaded_at"`
	MeasuresMTime   string           `json:"measures_mtime"`
	BoundariesMTime string           `json:"boundaries_mtime"`
	RowCount        int              `json:"row_count"`
	HasClusters     bool             `json:"has_clusters"`
	Center          models.MapCenter `json:"center"`
	Quality         models.Quality   `json:"quality"`
}

// Metadata reports the current load cycle.
func (s *DashboardService) Metadata() (*Meta, error) {
	ds, err := s.store.Dataset()
	if err != nil {
		return nil, err
	}

	return &Meta{
		LoadedAt:        ds.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
		MeasuresMTime:   ds.MeasuresMTime.Format("2006-01-02T15:04:05Z07:00"),
		BoundariesMTime: ds.BoundariesMTime.Format("2006-01-02T15:04:05Z07:00"),
		RowCount:        len(ds.Rows),
		HasClusters:     ds.HasClusters,
		Center:          ds.Center,
		Quality:         ds.Quality,
	}, nil
}

// Zones returns the legend catalog.
func (s *DashboardService) Zones() []zones.Zone {
	return zones.All()
}

// Reload forces a full pipeline re-run, bypassing the cache.
func (s *DashboardService) Reload() (*Meta, error) {
	if _, err := s.store.Reload(); err != nil {
		return nil, err
	}
	return s.Metadata()
}
