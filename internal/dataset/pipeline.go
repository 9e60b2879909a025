package dataset

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
	"github.com/smartmove-bcn/mobility-backend-go/internal/spatial"
	"github.com/smartmove-bcn/mobility-backend-go/internal/stats"
	"github.com/smartmove-bcn/mobility-backend-go/internal/zones"
)

// highlightPercentile marks the top decile: rows whose trip volume or stop
// count exceeds this percentile of their distribution get a text label.
const highlightPercentile = 90.0

// Pipeline builds the unified dashboard table from the two input files.
type Pipeline struct {
	MeasuresPath   string
	BoundariesPath string
}

// Run executes the full preparation: existence check, load both files, left
// join on the normalized name, zone labeling, map center, derived fields.
// Any failure is terminal for the render cycle; no partial table is returned.
func (p *Pipeline) Run() (*models.Dataset, error) {
	mInfo, err := os.Stat(p.MeasuresPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFiles, p.MeasuresPath)
	}
	bInfo, err := os.Stat(p.BoundariesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFiles, p.BoundariesPath)
	}

	measures, err := loadMeasures(p.MeasuresPath)
	if err != nil {
		return nil, err
	}

	boundaries, err := loadBoundaries(p.BoundariesPath)
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Rows:            make([]models.Neighborhood, 0, len(boundaries)),
		HasClusters:     measures.hasClusters,
		LoadedAt:        time.Now().UTC(),
		MeasuresMTime:   mInfo.ModTime().UTC(),
		BoundariesMTime: bInfo.ModTime().UTC(),
		Quality: models.Quality{
			CoercionFailures: measures.coercionFailures,
		},
	}

	// Left join: every boundary feature survives; unmatched rows keep
	// all-zero measures by policy.
	for _, bf := range boundaries {
		row := models.Neighborhood{
			Name:        bf.Name,
			JoinKey:     bf.JoinKey,
			ClusterID:   -1,
			Geometry:    bf.Geometry,
			CentroidLat: bf.Centroid.Lat,
			CentroidLon: bf.Centroid.Lon,
		}

		if m, ok := measures.byKey[bf.JoinKey]; ok {
			row.Matched = true
			row.TotalTrips = m.Values["in_total_viajes"]
			row.Stops = m.Values["num_paradas_tmb"]
			row.Pressure = m.Values["presion_tmb"]
			row.AvgDistanceKm = m.Values["avg_distance_in"]
			row.PageRank = m.Values["pagerank"]
			row.Entropy = m.Values["entropy_in"]
			row.ResidentTrips = m.Values["viajes_residentes"]
			row.TouristTrips = m.Values["viajes_turistas"]
			row.ClusterID = m.Cluster
		} else {
			ds.Quality.UnmatchedRows++
		}

		if measures.hasClusters {
			row.ZoneName = zones.Name(row.ClusterID)
		} else {
			row.ZoneName = zones.Default
		}

		if bf.Empty {
			ds.Quality.EmptyGeometries++
		}

		ds.Rows = append(ds.Rows, row)
	}

	if measures.hasClusters {
		// Stable sort keeps the boundary-file order within each zone.
		sort.SliceStable(ds.Rows, func(i, j int) bool {
			return ds.Rows[i].ClusterID < ds.Rows[j].ClusterID
		})
	}

	ds.Center = mapCenter(boundaries)

	for i := range ds.Rows {
		row := &ds.Rows[i]
		if row.Geometry == nil {
			continue
		}
		row.DistCenterKm = spatial.HaversineDistanceKm(
			ds.Center.Lat, ds.Center.Lon,
			row.CentroidLat, row.CentroidLon,
		)
	}

	applyHighlights(ds.Rows)

	return ds, nil
}

// mapCenter is the mean of per-feature centroids, with the Barcelona
// fallback when no feature carries a geometry.
func mapCenter(boundaries []boundaryFeature) models.MapCenter {
	var centroids []spatial.Point
	for _, bf := range boundaries {
		if bf.Empty {
			continue
		}
		centroids = append(centroids, bf.Centroid)
	}

	if len(centroids) == 0 {
		return models.FallbackCenter
	}

	c := spatial.Centroid(centroids)
	return models.MapCenter{Lat: c.Lat, Lon: c.Lon}
}

// applyHighlights labels rows in the top decile of trip volume or stop count.
func applyHighlights(rows []models.Neighborhood) {
	if len(rows) == 0 {
		return
	}

	trips := make([]float64, len(rows))
	stops := make([]float64, len(rows))
	for i, r := range rows {
		trips[i] = r.TotalTrips
		stops[i] = r.Stops
	}

	tripsP90 := stats.Percentile(trips, highlightPercentile)
	stopsP90 := stats.Percentile(stops, highlightPercentile)

	for i := range rows {
		if rows[i].TotalTrips > tripsP90 || rows[i].Stops > stopsP90 {
			rows[i].Highlight = rows[i].Name
		}
	}
}
