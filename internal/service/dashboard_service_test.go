package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmove-bcn/mobility-backend-go/internal/dataset"
)

// fixtureStore writes n synthetic areas ("Area 01".."Area n") with trip
// volume i*100, stop count i and cluster id i%5, and returns a store over
// them.
func fixtureStore(t *testing.T, n int) *dataset.Store {
	t.Helper()
	dir := t.TempDir()

	csv := "Nom_Barri,in_total_viajes,num_paradas_tmb,presion_tmb,avg_distance_in,pagerank,cluster_kmeans\n"
	geo := `{"type": "FeatureCollection", "features": [`
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Area %02d", i)
		csv += fmt.Sprintf("%s,%d,%d,%d,%.1f,%.3f,%d\n", name, i*100, i, 100, 2.0, 0.01, i%5)

		lat := 41.30 + float64(i)*0.002
		lon := 2.10 + float64(i%10)*0.01
		if i > 1 {
			geo += ","
		}
		geo += fmt.Sprintf(`{
			"type": "Feature",
			"properties": {"n_barri": %q},
			"geometry": {"type": "Polygon", "coordinates": [[
				[%[2]f, %[3]f], [%[4]f, %[3]f], [%[4]f, %[5]f], [%[2]f, %[5]f], [%[2]f, %[3]f]
			]]}
		}`, name, lon-0.005, lat-0.005, lon+0.005, lat+0.005)
	}
	geo += `]}`

	measures := filepath.Join(dir, "measures.csv")
	boundaries := filepath.Join(dir, "boundaries.geojson")
	require.NoError(t, os.WriteFile(measures, []byte(csv), 0o644))
	require.NoError(t, os.WriteFile(boundaries, []byte(geo), 0o644))

	return dataset.NewStore(measures, boundaries)
}

func TestRankingTopNDescending(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 73))

	entries, err := svc.Ranking(20)
	require.NoError(t, err)
	require.Len(t, entries, 20)

	assert.Equal(t, "Area 73", entries[0].Name)
	assert.Equal(t, 7300.0, entries[0].TotalTrips)
	assert.Equal(t, 1, entries[0].Rank)

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].TotalTrips, entries[i].TotalTrips)
		assert.Equal(t, i+1, entries[i].Rank)
	}
}

func TestRankingClampsN(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 73))

	entries, err := svc.Ranking(0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultTopN)

	entries, err = svc.Ranking(1)
	require.NoError(t, err)
	assert.Len(t, entries, MinTopN)

	entries, err = svc.Ranking(500)
	require.NoError(t, err)
	assert.Len(t, entries, MaxTopN)
}

func TestRankingSmallDataset(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 3))

	entries, err := svc.Ranking(20)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "cannot return more rows than exist")
}

func TestScatterTrendline(t *testing.T) {
	// Volume is exactly 100x the stop count, so the fit is perfect.
	svc := NewDashboardService(fixtureStore(t, 30))

	data, err := svc.Scatter()
	require.NoError(t, err)
	require.Len(t, data.Points, 30)
	require.NotNil(t, data.Trendline)

	assert.InDelta(t, 100.0, data.Trendline.Slope, 1e-9)
	assert.InDelta(t, 0.0, data.Trendline.Intercept, 1e-6)
	assert.InDelta(t, 1.0, data.Trendline.RSquared, 1e-9)
}

func TestProfileGroupsByCluster(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 10))

	profile, err := svc.Profile()
	require.NoError(t, err)
	require.Len(t, profile, 5)

	for i, row := range profile {
		assert.Equal(t, i, row.ClusterID)
		assert.Equal(t, 2, row.RowCount, "10 areas over 5 clusters")
		assert.NotEmpty(t, row.ZoneName)
	}

	// Cluster 1 holds areas 1 and 6: mean volume (100+600)/2.
	assert.InDelta(t, 350.0, profile[1].TotalTrips, 1e-9)
	assert.InDelta(t, 100.0, profile[1].Pressure, 1e-9)
}

func TestMapDataPayload(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 5))

	payload, err := svc.MapData()
	require.NoError(t, err)

	assert.Len(t, payload.Features.Features, 5)
	assert.Equal(t, DefaultZoom, payload.Zoom)
	assert.InDelta(t, 41.3, payload.Center.Lat, 0.1)
	assert.InDelta(t, 2.1, payload.Center.Lon, 0.1)

	props := payload.Features.Features[0].Properties
	assert.NotEmpty(t, props["nom_barri"])
	assert.NotEmpty(t, props["nom_zona"])
	assert.NotEmpty(t, props["zone_color"])
}

func TestMetadataReportsQuality(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 5))

	meta, err := svc.Metadata()
	require.NoError(t, err)

	assert.Equal(t, 5, meta.RowCount)
	assert.True(t, meta.HasClusters)
	assert.Zero(t, meta.Quality.UnmatchedRows)
	assert.NotEmpty(t, meta.LoadedAt)
}

func TestZonesCatalog(t *testing.T) {
	svc := NewDashboardService(fixtureStore(t, 5))
	assert.Len(t, svc.Zones(), 5)
}
