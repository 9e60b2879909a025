package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmove-bcn/mobility-backend-go/internal/config"
	"github.com/smartmove-bcn/mobility-backend-go/internal/database"
	"github.com/smartmove-bcn/mobility-backend-go/internal/dataset"
	"github.com/smartmove-bcn/mobility-backend-go/internal/handler"
	"github.com/smartmove-bcn/mobility-backend-go/internal/repository"
	"github.com/smartmove-bcn/mobility-backend-go/internal/service"
)

const testSecret = "test-secret"

const testCSV = `Nom_Barri,in_total_viajes,num_paradas_tmb,cluster_kmeans
Gràcia,1500,30,2
Sarrià,800,20,0
la Barceloneta,4000,10,4
El Poblenou,2500,40,1
Sant Andreu,1200,22,3
`

const testGeoJSON = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "properties": {"n_barri": "Gràcia"}, "geometry": {"type": "Polygon", "coordinates": [[[2.14,41.39],[2.16,41.39],[2.16,41.41],[2.14,41.41],[2.14,41.39]]]}},
	{"type": "Feature", "properties": {"n_barri": "Sarrià"}, "geometry": {"type": "Polygon", "coordinates": [[[2.11,41.39],[2.13,41.39],[2.13,41.41],[2.11,41.41],[2.11,41.39]]]}},
	{"type": "Feature", "properties": {"n_barri": "la Barceloneta"}, "geometry": {"type": "Polygon", "coordinates": [[[2.18,41.37],[2.20,41.37],[2.20,41.39],[2.18,41.39],[2.18,41.37]]]}},
	{"type": "Feature", "properties": {"n_barri": "El Poblenou"}, "geometry": {"type": "Polygon", "coordinates": [[[2.19,41.39],[2.21,41.39],[2.21,41.41],[2.19,41.41],[2.19,41.39]]]}},
	{"type": "Feature", "properties": {"n_barri": "Sant Andreu"}, "geometry": {"type": "Polygon", "coordinates": [[[2.18,41.42],[2.20,41.42],[2.20,41.44],[2.18,41.44],[2.18,41.42]]]}}
]}`

func newTestRouter(t *testing.T, measuresContent string) *gin.Engine {
	t.Helper()
	return newTestRouterFiles(t, measuresContent, testGeoJSON)
}

func newTestRouterFiles(t *testing.T, measuresContent, boundariesContent string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	measures := filepath.Join(dir, "measures.csv")
	boundaries := filepath.Join(dir, "boundaries.geojson")
	if measuresContent != "" {
		require.NoError(t, os.WriteFile(measures, []byte(measuresContent), 0o644))
	}
	require.NoError(t, os.WriteFile(boundaries, []byte(boundariesContent), 0o644))

	db, err := database.Open(database.Config{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := dataset.NewStore(measures, boundaries)
	dashboardService := service.NewDashboardService(store)
	snapshotService := service.NewSnapshotService(repository.NewSnapshotRepository(db))

	cfg := &config.Config{JWTSecret: testSecret}
	return SetupRouter(cfg, Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Snapshots: handler.NewSnapshotHandler(snapshotService),
		Admin:     handler.NewAdminHandler(dashboardService),
	})
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, testCSV)
	w := doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapEndpoint(t *testing.T) {
	r := newTestRouter(t, testCSV)
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/map", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Features struct {
				Features []json.RawMessage `json:"features"`
			} `json:"features"`
			Center struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"center"`
			Zoom float64 `json:"zoom"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Code)
	assert.Len(t, body.Data.Features.Features, 5)
	assert.InDelta(t, 41.4, body.Data.Center.Lat, 0.1)
	assert.Equal(t, 11.5, body.Data.Zoom)
}

func TestRankingEndpoint(t *testing.T) {
	r := newTestRouter(t, testCSV)
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/ranking?n=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Entries []struct {
				Name       string  `json:"nom_barri"`
				TotalTrips float64 `json:"in_total_viajes"`
			} `json:"entries"`
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 5, body.Data.Count)
	assert.Equal(t, "la Barceloneta", body.Data.Entries[0].Name)
	assert.Equal(t, 4000.0, body.Data.Entries[0].TotalTrips)
}

func TestMissingFilesReturn503(t *testing.T) {
	r := newTestRouter(t, "") // measures file never written
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/map", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnsupportedCRSReturns503(t *testing.T) {
	geo := `{"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::3857"}},
		"features": [
			{"type": "Feature", "properties": {"n_barri": "Gràcia"}, "geometry": {"type": "Polygon", "coordinates": [[[239315,5070093],[241542,5070093],[241542,5073060],[239315,5073060],[239315,5070093]]]}}
		]}`
	r := newTestRouterFiles(t, testCSV, geo)
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/map", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminReloadRequiresToken(t *testing.T) {
	r := newTestRouter(t, testCSV)

	w := doRequest(r, http.MethodPost, "/api/v1/admin/reload", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/admin/reload", signToken(t, "wrong-secret"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/admin/reload", signToken(t, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestZonesEndpoint(t *testing.T) {
	r := newTestRouter(t, testCSV)
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/zones", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Name  string `json:"nom_zona"`
			Color string `json:"color"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 5)
}
