package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "./data/dades_dashboard_completes.csv", cfg.MeasuresPath)
	assert.Equal(t, "./data/barris.geojson", cfg.BoundariesPath)
	assert.True(t, cfg.WatchFiles)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("MEASURES_PATH", "/tmp/m.csv")
	t.Setenv("WATCH_FILES", "false")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "/tmp/m.csv", cfg.MeasuresPath)
	assert.False(t, cfg.WatchFiles)
}

func TestBoolEnvFallbackOnGarbage(t *testing.T) {
	t.Setenv("WATCH_FILES", "not-a-bool")
	cfg := Load()
	assert.True(t, cfg.WatchFiles)
}
