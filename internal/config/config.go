package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. Everything comes from the
// environment, with a .env overlay for local runs.
type Config struct {
	Port           string
	MeasuresPath   string
	BoundariesPath string
	DBPath         string
	JWTSecret      string
	WatchFiles     bool
}

// Load reads the configuration from the environment.
func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", ":8080"),
		MeasuresPath:   getEnv("MEASURES_PATH", "./data/dades_dashboard_completes.csv"),
		BoundariesPath: getEnv("BOUNDARIES_PATH", "./data/barris.geojson"),
		DBPath:         getEnv("DB_PATH", "./data/dashboard.db"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		WatchFiles:     getBoolEnv("WATCH_FILES", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
