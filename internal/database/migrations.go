package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. The schema ships with the binary
// so a fresh database bootstraps without external files.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_load_snapshots",
		SQL: `
			CREATE TABLE IF NOT EXISTS load_snapshots (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				loaded_at TIMESTAMP NOT NULL,
				measures_mtime TIMESTAMP NOT NULL,
				boundaries_mtime TIMESTAMP NOT NULL,
				row_count INTEGER NOT NULL,
				unmatched_rows INTEGER NOT NULL DEFAULT 0,
				empty_geometries INTEGER NOT NULL DEFAULT 0,
				coercion_failures TEXT NOT NULL DEFAULT '{}'
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_snapshot_rows",
		SQL: `
			CREATE TABLE IF NOT EXISTS snapshot_rows (
				snapshot_id INTEGER NOT NULL REFERENCES load_snapshots(id) ON DELETE CASCADE,
				nom_barri TEXT NOT NULL,
				join_key TEXT NOT NULL,
				in_total_viajes REAL NOT NULL DEFAULT 0,
				num_paradas_tmb REAL NOT NULL DEFAULT 0,
				presion_tmb REAL NOT NULL DEFAULT 0,
				avg_distance_in REAL NOT NULL DEFAULT 0,
				pagerank REAL NOT NULL DEFAULT 0,
				entropy_in REAL NOT NULL DEFAULT 0,
				viajes_residentes REAL NOT NULL DEFAULT 0,
				viajes_turistas REAL NOT NULL DEFAULT 0,
				cluster_id INTEGER NOT NULL DEFAULT -1,
				nom_zona TEXT NOT NULL,
				dist_centre_km REAL NOT NULL DEFAULT 0,
				centroid_lat REAL NOT NULL DEFAULT 0,
				centroid_lon REAL NOT NULL DEFAULT 0,
				highlight TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_snapshot_rows_snapshot
				ON snapshot_rows(snapshot_id)
		`,
	},
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// applyMigration applies a single migration inside a transaction
func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)",
		migration.Version, migration.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	return nil
}

// RunMigrations applies all pending schema migrations
func RunMigrations(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return err
		}
	}

	return nil
}
