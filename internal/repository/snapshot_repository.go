package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
)

// SnapshotRepository persists one record per successful pipeline run plus the
// resulting table rows, giving the service a queryable load history.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save persists a prepared dataset and returns the snapshot id.
func (r *SnapshotRepository) Save(ds *models.Dataset) (int64, error) {
	failures, err := json.Marshal(ds.Quality.CoercionFailures)
	if err != nil {
		return 0, fmt.Errorf("failed to encode quality report: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO load_snapshots
		(loaded_at, measures_mtime, boundaries_mtime, row_count,
		 unmatched_rows, empty_geometries, coercion_failures)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.LoadedAt, ds.MeasuresMTime, ds.BoundariesMTime, len(ds.Rows),
		ds.Quality.UnmatchedRows, ds.Quality.EmptyGeometries, string(failures),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO snapshot_rows
		(snapshot_id, nom_barri, join_key,
		 in_total_viajes, num_paradas_tmb, presion_tmb, avg_distance_in,
		 pagerank, entropy_in, viajes_residentes, viajes_turistas,
		 cluster_id, nom_zona, dist_centre_km, centroid_lat, centroid_lon, highlight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range ds.Rows {
		if _, err := stmt.Exec(
			id, row.Name, row.JoinKey,
			row.TotalTrips, row.Stops, row.Pressure, row.AvgDistanceKm,
			row.PageRank, row.Entropy, row.ResidentTrips, row.TouristTrips,
			row.ClusterID, row.ZoneName, row.DistCenterKm,
			row.CentroidLat, row.CentroidLon, row.Highlight,
		); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return id, nil
}

// List returns snapshot metadata, newest first.
func (r *SnapshotRepository) List(limit int) ([]models.SnapshotMeta, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT id, loaded_at, measures_mtime, boundaries_mtime,
		row_count, unmatched_rows, empty_geometries
		FROM load_snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.SnapshotMeta
	for rows.Next() {
		var m models.SnapshotMeta
		if err := rows.Scan(&m.ID, &m.LoadedAt, &m.MeasuresMTime, &m.BoundariesMTime,
			&m.RowCount, &m.UnmatchedRows, &m.EmptyGeometries); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// Rows returns the persisted table rows of one snapshot, in stored order.
func (r *SnapshotRepository) Rows(snapshotID int64) ([]models.SnapshotRow, error) {
	rows, err := r.db.Query(`SELECT nom_barri, in_total_viajes, num_paradas_tmb,
		presion_tmb, avg_distance_in, pagerank, entropy_in,
		cluster_id, nom_zona, dist_centre_km
		FROM snapshot_rows WHERE snapshot_id = ? ORDER BY rowid`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()

	var out []models.SnapshotRow
	for rows.Next() {
		var sr models.SnapshotRow
		if err := rows.Scan(&sr.Name, &sr.TotalTrips, &sr.Stops,
			&sr.Pressure, &sr.AvgDistanceKm, &sr.PageRank, &sr.Entropy,
			&sr.ClusterID, &sr.ZoneName, &sr.DistCenterKm); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		out = append(out, sr)
	}

	return out, rows.Err()
}

// Latest returns the newest snapshot metadata, or sql.ErrNoRows when the
// history is empty.
func (r *SnapshotRepository) Latest() (models.SnapshotMeta, error) {
	var m models.SnapshotMeta
	err := r.db.QueryRow(`SELECT id, loaded_at, measures_mtime, boundaries_mtime,
		row_count, unmatched_rows, empty_geometries
		FROM load_snapshots ORDER BY id DESC LIMIT 1`).
		Scan(&m.ID, &m.LoadedAt, &m.MeasuresMTime, &m.BoundariesMTime,
			&m.RowCount, &m.UnmatchedRows, &m.EmptyGeometries)
	if err != nil {
		return models.SnapshotMeta{}, err
	}
	return m, nil
}
