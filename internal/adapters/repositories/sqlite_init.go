package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRegionsQuery := `
	CREATE TABLE IF NOT EXISTS regions (
		region_id TEXT PRIMARY KEY,
		definition TEXT NOT NULL
	);
	`

	createRunReportsQuery := `
	CREATE TABLE IF NOT EXISTS run_reports (
		run_id TEXT PRIMARY KEY,
		region_id TEXT NOT NULL,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_run_reports_region_id
	ON run_reports(region_id);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	createDistanceIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createRegionsQuery,
		createRunReportsQuery,
		createIndexQuery,
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createDistanceIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// RegionSeed is the on-disk JSON shape a region definition is seeded from.
type RegionSeed struct {
	RegionID   string `json:"region_id"`
	Definition any    `json:"definition"`
}

// SeedRegionFromJSON loads a single region definition from jsonPath and
// stores it, replacing any existing definition under the same id.
func SeedRegionFromJSON(db *sql.DB, jsonPath string) (string, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", fmt.Errorf("seed region: read %q: %w", jsonPath, err)
	}

	var seed RegionSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return "", fmt.Errorf("seed region: parse json: %w", err)
	}
	if seed.RegionID == "" {
		return "", fmt.Errorf("seed region: region_id is required")
	}

	definition, err := json.Marshal(seed.Definition)
	if err != nil {
		return "", fmt.Errorf("seed region: re-encode definition: %w", err)
	}

	query := `INSERT OR REPLACE INTO regions (region_id, definition) VALUES (?, ?);`
	if _, err := db.Exec(query, seed.RegionID, string(definition)); err != nil {
		return "", fmt.Errorf("seed region: insert %q: %w", seed.RegionID, err)
	}

	return seed.RegionID, nil
}
