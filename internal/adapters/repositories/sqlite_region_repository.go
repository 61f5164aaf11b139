package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/ports"
)

// SQLite-backed implementation of the RegionRepository port.
type SqliteRegionRepository struct{ DB *sql.DB }

func NewSqliteRegionRepository(db *sql.DB) *SqliteRegionRepository {
	return &SqliteRegionRepository{DB: db}
}

func (s *SqliteRegionRepository) ListRegions() ([]ports.StoredRegion, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite region repository: DB is nil")
	}

	rows, err := s.DB.Query(`SELECT region_id, definition FROM regions ORDER BY region_id;`)
	if err != nil {
		return nil, fmt.Errorf("list regions: query regions table: %w", err)
	}
	defer rows.Close()

	var out []ports.StoredRegion
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("list regions: scan row: %w", err)
		}

		region, err := decodeRegion(raw)
		if err != nil {
			return nil, fmt.Errorf("list regions: decode %q: %w", id, err)
		}
		out = append(out, ports.StoredRegion{RegionID: id, Region: region})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list regions: row iteration: %w", err)
	}

	return out, nil
}

func (s *SqliteRegionRepository) GetRegion(id string) (*domain.Region, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite region repository: DB is nil")
	}

	var raw string
	err := s.DB.QueryRow(`SELECT definition FROM regions WHERE region_id = ?;`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get region %q: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get region %q: query: %w", id, err)
	}

	region, err := decodeRegion(raw)
	if err != nil {
		return nil, fmt.Errorf("get region %q: decode: %w", id, err)
	}
	return region, nil
}

// SaveRegion stores def under id, replacing any existing definition.
func (s *SqliteRegionRepository) SaveRegion(id string, def RegionDefinition) error {
	if s.DB == nil {
		return errors.New("sqlite region repository: DB is nil")
	}

	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("save region %q: encode: %w", id, err)
	}

	query := `INSERT OR REPLACE INTO regions (region_id, definition) VALUES (?, ?);`
	if _, err := s.DB.Exec(query, id, string(raw)); err != nil {
		return fmt.Errorf("save region %q: insert: %w", id, err)
	}
	return nil
}

func decodeRegion(raw string) (*domain.Region, error) {
	var def RegionDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return def.Build()
}
