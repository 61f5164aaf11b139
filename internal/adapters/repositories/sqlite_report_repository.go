package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-route-service/internal/simulation"
)

// SQLite-backed implementation of the ReportRepository port.
type SqliteReportRepository struct{ DB *sql.DB }

func NewSqliteReportRepository(db *sql.DB) *SqliteReportRepository {
	return &SqliteReportRepository{DB: db}
}

func (s *SqliteReportRepository) SaveReport(runID string, report simulation.Report) error {
	if s.DB == nil {
		return errors.New("sqlite report repository: DB is nil")
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("save report %q: encode: %w", runID, err)
	}

	query := `INSERT OR REPLACE INTO run_reports (run_id, region_id, report, created_at) VALUES (?, ?, ?, ?);`
	if _, err := s.DB.Exec(query, runID, report.RegionID, string(raw), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save report %q: insert: %w", runID, err)
	}
	return nil
}

func (s *SqliteReportRepository) GetReport(runID string) (simulation.Report, error) {
	if s.DB == nil {
		return simulation.Report{}, errors.New("sqlite report repository: DB is nil")
	}

	var raw string
	err := s.DB.QueryRow(`SELECT report FROM run_reports WHERE run_id = ?;`, runID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return simulation.Report{}, fmt.Errorf("get report %q: not found", runID)
	}
	if err != nil {
		return simulation.Report{}, fmt.Errorf("get report %q: query: %w", runID, err)
	}

	var report simulation.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return simulation.Report{}, fmt.Errorf("get report %q: decode: %w", runID, err)
	}
	return report, nil
}
