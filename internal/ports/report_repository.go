package ports

import "delivery-route-service/internal/simulation"

// Contract for persisting and retrieving completed run reports.
type ReportRepository interface {
	// SaveReport persists report under runID, tied to its region.
	SaveReport(runID string, report simulation.Report) error
	// GetReport returns the report stored under runID.
	GetReport(runID string) (simulation.Report, error)
}
