package cache

import (
	"context"
	"log"

	"delivery-route-service/internal/ports"
	"delivery-route-service/internal/simulation"
)

// CachedReportRepository fronts a ReportRepository with a RedisReportCache.
// Reads check the cache first and fall back to the underlying repository on
// a miss; writes go to both so a run's report is warm the moment it's saved.
// A cache error never fails the request, it just forgoes the speedup.
type CachedReportRepository struct {
	Repo  ports.ReportRepository
	Cache *RedisReportCache
}

func (c *CachedReportRepository) SaveReport(runID string, report simulation.Report) error {
	if err := c.Repo.SaveReport(runID, report); err != nil {
		return err
	}
	if err := c.Cache.Set(context.Background(), runID, report); err != nil {
		log.Printf("report cache: set %q: %v", runID, err)
	}
	return nil
}

func (c *CachedReportRepository) GetReport(runID string) (simulation.Report, error) {
	ctx := context.Background()
	if report, ok, err := c.Cache.Get(ctx, runID); err != nil {
		log.Printf("report cache: get %q: %v", runID, err)
	} else if ok {
		return report, nil
	}

	report, err := c.Repo.GetReport(runID)
	if err != nil {
		return simulation.Report{}, err
	}
	if err := c.Cache.Set(ctx, runID, report); err != nil {
		log.Printf("report cache: set %q: %v", runID, err)
	}
	return report, nil
}
