package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"delivery-route-service/internal/simulation"
)

const reportCacheKeyPrefix = "run_report:"
const reportCacheTTL = 30 * time.Minute

// RedisReportCache fronts a ReportRepository with a short-lived cache, so
// repeated lookups of a just-finished run's report don't hit SQLite.
type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(addr, password string) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis report cache: connect: %w", err)
	}

	return &RedisReportCache{client: client}, nil
}

func reportCacheKey(runID string) string {
	return reportCacheKeyPrefix + runID
}

// Get returns the cached report for runID, or (Report{}, false, nil) on a
// cache miss.
func (c *RedisReportCache) Get(ctx context.Context, runID string) (simulation.Report, bool, error) {
	data, err := c.client.Get(ctx, reportCacheKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return simulation.Report{}, false, nil
	}
	if err != nil {
		return simulation.Report{}, false, fmt.Errorf("redis report cache: get %q: %w", runID, err)
	}

	var report simulation.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return simulation.Report{}, false, fmt.Errorf("redis report cache: decode %q: %w", runID, err)
	}
	return report, true, nil
}

// Set caches report under runID for reportCacheTTL.
func (c *RedisReportCache) Set(ctx context.Context, runID string, report simulation.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis report cache: encode %q: %w", runID, err)
	}
	if err := c.client.Set(ctx, reportCacheKey(runID), data, reportCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis report cache: set %q: %w", runID, err)
	}
	return nil
}
