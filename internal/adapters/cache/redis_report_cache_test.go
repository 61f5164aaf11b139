package cache

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"delivery-route-service/internal/simulation"
)

func TestRedisReportCacheRoundTrips(t *testing.T) {
	// build test data
	server := miniredis.RunT(t)
	c, err := NewRedisReportCache(server.Addr(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := simulation.Report{
		RegionID:  "test-region",
		Seed:      7,
		LastTick:  480,
		Delivered: 900,
		Pending:   12,
		Scores:    []simulation.RaterScore{{Criteria: "amountDelivered", Score: 0.9}},
	}

	// call the method under test
	if err := c.Set(context.Background(), "run-1", report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, found, err := c.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if !found {
		t.Fatal("expected a cache hit after Set")
	}
	if !reflect.DeepEqual(got, report) {
		t.Fatalf("expected %+v, got %+v", report, got)
	}
}

func TestRedisReportCacheMissReturnsNotFound(t *testing.T) {
	// build test data
	server := miniredis.RunT(t)
	c, err := NewRedisReportCache(server.Addr(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	_, found, err := c.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if found {
		t.Fatal("expected a cache miss")
	}
}
