package simulation

import (
	"context"
	"testing"

	"delivery-route-service/internal/dispatch"
	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/generator"
)

func buildSimulationRegion(t *testing.T) *domain.Region {
	t.Helper()

	r := domain.Location{X: 0, Y: 0}
	i := domain.Location{X: 1, Y: 0}
	n := domain.Location{X: 2, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: r, Kind: domain.NodeRestaurant, Connections: []domain.Location{i}, Menu: []string{"pizza"}}).
		AddNode(domain.Node{Location: i, Kind: domain.NodeIntersection, Connections: []domain.Location{r, n}}).
		AddNode(domain.Node{Location: n, Kind: domain.NodeNeighborhood, Connections: []domain.Location{i}}).
		AddEdge(r, i, 1).
		AddEdge(i, n, 1).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region
}

func testOptions() Options {
	return Options{
		RegionID:              "test-region",
		VehicleCapacity:       10,
		VehiclesPerRestaurant: 2,
		SendOutPolicy:         dispatch.SendOutPolicy{SlackTicks: 5, WeightFrac: 0.95},
		RebalanceEnabled:      true,
		Generator: generator.FridayOrderGeneratorOptions{
			OrderCount:        20,
			DeliveryInterval:  15,
			MaxWeight:         1,
			StandardDeviation: 0.2,
		},
		Seed:     1,
		LastTick: 60,

		AmountDeliveredFactor: 0.5,
		InTimeMaxTicksOff:     25,
		InTimeIgnoredTicksOff: 5,
		TravelDistanceFactor:  0.5,
	}
}

func TestRunnerProducesAScoredReport(t *testing.T) {
	// build test data
	region := buildSimulationRegion(t)
	runner, err := New(context.Background(), region, testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if len(report.Scores) != 3 {
		t.Fatalf("expected 3 rater scores, got %d", len(report.Scores))
	}
	for _, s := range report.Scores {
		if s.Score < 0 || s.Score > 1 {
			t.Fatalf("rater %s: expected score in [0,1], got %v", s.Criteria, s.Score)
		}
	}
	if report.Delivered+report.Pending == 0 {
		t.Fatal("expected the run to have generated at least one order")
	}
}

func TestRunnerIsDeterministicForAFixedSeed(t *testing.T) {
	// build test data
	region := buildSimulationRegion(t)
	opts := testOptions()

	runnerA, err := New(context.Background(), region, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runnerB, err := New(context.Background(), region, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	reportA, err := runnerA.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reportB, err := runnerB.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if reportA.Delivered != reportB.Delivered || reportA.Pending != reportB.Pending {
		t.Fatalf("expected identical outcomes for the same seed, got %+v vs %+v", reportA, reportB)
	}
	for i := range reportA.Scores {
		if reportA.Scores[i] != reportB.Scores[i] {
			t.Fatalf("expected identical scores for the same seed, got %+v vs %+v", reportA.Scores[i], reportB.Scores[i])
		}
	}
}
