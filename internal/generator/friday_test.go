package generator

import (
	"testing"

	"delivery-route-service/internal/domain"
)

func buildGeneratorRegion(t *testing.T) *domain.Region {
	t.Helper()
	r := domain.Location{X: 0, Y: 0}
	n := domain.Location{X: 1, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: r, Kind: domain.NodeRestaurant, Connections: []domain.Location{n}, Menu: []string{"pizza", "salad"}}).
		AddNode(domain.Node{Location: n, Kind: domain.NodeNeighborhood, Connections: []domain.Location{r}}).
		AddEdge(r, n, 1).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region
}

func TestFridayOrderGeneratorProducesRequestedCount(t *testing.T) {
	region := buildGeneratorRegion(t)
	opts := DefaultFridayOrderGeneratorOptions()
	opts.OrderCount = 200
	opts.Seed = 42

	gen, err := NewFridayOrderGenerator(region, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var total int
	for tick := int64(0); tick <= opts.LastTick; tick++ {
		orders, err := gen.GenerateOrders(tick)
		if err != nil {
			t.Fatalf("unexpected error at tick %d: %v", tick, err)
		}
		total += len(orders)
	}

	if total != opts.OrderCount {
		t.Fatalf("expected %d orders across the run, got %d", opts.OrderCount, total)
	}
}

func TestFridayOrderGeneratorIsDeterministicForAFixedSeed(t *testing.T) {
	region := buildGeneratorRegion(t)
	opts := DefaultFridayOrderGeneratorOptions()
	opts.OrderCount = 50
	opts.Seed = 7

	genA, err := NewFridayOrderGenerator(region, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	genB, err := NewFridayOrderGenerator(region, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for tick := int64(0); tick <= opts.LastTick; tick++ {
		a, _ := genA.GenerateOrders(tick)
		b, _ := genB.GenerateOrders(tick)
		if len(a) != len(b) {
			t.Fatalf("tick %d: expected identical order counts for the same seed, got %d vs %d", tick, len(a), len(b))
		}
		for i := range a {
			if a[i].RestaurantLocation != b[i].RestaurantLocation || a[i].TargetLocation != b[i].TargetLocation || a[i].Weight != b[i].Weight {
				t.Fatalf("tick %d order %d: expected identical orders for the same seed", tick, i)
			}
		}
	}
}

func TestFridayOrderGeneratorRejectsNegativeTick(t *testing.T) {
	region := buildGeneratorRegion(t)
	gen, err := NewFridayOrderGenerator(region, DefaultFridayOrderGeneratorOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := gen.GenerateOrders(-1); err == nil {
		t.Fatalf("expected an error for a negative tick")
	}
}
