package dispatch

import (
	"testing"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/fleet"
	"delivery-route-service/internal/routing"
)

func buildTwoRestaurantRegion(t *testing.T) (*domain.Region, domain.Location, domain.Location) {
	t.Helper()

	r1 := domain.Location{X: 0, Y: 0}
	i := domain.Location{X: 1, Y: 0}
	r2 := domain.Location{X: 2, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: r1, Kind: domain.NodeRestaurant, Connections: []domain.Location{i}}).
		AddNode(domain.Node{Location: i, Kind: domain.NodeIntersection, Connections: []domain.Location{r1, r2}}).
		AddNode(domain.Node{Location: r2, Kind: domain.NodeRestaurant, Connections: []domain.Location{i}}).
		AddEdge(r1, i, 0).
		AddEdge(i, r2, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region, r1, r2
}

func TestNewRegistryAssignsSpawnedVehiclesToTheirRestaurant(t *testing.T) {
	// build test data
	region, r1, r2 := buildTwoRestaurantRegion(t)
	m, err := fleet.NewManager(region, 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	reg, err := NewRegistry(m, SendOutPolicy{SlackTicks: 5, WeightFrac: 0.95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	d1, ok := reg.For(r1)
	if !ok {
		t.Fatal("expected a dispatcher for r1")
	}
	d2, ok := reg.For(r2)
	if !ok {
		t.Fatal("expected a dispatcher for r2")
	}
	if len(d1.vehicleOrder) != 2 || len(d2.vehicleOrder) != 2 {
		t.Fatalf("expected 2 vehicles per restaurant, got %d and %d", len(d1.vehicleOrder), len(d2.vehicleOrder))
	}
}

func TestRegistryRebalanceMovesVehicleToShortHandedRestaurant(t *testing.T) {
	// build test data
	region, r1, r2 := buildTwoRestaurantRegion(t)
	m, err := fleet.NewManager(region, 10, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg, err := NewRegistry(m, SendOutPolicy{SlackTicks: 5, WeightFrac: 0.95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d1, _ := reg.For(r1)
	d2, _ := reg.For(r2)

	// simulate 3 of r2's vehicles already being busy on a planned route
	busy := append([]*routing.Vehicle{}, d2.vehicleOrder...)
	for _, v := range busy[:3] {
		d2.plannedRoutes[v] = []RouteNode{{Node: region.Restaurants()[0]}}
	}

	// call the method under test
	if err := reg.Rebalance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if len(d1.UnusedVehicles()) != 3 {
		t.Fatalf("expected r1 to give up exactly 1 vehicle, got %d unused", len(d1.UnusedVehicles()))
	}
	if len(d2.TotalAvailableVehicles()) != 1 {
		t.Fatalf("expected r2 to have 1 vehicle queued in from r1, got %d", len(d2.TotalAvailableVehicles()))
	}
}

func TestRegistryRedirectQueuedRetargetsAMidEdgeVehicle(t *testing.T) {
	// build test data: r2 has 3 vehicles queued to arrive, r1 has none,
	// and one of r2's queued vehicles is already mid-edge on its way.
	region, r1, r2 := buildTwoRestaurantRegion(t)
	m, err := fleet.NewManager(region, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg, err := NewRegistry(m, SendOutPolicy{SlackTicks: 5, WeightFrac: 0.95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d1, _ := reg.For(r1)
	d2, _ := reg.For(r2)

	intersection := domain.Location{X: 1, Y: 0}
	restaurantOcc := routing.NewOccupiedNode(region.Restaurants()[0])
	edge, ok := region.EdgeBetween(r1, intersection)
	if !ok {
		t.Fatal("expected an edge between r1 and the intersection")
	}
	edgeOcc := routing.NewOccupiedEdge(edge)

	var queued []*routing.Vehicle
	for i := 0; i < 3; i++ {
		v := routing.NewVehicle(100+i, 10, restaurantOcc)
		if err := v.MoveQueued(d2.pc, r2, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		queued = append(queued, v)
		d2.AddQueuedVehicle(v)
	}
	routing.Transition(queued[0], edgeOcc, 0)

	// call the method under test
	if err := reg.RedirectQueued(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior: r1 picks up exactly one of r2's excess queued
	// vehicles, and the mid-edge one is redirected without reversing.
	if len(d1.TotalAvailableVehicles()) != 1 {
		t.Fatalf("expected r1 to gain 1 queued vehicle, got %d", len(d1.TotalAvailableVehicles()))
	}
	if len(d2.TotalAvailableVehicles()) != 2 {
		t.Fatalf("expected r2 to keep 2 queued vehicles, got %d", len(d2.TotalAvailableVehicles()))
	}
	redirected := d1.TotalAvailableVehicles()[0]
	if redirected != queued[0] {
		t.Fatalf("expected the mid-edge vehicle to be the one redirected")
	}
}

func TestRegistryHandleEventsReassignsSpawnedVehicle(t *testing.T) {
	// build test data
	region, r1, r2 := buildTwoRestaurantRegion(t)
	m, err := fleet.NewManager(region, 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg, err := NewRegistry(m, SendOutPolicy{SlackTicks: 5, WeightFrac: 0.95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d1, _ := reg.For(r1)
	d2, _ := reg.For(r2)
	v := d1.vehicleOrder[0]
	d1.RemoveVehicle(v)

	base := routing.NewSpawnEvent(0, v, r2)

	// call the method under test
	if err := reg.HandleEvents([]routing.Event{base}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	found := false
	for _, ov := range d2.vehicleOrder {
		if ov == v {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the vehicle to be reassigned to r2's dispatcher")
	}
}
