package routing

import (
	"testing"

	"delivery-route-service/internal/domain"
)

func buildLinearRegion(t *testing.T) (*domain.Region, domain.Location, domain.Location, domain.Location) {
	t.Helper()

	a := domain.Location{X: 0, Y: 0}
	b := domain.Location{X: 1, Y: 0}
	c := domain.Location{X: 2, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: a, Kind: domain.NodeRestaurant, Connections: []domain.Location{b}}).
		AddNode(domain.Node{Location: b, Kind: domain.NodeIntersection, Connections: []domain.Location{a, c}}).
		AddNode(domain.Node{Location: c, Kind: domain.NodeNeighborhood, Connections: []domain.Location{b}}).
		AddEdge(a, b, 0).
		AddEdge(b, c, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region, a, b, c
}

// buildBranchingRegion extends the linear a-b-c region with a fourth node
// d past c, so a path replanned from b can be distinguished from the
// single-hop far-endpoint insertion itself.
func buildBranchingRegion(t *testing.T) (*domain.Region, domain.Location, domain.Location, domain.Location, domain.Location) {
	t.Helper()

	a := domain.Location{X: 0, Y: 0}
	b := domain.Location{X: 1, Y: 0}
	c := domain.Location{X: 2, Y: 0}
	d := domain.Location{X: 3, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: a, Kind: domain.NodeRestaurant, Connections: []domain.Location{b}}).
		AddNode(domain.Node{Location: b, Kind: domain.NodeIntersection, Connections: []domain.Location{a, c}}).
		AddNode(domain.Node{Location: c, Kind: domain.NodeIntersection, Connections: []domain.Location{b, d}}).
		AddNode(domain.Node{Location: d, Kind: domain.NodeNeighborhood, Connections: []domain.Location{c}}).
		AddEdge(a, b, 0).
		AddEdge(b, c, 0).
		AddEdge(c, d, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region, a, b, c, d
}

func buildOccupancy(region *domain.Region) map[domain.Location]*Occupied {
	occ := make(map[domain.Location]*Occupied, len(region.Nodes()))
	for _, n := range region.Nodes() {
		occ[n.Location] = NewOccupiedNode(n)
	}
	return occ
}

func TestVehicleMoveTraversesNodeThenEdge(t *testing.T) {
	// build test data
	region, a, b, c := buildLinearRegion(t)
	nodeOccupied := buildOccupancy(region)
	edgeOccupied := make(map[domain.Edge]*Occupied)
	for _, e := range region.Edges() {
		edgeOccupied[e] = NewOccupiedEdge(e)
	}

	edgeOf := func(x, y domain.Location) (domain.Edge, bool) { return region.EdgeBetween(x, y) }
	nodeOcc := func(loc domain.Location) (*Occupied, bool) { o, ok := nodeOccupied[loc]; return o, ok }
	edgeOcc := func(x, y domain.Location) (*Occupied, bool) {
		e, ok := region.EdgeBetween(x, y)
		if !ok {
			return nil, false
		}
		o, ok := edgeOccupied[e]
		return o, ok
	}

	vehicle := NewVehicle(1, 10, nodeOccupied[a])
	nodeOccupied[a].addVehicle(vehicle, 0, nil)

	pc := NewPathCalculator(region)
	if err := vehicle.MoveQueued(pc, c, nil); err != nil {
		t.Fatalf("unexpected error queuing move: %v", err)
	}

	// call the method under test: node->edge, then edge->node, twice over
	for i := 0; i < 4; i++ {
		if _, err := vehicle.Move(int64(i), edgeOf, nodeOcc, edgeOcc); err != nil {
			t.Fatalf("unexpected error on step %d: %v", i, err)
		}
	}

	// verify behavior
	if !vehicle.Occupied().IsNode() || vehicle.Occupied().Node().Location != c {
		t.Fatalf("expected vehicle at %v, got occupied=%+v", c, vehicle.Occupied())
	}
	_ = b
}

func TestVehicleMoveDirectMidEdgeInsertsFarEndpointFirst(t *testing.T) {
	// build test data: a fourth node d hangs off c, so redirecting the
	// vehicle from the a-b edge toward d produces a multi-node replanned
	// path and not just the far endpoint by itself.
	region, a, b, c, d := buildBranchingRegion(t)
	nodeOccupied := buildOccupancy(region)
	edgeOccupied := make(map[domain.Edge]*Occupied)
	for _, e := range region.Edges() {
		edgeOccupied[e] = NewOccupiedEdge(e)
	}

	edgeOf := func(x, y domain.Location) (domain.Edge, bool) { return region.EdgeBetween(x, y) }
	nodeOcc := func(loc domain.Location) (*Occupied, bool) { o, ok := nodeOccupied[loc]; return o, ok }
	edgeOcc := func(x, y domain.Location) (*Occupied, bool) {
		e, ok := region.EdgeBetween(x, y)
		if !ok {
			return nil, false
		}
		o, ok := edgeOccupied[e]
		return o, ok
	}

	vehicle := NewVehicle(1, 10, nodeOccupied[a])
	nodeOccupied[a].addVehicle(vehicle, 0, nil)

	pc := NewPathCalculator(region)
	if err := vehicle.MoveQueued(pc, c, nil); err != nil {
		t.Fatalf("unexpected error queuing move: %v", err)
	}

	// one step: node a -> edge a-b. The vehicle is now mid-edge, with a as
	// its recorded previous node.
	if _, err := vehicle.Move(0, edgeOf, nodeOcc, edgeOcc); err != nil {
		t.Fatalf("unexpected error entering edge: %v", err)
	}
	if !vehicle.Occupied().IsEdge() {
		t.Fatalf("expected vehicle to be mid-edge, got occupied=%+v", vehicle.Occupied())
	}

	// call the method under test: redirect toward d (past c) while
	// mid-edge on a-b. It must not reverse onto the edge it is already
	// crossing.
	if err := vehicle.MoveDirect(pc, d, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior: the far endpoint (b, opposite the previous node a)
	// is inserted first, and the replanned path to d starts from there.
	if len(vehicle.moveQueue) != 2 {
		t.Fatalf("expected two queued paths, got %d", len(vehicle.moveQueue))
	}
	far := vehicle.moveQueue[0]
	if len(far.Nodes) != 1 || far.Nodes[0] != b {
		t.Fatalf("expected a one-hop path to %v first, got %+v", b, far.Nodes)
	}
	replanned := vehicle.moveQueue[1]
	want := pc.Path(b, d)
	if len(replanned.Nodes) != len(want) {
		t.Fatalf("expected the replanned path to match Path(%v, %v)=%+v, got %+v", b, d, want, replanned.Nodes)
	}
	for i := range want {
		if replanned.Nodes[i] != want[i] {
			t.Fatalf("expected the replanned path to match Path(%v, %v)=%+v, got %+v", b, d, want, replanned.Nodes)
		}
	}
	if replanned.Nodes[len(replanned.Nodes)-1] != d {
		t.Fatalf("expected the replanned path to end at %v, got %+v", d, replanned.Nodes)
	}
}

func TestVehicleLoadOrderRejectsOverCapacity(t *testing.T) {
	// build test data
	region, a, _, _ := buildLinearRegion(t)
	restaurant := NewOccupiedNode(region.Nodes()[0])
	vehicle := NewVehicle(1, 1, restaurant)
	restaurant.addVehicle(vehicle, 0, nil)
	order := &domain.ConfirmedOrder{ID: 1, Weight: 2}

	// call the method under test
	_, err := restaurant.LoadOrder(vehicle, order, 0)

	// verify behavior
	if err == nil {
		t.Fatal("expected capacity error")
	}
	_ = a
}

func TestOccupiedLoadOrderEmitsOrderReceivedOnlyOnce(t *testing.T) {
	// build test data
	region, _, _, _ := buildLinearRegion(t)
	restaurant := NewOccupiedNode(region.Nodes()[0])
	v1 := NewVehicle(1, 10, restaurant)
	v2 := NewVehicle(2, 10, restaurant)
	restaurant.addVehicle(v1, 0, nil)
	restaurant.addVehicle(v2, 0, nil)
	order := &domain.ConfirmedOrder{ID: 1, Weight: 1}

	// call the method under test
	ev1, err := restaurant.LoadOrder(v1, order, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev2, err := restaurant.LoadOrder(v2, order, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if ev1 == nil {
		t.Fatal("expected OrderReceivedEvent on first load")
	}
	if ev2 != nil {
		t.Fatal("expected no event on second load of the same order")
	}
}
