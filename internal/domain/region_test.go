package domain

import "testing"

func TestRegionBuilderBuildsBidirectionalEdges(t *testing.T) {
	// build test data
	a := Location{X: 0, Y: 0}
	b := Location{X: 1, Y: 0}

	region, err := NewRegionBuilder(ManhattanDistance).
		AddNode(Node{Location: a, Name: "A", Kind: NodeRestaurant, Connections: []Location{b}}).
		AddNode(Node{Location: b, Name: "B", Kind: NodeNeighborhood, Connections: []Location{a}}).
		AddEdge(a, b, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	edgeAB, ok := region.EdgeBetween(a, b)
	if !ok {
		t.Fatalf("expected edge between %v and %v", a, b)
	}
	edgeBA, ok := region.EdgeBetween(b, a)
	if !ok {
		t.Fatalf("expected edge lookup to be order-insensitive")
	}

	// verify behavior
	if edgeAB != edgeBA {
		t.Fatalf("edge lookup returned different edges depending on argument order")
	}
	if edgeAB.NodeA != a || edgeAB.NodeB != b {
		t.Fatalf("edge endpoints not stored in ascending order: %+v", edgeAB)
	}
	if edgeAB.Duration != 1 {
		t.Fatalf("duration = %d, want 1 (manhattan distance)", edgeAB.Duration)
	}
}

func TestRegionBuilderRejectsUndeclaredConnection(t *testing.T) {
	// build test data
	a := Location{X: 0, Y: 0}
	b := Location{X: 5, Y: 5}

	// call the method under test
	_, err := NewRegionBuilder(nil).
		AddNode(Node{Location: a, Connections: []Location{b}}).
		AddNode(Node{Location: b}).
		Build()

	// verify behavior
	if err == nil {
		t.Fatal("expected an error for a connection with no corresponding edge")
	}
}

func TestRegionNodesAndEdgesAreSorted(t *testing.T) {
	// build test data
	locs := []Location{{X: 3, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	b := NewRegionBuilder(ManhattanDistance)
	for _, l := range locs {
		b.AddNode(Node{Location: l})
	}
	b.AddEdge(locs[0], locs[1], 0)
	b.AddEdge(locs[1], locs[2], 0)
	region, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// call the method under test
	nodes := region.Nodes()

	// verify behavior
	for i := 1; i < len(nodes); i++ {
		if !nodes[i-1].Location.Less(nodes[i].Location) {
			t.Fatalf("nodes not sorted ascending: %v before %v", nodes[i-1].Location, nodes[i].Location)
		}
	}
}
