package domain

import (
	"fmt"
	"slices"
)

// NodeKind tags the variant a Node plays in the region graph. Go has no
// node subclassing, so Restaurant/Neighborhood/Intersection are carried as
// a tag plus the fields each kind actually uses, instead of an inheritance
// hierarchy.
type NodeKind int

const (
	NodeIntersection NodeKind = iota
	NodeRestaurant
	NodeNeighborhood
)

func (k NodeKind) String() string {
	switch k {
	case NodeRestaurant:
		return "restaurant"
	case NodeNeighborhood:
		return "neighborhood"
	default:
		return "intersection"
	}
}

// Node is a single place in the region graph.
type Node struct {
	Location    Location
	Name        string
	Kind        NodeKind
	Connections []Location // Other nodes this node declares an edge to.
	Menu        []string   // Only meaningful when Kind == NodeRestaurant.
}

func (n Node) IsRestaurant() bool   { return n.Kind == NodeRestaurant }
func (n Node) IsNeighborhood() bool { return n.Kind == NodeNeighborhood }

// Edge is the undirected connection between two nodes. NodeA is always the
// lexicographically smaller Location: RegionBuilder.AddEdge accepts its
// endpoints in either order and stores them ascending. A reversed pair is
// not rejected, and Edge itself does not check its endpoint order.
type Edge struct {
	NodeA    Location
	NodeB    Location
	Duration int
}

func (e Edge) Other(from Location) Location {
	if from == e.NodeA {
		return e.NodeB
	}
	return e.NodeA
}

// DistanceCalculator derives a default edge duration from two locations
// when a Region is built without an explicit duration. Region construction
// is the only place this is consulted; durations are fixed afterward.
type DistanceCalculator func(a, b Location) int

type edgeKey struct {
	a, b Location
}

func newEdgeKey(a, b Location) edgeKey {
	if b.Less(a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Region is an immutable weighted undirected graph of Nodes and Edges.
type Region struct {
	nodes map[Location]Node
	edges map[edgeKey]Edge
	// adjacency caches, by node, all edges touching it, sorted by neighbor.
	adjacency map[Location][]Edge
}

// RegionBuilder accumulates nodes and edges before producing an immutable
// Region. It is the only place DistanceCalculator is consulted.
type RegionBuilder struct {
	calc  DistanceCalculator
	nodes map[Location]Node
	durs  map[edgeKey]int
	err   error
}

func NewRegionBuilder(calc DistanceCalculator) *RegionBuilder {
	if calc == nil {
		calc = EuclideanDistance
	}
	return &RegionBuilder{
		calc:  calc,
		nodes: make(map[Location]Node),
		durs:  make(map[edgeKey]int),
	}
}

func (b *RegionBuilder) AddNode(n Node) *RegionBuilder {
	if b.err != nil {
		return b
	}
	if _, exists := b.nodes[n.Location]; exists {
		b.err = fmt.Errorf("region builder: duplicate node at %v", n.Location)
		return b
	}
	b.nodes[n.Location] = n
	return b
}

// AddEdge connects a and b. duration <= 0 asks the builder's
// DistanceCalculator for a default duration instead.
func (b *RegionBuilder) AddEdge(a, b2 Location, duration int) *RegionBuilder {
	if b.err != nil {
		return b
	}
	if a == b2 {
		b.err = fmt.Errorf("region builder: edge endpoints must differ (%v)", a)
		return b
	}
	if duration <= 0 {
		duration = b.calc(a, b2)
		if duration <= 0 {
			duration = 1
		}
	}
	b.durs[newEdgeKey(a, b2)] = duration
	return b
}

// Build validates that every Node.Connections entry has a matching edge
// and returns the immutable Region.
func (b *RegionBuilder) Build() (*Region, error) {
	if b.err != nil {
		return nil, b.err
	}

	edges := make(map[edgeKey]Edge, len(b.durs))
	for k, d := range b.durs {
		if _, ok := b.nodes[k.a]; !ok {
			return nil, fmt.Errorf("region builder: edge references unknown node %v", k.a)
		}
		if _, ok := b.nodes[k.b]; !ok {
			return nil, fmt.Errorf("region builder: edge references unknown node %v", k.b)
		}
		edges[k] = Edge{NodeA: k.a, NodeB: k.b, Duration: d}
	}

	for loc, n := range b.nodes {
		for _, c := range n.Connections {
			if _, ok := edges[newEdgeKey(loc, c)]; !ok {
				return nil, fmt.Errorf("region builder: node %v declares connection to %v with no edge", loc, c)
			}
		}
	}

	adjacency := make(map[Location][]Edge, len(b.nodes))
	for _, e := range edges {
		adjacency[e.NodeA] = append(adjacency[e.NodeA], e)
		adjacency[e.NodeB] = append(adjacency[e.NodeB], e)
	}
	for loc, list := range adjacency {
		slices.SortFunc(list, func(x, y Edge) int {
			return x.Other(loc).Compare(y.Other(loc))
		})
	}

	return &Region{
		nodes:     b.nodes,
		edges:     edges,
		adjacency: adjacency,
	}, nil
}

func (r *Region) NodeAt(loc Location) (Node, bool) {
	n, ok := r.nodes[loc]
	return n, ok
}

// EdgeBetween looks up the undirected edge connecting a and b, regardless
// of the order the caller passes them in.
func (r *Region) EdgeBetween(a, b Location) (Edge, bool) {
	e, ok := r.edges[newEdgeKey(a, b)]
	return e, ok
}

// Neighbors returns the edges touching loc, sorted by the neighboring
// location so traversal order is deterministic.
func (r *Region) Neighbors(loc Location) []Edge {
	return r.adjacency[loc]
}

// Nodes returns every node, sorted by Location.
func (r *Region) Nodes() []Node {
	out := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b Node) int { return a.Location.Compare(b.Location) })
	return out
}

// Restaurants returns every restaurant node, sorted by Location.
func (r *Region) Restaurants() []Node {
	var out []Node
	for _, n := range r.nodes {
		if n.IsRestaurant() {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b Node) int { return a.Location.Compare(b.Location) })
	return out
}

// Neighborhoods returns every neighborhood node, sorted by Location.
func (r *Region) Neighborhoods() []Node {
	var out []Node
	for _, n := range r.nodes {
		if n.IsNeighborhood() {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b Node) int { return a.Location.Compare(b.Location) })
	return out
}

// Edges returns every edge, sorted by (NodeA, NodeB).
func (r *Region) Edges() []Edge {
	out := make([]Edge, 0, len(r.edges))
	for _, e := range r.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := a.NodeA.Compare(b.NodeA); c != 0 {
			return c
		}
		return a.NodeB.Compare(b.NodeB)
	})
	return out
}
