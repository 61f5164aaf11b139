package repositories

import (
	"fmt"

	"delivery-route-service/internal/domain"
)

// RegionDefinition is the JSON-on-disk / SQLite-stored shape a domain.Region
// is built from: a plain node/edge list instead of the graph's internal
// adjacency structures.
type RegionDefinition struct {
	Nodes []NodeDefinition `json:"nodes"`
	Edges []EdgeDefinition `json:"edges"`
}

type NodeDefinition struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"` // "restaurant", "neighborhood", or "intersection"
	Connections [][2]int `json:"connections"`
	Menu        []string `json:"menu,omitempty"`
}

type EdgeDefinition struct {
	AX       int `json:"ax"`
	AY       int `json:"ay"`
	BX       int `json:"bx"`
	BY       int `json:"by"`
	Duration int `json:"duration"`
}

// Build turns a RegionDefinition into an immutable domain.Region.
func (d RegionDefinition) Build() (*domain.Region, error) {
	b := domain.NewRegionBuilder(domain.EuclideanDistance)

	for _, n := range d.Nodes {
		kind, err := parseNodeKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("build region: node %q: %w", n.Name, err)
		}
		connections := make([]domain.Location, len(n.Connections))
		for i, c := range n.Connections {
			connections[i] = domain.Location{X: c[0], Y: c[1]}
		}
		b.AddNode(domain.Node{
			Location:    domain.Location{X: n.X, Y: n.Y},
			Name:        n.Name,
			Kind:        kind,
			Connections: connections,
			Menu:        n.Menu,
		})
	}

	for _, e := range d.Edges {
		b.AddEdge(domain.Location{X: e.AX, Y: e.AY}, domain.Location{X: e.BX, Y: e.BY}, e.Duration)
	}

	return b.Build()
}

// FromRegion converts a built Region back into its persisted definition.
func FromRegion(r *domain.Region) RegionDefinition {
	var def RegionDefinition
	for _, n := range r.Nodes() {
		connections := make([][2]int, len(n.Connections))
		for i, c := range n.Connections {
			connections[i] = [2]int{c.X, c.Y}
		}
		def.Nodes = append(def.Nodes, NodeDefinition{
			X: n.Location.X, Y: n.Location.Y,
			Name:        n.Name,
			Kind:        nodeKindString(n.Kind),
			Connections: connections,
			Menu:        n.Menu,
		})
	}
	for _, e := range r.Edges() {
		def.Edges = append(def.Edges, EdgeDefinition{
			AX: e.NodeA.X, AY: e.NodeA.Y,
			BX: e.NodeB.X, BY: e.NodeB.Y,
			Duration: e.Duration,
		})
	}
	return def
}

func parseNodeKind(s string) (domain.NodeKind, error) {
	switch s {
	case "restaurant":
		return domain.NodeRestaurant, nil
	case "neighborhood":
		return domain.NodeNeighborhood, nil
	case "intersection", "":
		return domain.NodeIntersection, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

func nodeKindString(k domain.NodeKind) string {
	switch k {
	case domain.NodeRestaurant:
		return "restaurant"
	case domain.NodeNeighborhood:
		return "neighborhood"
	default:
		return "intersection"
	}
}
