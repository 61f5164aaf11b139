package routing

import (
	"fmt"

	"delivery-route-service/internal/domain"
)

// ArrivalCallback runs once a Path's node queue has been fully walked.
// emit lets the callback report events (deliveries, order pickups) it
// causes without Vehicle needing to know about those concerns.
type ArrivalCallback func(v *Vehicle, tick int64, emit func(Event))

// Path is one leg of a vehicle's move queue: the nodes still to be
// entered, in order, and what to run once the last one is reached.
type Path struct {
	Nodes   []domain.Location
	Arrival ArrivalCallback
}

// Vehicle is a single fleet member: its capacity, currently loaded
// orders, and a FIFO queue of Paths describing where it is headed.
type Vehicle struct {
	ID       int
	Capacity float64

	orders    []*domain.ConfirmedOrder
	moveQueue []*Path

	occupied         *Occupied
	startingRestaurant *Occupied
}

func NewVehicle(id int, capacity float64, startingRestaurant *Occupied) *Vehicle {
	return &Vehicle{
		ID:                 id,
		Capacity:           capacity,
		occupied:           startingRestaurant,
		startingRestaurant: startingRestaurant,
	}
}

func (v *Vehicle) Occupied() *Occupied { return v.occupied }

func (v *Vehicle) Orders() []*domain.ConfirmedOrder {
	out := make([]*domain.ConfirmedOrder, len(v.orders))
	copy(out, v.orders)
	return out
}

func (v *Vehicle) Weight() float64 {
	var w float64
	for _, o := range v.orders {
		w += o.Weight
	}
	return w
}

func (v *Vehicle) loadOrder(order *domain.ConfirmedOrder) error {
	// Count check first, ahead of the weight check below: preserved
	// literally from the original even though Capacity is a weight bound,
	// not an order count, so this can reject an order a pure weight check
	// would still accept (e.g. many orders of weight 0).
	if len(v.orders) >= int(v.Capacity) {
		return fmt.Errorf("vehicle %d: loading order %d would exceed order count (%d >= %.2f)",
			v.ID, order.ID, len(v.orders), v.Capacity)
	}
	if v.Weight()+order.Weight > v.Capacity {
		return fmt.Errorf("vehicle %d: loading order %d would exceed capacity (%.2f+%.2f > %.2f)",
			v.ID, order.ID, v.Weight(), order.Weight, v.Capacity)
	}
	v.orders = append(v.orders, order)
	return nil
}

func (v *Vehicle) unloadOrder(order *domain.ConfirmedOrder) {
	for i, o := range v.orders {
		if o == order {
			v.orders = append(v.orders[:i], v.orders[i+1:]...)
			return
		}
	}
}

// currentNode returns the node the vehicle would consider its position
// for path planning: the tail of the last queued path if any, else the
// node it currently occupies. Returns ok=false if the tail is mid-edge,
// which cannot happen by construction (see MoveQueued/MoveDirect).
func (v *Vehicle) currentNode() (domain.Location, bool) {
	for i := len(v.moveQueue) - 1; i >= 0; i-- {
		nodes := v.moveQueue[i].Nodes
		if len(nodes) > 0 {
			return nodes[len(nodes)-1], true
		}
	}
	if v.occupied != nil && v.occupied.IsNode() {
		return v.occupied.Node().Location, true
	}
	return domain.Location{}, false
}

// MoveQueued appends a new Path to the tail of the move queue, planning
// from wherever the queue currently ends (or the vehicle's current node)
// to target.
func (v *Vehicle) MoveQueued(pc *PathCalculator, target domain.Location, arrival ArrivalCallback) error {
	start, ok := v.currentNode()
	if !ok {
		return fmt.Errorf("vehicle %d: move queue is empty but vehicle is mid-edge", v.ID)
	}
	if start == target && len(v.moveQueue) == 0 {
		return fmt.Errorf("vehicle %d: cannot queue a move to its own node %v", v.ID, target)
	}

	nodes := pc.Path(start, target)
	v.moveQueue = append(v.moveQueue, &Path{Nodes: nodes, Arrival: arrival})
	return nil
}

// MoveDirect discards the current move queue and replans from the
// vehicle's true current position. If it is mid-edge, a one-hop Path to
// the edge's far endpoint is queued first so the vehicle finishes the
// edge instead of reversing onto it.
func (v *Vehicle) MoveDirect(pc *PathCalculator, target domain.Location, arrival ArrivalCallback) error {
	v.moveQueue = nil

	if v.occupied != nil && v.occupied.IsEdge() {
		stats, ok := v.occupied.StatsFor(v)
		if !ok || stats.Previous == nil || !stats.Previous.IsNode() {
			return fmt.Errorf("vehicle %d: on an edge with no recorded previous node", v.ID)
		}
		previousNode := stats.Previous.Node().Location
		edge := v.occupied.Edge()
		next := edge.Other(previousNode)
		v.moveQueue = append(v.moveQueue, &Path{Nodes: []domain.Location{next}})
	}

	return v.MoveQueued(pc, target, arrival)
}

// Reset returns the vehicle to its starting restaurant with an empty
// queue and no loaded orders, for reuse across simulation runs.
func (v *Vehicle) Reset() {
	v.occupied = v.startingRestaurant
	v.moveQueue = nil
	v.orders = nil
}

// EdgeLookup resolves the Edge connecting two adjacent nodes.
type EdgeLookup func(a, b domain.Location) (domain.Edge, bool)

// OccupiedForNode and OccupiedForEdge resolve the long-lived Occupied
// instance for a node/edge so Transition can be applied to it.
type OccupiedForNode func(loc domain.Location) (*Occupied, bool)
type OccupiedForEdge func(a, b domain.Location) (*Occupied, bool)

// Move advances the vehicle by exactly one component (node->edge or
// edge->node) for the given tick, returning any events the transition or
// a fully-walked Path's arrival callback produced. A vehicle with an
// empty move queue is a no-op.
func (v *Vehicle) Move(tick int64, edgeOf EdgeLookup, nodeOcc OccupiedForNode, edgeOcc OccupiedForEdge) ([]Event, error) {
	if len(v.moveQueue) == 0 {
		return nil, nil
	}

	path := v.moveQueue[0]

	if len(path.Nodes) == 0 {
		v.moveQueue = v.moveQueue[1:]
		if path.Arrival == nil {
			return v.Move(tick, edgeOf, nodeOcc, edgeOcc)
		}
		var events []Event
		path.Arrival(v, tick, func(e Event) { events = append(events, e) })
		return events, nil
	}

	next := path.Nodes[0]

	if v.occupied.IsNode() {
		edge, ok := edgeOf(v.occupied.Node().Location, next)
		if !ok {
			return nil, fmt.Errorf("vehicle %d: no edge from %v to %v", v.ID, v.occupied.Node().Location, next)
		}
		occ, ok := edgeOcc(edge.NodeA, edge.NodeB)
		if !ok {
			return nil, fmt.Errorf("vehicle %d: no occupied edge for %v-%v", v.ID, edge.NodeA, edge.NodeB)
		}
		Transition(v, occ, tick)
		return nil, nil
	}

	edge := v.occupied.Edge()
	occ, ok := nodeOcc(next)
	if !ok {
		return nil, fmt.Errorf("vehicle %d: no occupied node for %v", v.ID, next)
	}
	Transition(v, occ, tick)
	path.Nodes = path.Nodes[1:]

	base := newArrivedAtNodeEvent(tick, v, next, edge)
	if occ.IsNode() && occ.Node().Kind == domain.NodeRestaurant {
		return []Event{newArrivedAtRestaurantEvent(base)}, nil
	}
	return []Event{base}, nil
}
