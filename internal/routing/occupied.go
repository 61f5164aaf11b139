package routing

import (
	"fmt"
	"slices"

	"delivery-route-service/internal/domain"
)

// VehicleStats is the per-vehicle bookkeeping an Occupied keeps: when the
// vehicle arrived here, and what it occupied immediately before.
type VehicleStats struct {
	ArrivalTick int64
	Previous    *Occupied
}

// Occupied tracks the vehicles currently on a single Node or Edge. A
// region's Nodes and Edges each get exactly one Occupied, owned by the
// fleet manager, for the lifetime of a simulation run.
type Occupied struct {
	onEdge bool
	node   domain.Node
	edge   domain.Edge

	vehicles   map[*Vehicle]*VehicleStats
	seenOrders map[int64]bool // restaurant-only: orders ever loaded here
}

func NewOccupiedNode(n domain.Node) *Occupied {
	return &Occupied{node: n, vehicles: make(map[*Vehicle]*VehicleStats)}
}

func NewOccupiedEdge(e domain.Edge) *Occupied {
	return &Occupied{onEdge: true, edge: e, vehicles: make(map[*Vehicle]*VehicleStats)}
}

func (o *Occupied) IsEdge() bool { return o.onEdge }
func (o *Occupied) IsNode() bool { return !o.onEdge }

func (o *Occupied) Node() domain.Node {
	return o.node
}

func (o *Occupied) Edge() domain.Edge {
	return o.edge
}

// Vehicles returns the vehicles on this component, sorted by id so
// iteration order never depends on Go's map ordering.
func (o *Occupied) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(o.vehicles))
	for v := range o.vehicles {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Vehicle) int { return a.ID - b.ID })
	return out
}

func (o *Occupied) StatsFor(v *Vehicle) (*VehicleStats, bool) {
	s, ok := o.vehicles[v]
	return s, ok
}

func (o *Occupied) addVehicle(v *Vehicle, tick int64, previous *Occupied) {
	o.vehicles[v] = &VehicleStats{ArrivalTick: tick, Previous: previous}
}

func (o *Occupied) removeVehicle(v *Vehicle) {
	delete(o.vehicles, v)
}

// ForceAdd and ForceRemove bypass Transition's atomic remove-then-insert
// pairing. They exist only for the fleet manager's spawn/reset bookkeeping,
// where there is no "previous" component to preserve.
func (o *Occupied) ForceAdd(v *Vehicle, tick int64) {
	o.addVehicle(v, tick, nil)
}

func (o *Occupied) ForceRemove(v *Vehicle) {
	o.removeVehicle(v)
}

// Transition atomically moves v from its current Occupied to to: it is
// removed from the source before being inserted into the destination, so
// no callback ever observes the vehicle belonging to both or neither.
func Transition(v *Vehicle, to *Occupied, tick int64) {
	from := v.occupied
	if from != nil {
		from.removeVehicle(v)
	}
	to.addVehicle(v, tick, from)
	v.occupied = to
}

// LoadOrder attaches order to v while both are at this restaurant node.
// Reports an OrderReceivedEvent the first time this order is seen here,
// mirroring the original service's once-per-order notification.
func (o *Occupied) LoadOrder(v *Vehicle, order *domain.ConfirmedOrder, tick int64) (Event, error) {
	if o.onEdge || o.node.Kind != domain.NodeRestaurant {
		return nil, fmt.Errorf("load order: component is not a restaurant")
	}
	if _, ok := o.vehicles[v]; !ok {
		return nil, fmt.Errorf("load order: vehicle %d is not at this component", v.ID)
	}
	if err := v.loadOrder(order); err != nil {
		return nil, err
	}

	if o.seenOrders == nil {
		o.seenOrders = make(map[int64]bool)
	}
	if o.seenOrders[order.ID] {
		return nil, nil
	}
	o.seenOrders[order.ID] = true
	return newOrderReceivedEvent(tick, order), nil
}

// DeliverOrder unloads order from v while both are at this neighborhood
// node, and stamps the order's actual delivery tick.
func (o *Occupied) DeliverOrder(v *Vehicle, order *domain.ConfirmedOrder, tick int64) (Event, error) {
	if o.onEdge || o.node.Kind != domain.NodeNeighborhood {
		return nil, fmt.Errorf("deliver order: component is not a neighborhood")
	}
	if _, ok := o.vehicles[v]; !ok {
		return nil, fmt.Errorf("deliver order: vehicle %d is not at this component", v.ID)
	}
	v.unloadOrder(order)
	if err := order.MarkDelivered(tick); err != nil {
		return nil, fmt.Errorf("deliver order: %w", err)
	}
	return newDeliverOrderEvent(tick, order, v), nil
}
