package routing

import "delivery-route-service/internal/domain"

// Event is anything a Vehicle or the VehicleManager emits over the course
// of a tick. Handlers (the dispatcher, raters) filter by concrete type.
type Event interface {
	Tick() int64
}

type baseEvent struct {
	tick int64
}

func (e baseEvent) Tick() int64 { return e.tick }

// SpawnEvent fires once, when a vehicle is placed at its starting restaurant.
type SpawnEvent struct {
	baseEvent
	Vehicle  *Vehicle
	Location domain.Location
}

// ArrivedAtNodeEvent fires whenever a vehicle completes an edge traversal
// into any node.
type ArrivedAtNodeEvent struct {
	baseEvent
	Vehicle  *Vehicle
	Node     domain.Location
	LastEdge domain.Edge
}

// ArrivedAtRestaurantEvent specializes ArrivedAtNodeEvent for restaurant
// arrivals, which the dispatcher uses to reclaim a returning vehicle.
type ArrivedAtRestaurantEvent struct {
	ArrivedAtNodeEvent
	Restaurant domain.Location
}

// OrderReceivedEvent fires the first time an order is loaded onto a vehicle
// at its restaurant.
type OrderReceivedEvent struct {
	baseEvent
	Order *domain.ConfirmedOrder
}

// DeliverOrderEvent fires when an order is unloaded at its target
// neighborhood. Always preceded by that order's OrderReceivedEvent.
type DeliverOrderEvent struct {
	baseEvent
	Order   *domain.ConfirmedOrder
	Vehicle *Vehicle
}

// NewSpawnEvent is exported for the fleet manager, which is responsible
// for spawning vehicles at simulation start.
func NewSpawnEvent(tick int64, v *Vehicle, loc domain.Location) SpawnEvent {
	return SpawnEvent{baseEvent{tick}, v, loc}
}

func newArrivedAtNodeEvent(tick int64, v *Vehicle, node domain.Location, edge domain.Edge) ArrivedAtNodeEvent {
	return ArrivedAtNodeEvent{baseEvent{tick}, v, node, edge}
}

func newArrivedAtRestaurantEvent(base ArrivedAtNodeEvent) ArrivedAtRestaurantEvent {
	return ArrivedAtRestaurantEvent{base, base.Node}
}

func newOrderReceivedEvent(tick int64, o *domain.ConfirmedOrder) OrderReceivedEvent {
	return OrderReceivedEvent{baseEvent{tick}, o}
}

func newDeliverOrderEvent(tick int64, o *domain.ConfirmedOrder, v *Vehicle) DeliverOrderEvent {
	return DeliverOrderEvent{baseEvent{tick}, o, v}
}

// NewArrivedAtNodeEvent, NewOrderReceivedEvent and NewDeliverOrderEvent are
// exported so raters and other consumers outside this package can build
// these events directly in tests, without constructing a live Vehicle.
func NewArrivedAtNodeEvent(tick int64, v *Vehicle, node domain.Location, edge domain.Edge) ArrivedAtNodeEvent {
	return newArrivedAtNodeEvent(tick, v, node, edge)
}

func NewOrderReceivedEvent(tick int64, o *domain.ConfirmedOrder) OrderReceivedEvent {
	return newOrderReceivedEvent(tick, o)
}

func NewDeliverOrderEvent(tick int64, o *domain.ConfirmedOrder, v *Vehicle) DeliverOrderEvent {
	return newDeliverOrderEvent(tick, o, v)
}
