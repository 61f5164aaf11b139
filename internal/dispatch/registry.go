package dispatch

import (
	"fmt"
	"slices"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/fleet"
	"delivery-route-service/internal/routing"
)

// Registry holds one Dispatcher per restaurant and routes fleet events to
// the dispatcher responsible for them, mirroring the original service's
// single object owning every RestaurantManager.
type Registry struct {
	manager     *fleet.Manager
	dispatchers map[domain.Location]*Dispatcher
	order       []domain.Location
}

func NewRegistry(manager *fleet.Manager, policy SendOutPolicy) (*Registry, error) {
	reg := &Registry{
		manager:     manager,
		dispatchers: make(map[domain.Location]*Dispatcher),
	}

	for _, r := range manager.Region().Restaurants() {
		d := NewDispatcher(r, manager, policy)
		d.registry = reg
		reg.dispatchers[r.Location] = d
		reg.order = append(reg.order, r.Location)
	}
	if len(reg.order) == 0 {
		return nil, fmt.Errorf("dispatch registry: region has no restaurants")
	}
	slices.SortFunc(reg.order, func(a, b domain.Location) int { return a.Compare(b) })

	for _, v := range manager.Vehicles() {
		loc := v.Occupied().Node().Location
		if d, ok := reg.dispatchers[loc]; ok {
			d.AddVehicle(v)
		}
	}

	return reg, nil
}

// All returns every dispatcher, ordered by restaurant location so
// iteration never depends on map order.
func (r *Registry) All() []*Dispatcher {
	out := make([]*Dispatcher, len(r.order))
	for i, loc := range r.order {
		out[i] = r.dispatchers[loc]
	}
	return out
}

func (r *Registry) For(restaurant domain.Location) (*Dispatcher, bool) {
	d, ok := r.dispatchers[restaurant]
	return d, ok
}

// HandleEvents routes SpawnEvent and ArrivedAtRestaurantEvent to the
// dispatcher managing the restaurant involved, so a vehicle becomes
// plannable again the moment it is available there.
func (r *Registry) HandleEvents(events []routing.Event) error {
	for _, ev := range events {
		switch e := ev.(type) {
		case routing.SpawnEvent:
			d, ok := r.dispatchers[e.Location]
			if !ok {
				return fmt.Errorf("dispatch registry: no dispatcher for spawn at %v", e.Location)
			}
			d.AddVehicle(e.Vehicle)
		case routing.ArrivedAtRestaurantEvent:
			d, ok := r.dispatchers[e.Restaurant]
			if !ok {
				return fmt.Errorf("dispatch registry: no dispatcher for restaurant %v", e.Restaurant)
			}
			d.AddVehicle(e.Vehicle)
		}
	}
	return nil
}

// Tick drives every dispatcher's per-tick acceptance and send-out logic.
// newOrdersByRestaurant assigns each new order to its restaurant's queue.
func (r *Registry) Tick(currentTick int64, newOrdersByRestaurant map[domain.Location][]*domain.ConfirmedOrder) ([]routing.Event, error) {
	var events []routing.Event
	for _, loc := range r.order {
		d := r.dispatchers[loc]
		evs, err := d.Tick(currentTick, newOrdersByRestaurant[loc])
		if err != nil {
			return nil, fmt.Errorf("dispatch registry: tick restaurant %v: %w", loc, err)
		}
		events = append(events, evs...)
	}
	return events, nil
}

// PendingOrders returns every order still waiting for a route, across
// all restaurants.
func (r *Registry) PendingOrders() []*domain.ConfirmedOrder {
	var out []*domain.ConfirmedOrder
	for _, loc := range r.order {
		out = append(out, r.dispatchers[loc].PendingOrders()...)
	}
	return out
}
