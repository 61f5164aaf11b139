package dispatch

import (
	"fmt"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/fleet"
	"delivery-route-service/internal/routing"
)

// RouteNode is one stop on a vehicle's planned route: a node to visit and
// the orders to deliver once there.
type RouteNode struct {
	Node   domain.Node
	Orders []*domain.ConfirmedOrder
}

func copyRouteNode(rn RouteNode) RouteNode {
	orders := make([]*domain.ConfirmedOrder, len(rn.Orders))
	copy(orders, rn.Orders)
	return RouteNode{Node: rn.Node, Orders: orders}
}

func copyRoute(route []RouteNode) []RouteNode {
	out := make([]RouteNode, len(route))
	for i, rn := range route {
		out[i] = copyRouteNode(rn)
	}
	return out
}

// SendOutPolicy controls when a dispatcher ships a partially or fully
// planned route rather than continuing to accumulate orders onto it.
type SendOutPolicy struct {
	SlackTicks int64
	WeightFrac float64
}

// Dispatcher plans and sends out deliveries for a single restaurant. One
// Dispatcher exists per restaurant node in the region.
type Dispatcher struct {
	restaurant domain.Node
	manager    *fleet.Manager
	region     *domain.Region
	pc         *routing.PathCalculator
	registry   *Registry

	plannedRoutes  map[*routing.Vehicle][]RouteNode
	vehicleOrder   []*routing.Vehicle // insertion order, for deterministic iteration
	queuedVehicles []*routing.Vehicle
	pendingOrders  []*domain.ConfirmedOrder

	policy SendOutPolicy
}

func NewDispatcher(restaurant domain.Node, manager *fleet.Manager, policy SendOutPolicy) *Dispatcher {
	return &Dispatcher{
		restaurant:    restaurant,
		manager:       manager,
		region:        manager.Region(),
		pc:            manager.PathCalculator(),
		plannedRoutes: make(map[*routing.Vehicle][]RouteNode),
		policy:        policy,
	}
}

func (d *Dispatcher) Managed() domain.Node { return d.restaurant }

// AddVehicle registers a vehicle (just spawned or just arrived) as
// available for new routes at this restaurant.
func (d *Dispatcher) AddVehicle(v *routing.Vehicle) {
	if _, exists := d.plannedRoutes[v]; !exists {
		d.vehicleOrder = append(d.vehicleOrder, v)
	}
	d.plannedRoutes[v] = []RouteNode{}
	for i, qv := range d.queuedVehicles {
		if qv == v {
			d.queuedVehicles = append(d.queuedVehicles[:i], d.queuedVehicles[i+1:]...)
			break
		}
	}
}

// RemoveVehicle drops a vehicle that has been sent out on a route.
func (d *Dispatcher) RemoveVehicle(v *routing.Vehicle) {
	delete(d.plannedRoutes, v)
	for i, ov := range d.vehicleOrder {
		if ov == v {
			d.vehicleOrder = append(d.vehicleOrder[:i], d.vehicleOrder[i+1:]...)
			break
		}
	}
}

// AddQueuedVehicle records a vehicle that is en route here (sent out by
// some dispatcher, possibly this one) and will become available on arrival.
func (d *Dispatcher) AddQueuedVehicle(v *routing.Vehicle) {
	d.queuedVehicles = append(d.queuedVehicles, v)
}

// removeQueuedVehicle drops a vehicle that was queued to arrive here but
// has been redirected elsewhere before arriving.
func (d *Dispatcher) removeQueuedVehicle(v *routing.Vehicle) {
	for i, qv := range d.queuedVehicles {
		if qv == v {
			d.queuedVehicles = append(d.queuedVehicles[:i], d.queuedVehicles[i+1:]...)
			return
		}
	}
}

// UnusedVehicles returns the vehicles that are present and have an empty
// planned route.
func (d *Dispatcher) UnusedVehicles() []*routing.Vehicle {
	var out []*routing.Vehicle
	for _, v := range d.vehicleOrder {
		if len(d.plannedRoutes[v]) == 0 {
			out = append(out, v)
		}
	}
	return out
}

// TotalAvailableVehicles returns the vehicles queued to arrive at this
// restaurant (the original service's confusingly-named "total available").
func (d *Dispatcher) TotalAvailableVehicles() []*routing.Vehicle {
	return d.queuedVehicles
}

func (d *Dispatcher) PendingOrders() []*domain.ConfirmedOrder {
	out := make([]*domain.ConfirmedOrder, len(d.pendingOrders))
	copy(out, d.pendingOrders)
	return out
}

// Tick retries pending orders, accepts new orders, and sends out any
// route that has become urgent or full.
func (d *Dispatcher) Tick(currentTick int64, newOrders []*domain.ConfirmedOrder) ([]routing.Event, error) {
	retry := d.pendingOrders
	d.pendingOrders = nil
	for _, order := range retry {
		if err := d.AcceptOrder(order, currentTick); err != nil {
			return nil, err
		}
	}

	for _, order := range newOrders {
		if err := d.AcceptOrder(order, currentTick); err != nil {
			return nil, err
		}
	}

	var events []routing.Event
	for _, v := range append([]*routing.Vehicle{}, d.vehicleOrder...) {
		route, ok := d.plannedRoutes[v]
		if !ok || len(route) == 0 {
			continue
		}

		until, err := ticksUntilOff(d.region, d.restaurant, route, currentTick)
		if err != nil {
			return nil, fmt.Errorf("dispatcher %v: %w", d.restaurant.Location, err)
		}

		if until < d.policy.SlackTicks || weight(route) >= d.policy.WeightFrac*v.Capacity {
			evs, err := d.moveVehicle(v, currentTick)
			if err != nil {
				return nil, err
			}
			events = append(events, evs...)
		}
	}

	return events, nil
}

// AcceptOrder tries to insert order into the best available planned
// route, following the three insertion strategies below. A single
// infeasible candidate anywhere aborts the whole attempt and defers the
// order: the service this is grounded on returns from acceptOrder the
// moment compareRoute reports BREAK, rather than continuing to evaluate
// other vehicles.
func (d *Dispatcher) AcceptOrder(order *domain.ConfirmedOrder, currentTick int64) error {
	paths := d.pc.AllPathsTo(order.TargetLocation)
	targetNode, ok := d.region.NodeAt(order.TargetLocation)
	if !ok {
		return fmt.Errorf("accept order %d: unknown target location %v", order.ID, order.TargetLocation)
	}

	var bestVehicle *routing.Vehicle
	var bestRoute []RouteNode

	for _, v := range d.vehicleOrder {
		route := d.plannedRoutes[v]

		if weight(route)+order.Weight > v.Capacity {
			continue
		}

		// Case A: the vehicle has no planned route yet, so the candidate
		// is simply the shortest path from the restaurant to the order.
		if len(route) == 0 {
			path := d.pc.Path(d.restaurant.Location, order.TargetLocation)
			newRoute := pathToRoute(d.region, path)
			if len(newRoute) == 0 {
				continue
			}
			newRoute[len(newRoute)-1].Orders = append(newRoute[len(newRoute)-1].Orders, order)

			verdict, err := compareRoute(d.region, d.restaurant, bestRoute, newRoute, order, currentTick)
			if err != nil {
				return fmt.Errorf("accept order %d: %w", order.ID, err)
			}
			if verdict == verdictBreak {
				d.pendingOrders = append(d.pendingOrders, order)
				return nil
			}
			if verdict == verdictSwitch {
				bestVehicle = v
				bestRoute = newRoute
			}
			continue
		}

		// Case B: the order's target is already a stop on the route, so
		// the order just piggybacks on it.
		matchIdx := -1
		for i, rn := range route {
			if rn.Node.Location == order.TargetLocation {
				matchIdx = i
				break
			}
		}

		if matchIdx >= 0 {
			newRoute := copyRoute(route)
			newRoute[matchIdx].Orders = append(newRoute[matchIdx].Orders, order)

			verdict, err := compareRoute(d.region, d.restaurant, bestRoute, newRoute, order, currentTick)
			if err != nil {
				return fmt.Errorf("accept order %d: %w", order.ID, err)
			}
			if verdict == verdictBreak {
				d.pendingOrders = append(d.pendingOrders, order)
				return nil
			}
			if verdict == verdictSwitch {
				bestVehicle = v
				bestRoute = newRoute
			}
			continue
		}

		// Case C: try detouring from each existing stop out to the order
		// and back, and keep whichever attachment point compares best.
		for attachIdx := range route {
			newRoute := insertDetour(d.region, paths, route, attachIdx, targetNode, order)

			verdict, err := compareRoute(d.region, d.restaurant, bestRoute, newRoute, order, currentTick)
			if err != nil {
				return fmt.Errorf("accept order %d: %w", order.ID, err)
			}
			if verdict == verdictBreak {
				d.pendingOrders = append(d.pendingOrders, order)
				return nil
			}
			if verdict == verdictSwitch {
				bestVehicle = v
				bestRoute = newRoute
			}
		}
	}

	if bestVehicle == nil {
		d.pendingOrders = append(d.pendingOrders, order)
		return nil
	}

	duration, err := deliveryDuration(d.region, d.restaurant, bestRoute, order)
	if err != nil {
		return fmt.Errorf("accept order %d: %w", order.ID, err)
	}
	if duration+currentTick > order.DeliveryInterval.Start {
		d.plannedRoutes[bestVehicle] = bestRoute
		return nil
	}

	d.pendingOrders = append(d.pendingOrders, order)
	return nil
}

// insertDetour builds the candidate route formed by detouring from
// route[attachIdx] out to the order's target and back to whatever
// followed the attachment point. paths maps every location to its
// shortest path (excluding that location, ending at the order's target)
// from a single AllPathsTo run, so the forward leg and the mirrored
// return leg both come out of one shortest-path computation.
func insertDetour(region *domain.Region, paths map[domain.Location][]domain.Location, route []RouteNode, attachIdx int, targetNode domain.Node, order *domain.ConfirmedOrder) []RouteNode {
	attachLoc := route[attachIdx].Node.Location

	toOrder := pathToRoute(region, paths[attachLoc])
	if len(toOrder) == 0 {
		toOrder = []RouteNode{{Node: targetNode}}
	}
	toOrder[len(toOrder)-1].Orders = append(toOrder[len(toOrder)-1].Orders, order)

	var fromOrder []RouteNode
	if attachIdx != len(route)-1 {
		successorLoc := route[attachIdx+1].Node.Location
		back := pathToRoute(region, paths[successorLoc])
		if len(back) > 0 {
			back = back[:len(back)-1] // drop the duplicate delivery node
		}
		fromOrder = reverseRoute(back)
	}

	detour := append(toOrder, fromOrder...)
	out := make([]RouteNode, 0, len(route)+len(detour))
	out = append(out, copyRoute(route[:attachIdx+1])...)
	out = append(out, detour...)
	out = append(out, copyRoute(route[attachIdx+1:])...)
	return out
}

func reverseRoute(route []RouteNode) []RouteNode {
	out := make([]RouteNode, len(route))
	for i, rn := range route {
		out[len(route)-1-i] = rn
	}
	return out
}

func pathToRoute(region *domain.Region, path []domain.Location) []RouteNode {
	out := make([]RouteNode, 0, len(path))
	for _, loc := range path {
		n, _ := region.NodeAt(loc)
		out = append(out, RouteNode{Node: n})
	}
	return out
}

// moveVehicle loads every order along a vehicle's planned route, queues
// its delivery stops, and on completion queues it onward to the
// dispatcher with the fewest vehicles currently queued to arrive.
func (d *Dispatcher) moveVehicle(v *routing.Vehicle, currentTick int64) ([]routing.Event, error) {
	route := d.plannedRoutes[v]
	restaurantOcc, ok := d.manager.OccupiedRestaurant(d.restaurant.Location)
	if !ok {
		return nil, fmt.Errorf("move vehicle: no occupied restaurant at %v", d.restaurant.Location)
	}

	var events []routing.Event

	for _, rn := range route {
		if len(rn.Orders) == 0 {
			continue
		}
		for _, order := range rn.Orders {
			ev, err := restaurantOcc.LoadOrder(v, order, currentTick)
			if err != nil {
				return nil, fmt.Errorf("move vehicle %d: load order %d: %w", v.ID, order.ID, err)
			}
			if ev != nil {
				events = append(events, ev)
			}
		}

		orders := rn.Orders
		target := rn.Node.Location
		arrival := func(veh *routing.Vehicle, tick int64, emit func(routing.Event)) {
			neighborhoodOcc, ok := d.manager.OccupiedNeighborhood(target)
			if !ok {
				return
			}
			for _, order := range orders {
				ev, err := neighborhoodOcc.DeliverOrder(veh, order, tick)
				if err == nil && ev != nil {
					emit(ev)
				}
			}
		}
		if err := v.MoveQueued(d.pc, target, arrival); err != nil {
			return nil, fmt.Errorf("move vehicle %d: queue delivery stop %v: %w", v.ID, target, err)
		}
	}

	next := d.leastLoadedDispatcher()
	if next != nil {
		if err := v.MoveQueued(d.pc, next.restaurant.Location, nil); err != nil {
			return nil, fmt.Errorf("move vehicle %d: queue return to %v: %w", v.ID, next.restaurant.Location, err)
		}
		next.AddQueuedVehicle(v)
	}
	d.RemoveVehicle(v)

	return events, nil
}

func (d *Dispatcher) leastLoadedDispatcher() *Dispatcher {
	if d.registry == nil {
		return nil
	}
	var best *Dispatcher
	for _, other := range d.registry.All() {
		if best == nil || len(other.TotalAvailableVehicles()) < len(best.TotalAvailableVehicles()) {
			best = other
		}
	}
	return best
}
