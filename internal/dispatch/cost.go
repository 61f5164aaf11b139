package dispatch

import (
	"fmt"
	"math"

	"delivery-route-service/internal/domain"
)

// weight sums the weight of every order carried by route.
func weight(route []RouteNode) float64 {
	var w float64
	for _, rn := range route {
		for _, o := range rn.Orders {
			w += o.Weight
		}
	}
	return w
}

// distance sums the edge durations of route, starting from restaurant.
func distance(region *domain.Region, restaurant domain.Node, route []RouteNode) (int64, error) {
	previous := restaurant.Location
	var d int64
	for _, rn := range route {
		e, ok := region.EdgeBetween(previous, rn.Node.Location)
		if !ok {
			return 0, fmt.Errorf("no edge between %v and %v", previous, rn.Node.Location)
		}
		d += int64(e.Duration)
		previous = rn.Node.Location
	}
	return d, nil
}

// deliveryDuration returns the number of ticks it takes to reach order's
// target when following route, starting from restaurant.
func deliveryDuration(region *domain.Region, restaurant domain.Node, route []RouteNode, order *domain.ConfirmedOrder) (int64, error) {
	previous := restaurant.Location
	var d int64
	for _, rn := range route {
		e, ok := region.EdgeBetween(previous, rn.Node.Location)
		if !ok {
			return 0, fmt.Errorf("no edge between %v and %v", previous, rn.Node.Location)
		}
		d += int64(e.Duration)
		previous = rn.Node.Location
		if rn.Node.Location == order.TargetLocation {
			return d, nil
		}
	}
	return 0, fmt.Errorf("order %d not in route", order.ID)
}

// totalTicksOffForRoute sums the absolute slack of every order in route,
// measured against the delivery time route would produce for it.
func totalTicksOffForRoute(region *domain.Region, restaurant domain.Node, route []RouteNode, currentTick int64) (int64, error) {
	previous := restaurant.Location
	var d int64
	var sum int64
	for _, rn := range route {
		e, ok := region.EdgeBetween(previous, rn.Node.Location)
		if !ok {
			return 0, fmt.Errorf("no edge between %v and %v", previous, rn.Node.Location)
		}
		d += int64(e.Duration)
		previous = rn.Node.Location
		for _, order := range rn.Orders {
			t := ticksOff(order, d+currentTick)
			if t < 0 {
				t = -t
			}
			sum += t
		}
	}
	return sum, nil
}

// ticksOff returns the signed slack between an order's delivery window
// and deliveryTime: 0 inside the window, negative if early, positive if late.
func ticksOff(order *domain.ConfirmedOrder, deliveryTime int64) int64 {
	iv := order.DeliveryInterval
	if iv.Start > deliveryTime {
		return iv.Start - deliveryTime
	}
	if deliveryTime > iv.End {
		return deliveryTime - iv.End
	}
	return 0
}

// ticksUntilOff returns how many more ticks can pass before some order on
// route becomes late. Preserved verbatim from the system this was
// grounded on: an order whose window has not yet closed by the time the
// route would reach it forces the result to 0, which makes this trigger
// send-outs far more eagerly than the name suggests.
func ticksUntilOff(region *domain.Region, restaurant domain.Node, route []RouteNode, currentTick int64) (int64, error) {
	previous := restaurant.Location
	var d int64
	result := int64(math.MaxInt64)
	for _, rn := range route {
		e, ok := region.EdgeBetween(previous, rn.Node.Location)
		if !ok {
			return 0, fmt.Errorf("no edge between %v and %v", previous, rn.Node.Location)
		}
		d += int64(e.Duration)
		previous = rn.Node.Location
		for _, order := range rn.Orders {
			iv := order.DeliveryInterval
			switch {
			case iv.End > d+currentTick:
				result = 0
			case iv.Start < d+currentTick:
				candidate := iv.End - currentTick - d
				if candidate < result {
					result = candidate
				}
			}
		}
	}
	return result, nil
}
