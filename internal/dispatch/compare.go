package dispatch

import "delivery-route-service/internal/domain"

type verdict int

const (
	verdictKeep verdict = iota
	verdictSwitch
	verdictBreak
)

// compareRoute decides whether newRoute should replace oldRoute as the
// best candidate for inserting order. A nil oldRoute is always beaten. A
// newRoute that would deliver order before its window opens aborts the
// whole acceptance attempt (verdictBreak), regardless of how oldRoute
// compares; AcceptOrder then evaluates no further candidates.
func compareRoute(region *domain.Region, restaurant domain.Node, oldRoute, newRoute []RouteNode, order *domain.ConfirmedOrder, currentTick int64) (verdict, error) {
	newDuration, err := deliveryDuration(region, restaurant, newRoute, order)
	if err != nil {
		return verdictKeep, err
	}
	if newDuration+currentTick < order.DeliveryInterval.Start {
		return verdictBreak, nil
	}

	if oldRoute == nil {
		return verdictSwitch, nil
	}

	oldTicksOff, err := totalTicksOffForRoute(region, restaurant, oldRoute, currentTick)
	if err != nil {
		return verdictKeep, err
	}
	newTicksOff, err := totalTicksOffForRoute(region, restaurant, newRoute, currentTick)
	if err != nil {
		return verdictKeep, err
	}

	if oldTicksOff == 0 && newTicksOff == 0 {
		oldDistance, err := distance(region, restaurant, oldRoute)
		if err != nil {
			return verdictKeep, err
		}
		newDistance, err := distance(region, restaurant, newRoute)
		if err != nil {
			return verdictKeep, err
		}
		if newDistance < oldDistance {
			return verdictSwitch, nil
		}
		return verdictKeep, nil
	}

	if newTicksOff < oldTicksOff {
		return verdictSwitch, nil
	}
	return verdictKeep, nil
}
