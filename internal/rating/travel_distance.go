package rating

import (
	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/routing"
)

// TravelDistanceRater scores fleet efficiency: actual distance driven
// against a worst-case baseline of every delivered order being fetched
// by a dedicated round trip from its restaurant.
type TravelDistanceRater struct {
	region *domain.Region
	pc     *routing.PathCalculator
	factor float64

	worstDistance  int64
	actualDistance int64
}

func NewTravelDistanceRater(region *domain.Region, pc *routing.PathCalculator, factor float64) *TravelDistanceRater {
	return &TravelDistanceRater{region: region, pc: pc, factor: factor}
}

func (r *TravelDistanceRater) Criteria() Criteria { return CriteriaTravelDistance }

func (r *TravelDistanceRater) Score() float64 {
	actualWorst := float64(r.worstDistance) * r.factor

	if float64(r.actualDistance) >= actualWorst || actualWorst == 0 {
		return 0
	}

	return 1 - float64(r.actualDistance)/actualWorst
}

func (r *TravelDistanceRater) OnTick(events []routing.Event, tick int64) {
	for _, ev := range events {
		if d, ok := ev.(routing.DeliverOrderEvent); ok {
			order := d.Order
			r.worstDistance += 2 * r.pathDistance(order.RestaurantLocation, order.TargetLocation)
		}
	}

	for _, ev := range events {
		switch e := ev.(type) {
		case routing.ArrivedAtRestaurantEvent:
			r.actualDistance += int64(e.LastEdge.Duration)
		case routing.ArrivedAtNodeEvent:
			r.actualDistance += int64(e.LastEdge.Duration)
		}
	}
}

func (r *TravelDistanceRater) pathDistance(from, to domain.Location) int64 {
	path := r.pc.Path(from, to)
	if len(path) == 0 {
		return 0
	}

	previous := from
	var distance int64
	for _, loc := range path {
		e, ok := r.region.EdgeBetween(previous, loc)
		if !ok {
			return distance
		}
		distance += int64(e.Duration)
		previous = loc
	}
	return distance
}
