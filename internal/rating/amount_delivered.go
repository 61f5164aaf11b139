package rating

import (
	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/routing"
)

// AmountDeliveredRater scores how much of the total order volume was
// actually delivered, tolerant of a configurable fraction left pending.
type AmountDeliveredRater struct {
	factor        float64
	ordersCount   int64
	pendingOrders map[int64]*domain.ConfirmedOrder
}

func NewAmountDeliveredRater(factor float64) *AmountDeliveredRater {
	return &AmountDeliveredRater{
		factor:        factor,
		pendingOrders: make(map[int64]*domain.ConfirmedOrder),
	}
}

func (r *AmountDeliveredRater) Criteria() Criteria { return CriteriaAmountDelivered }

func (r *AmountDeliveredRater) Score() float64 {
	undelivered := float64(len(r.pendingOrders))
	maxUndelivered := float64(r.ordersCount) * (1 - r.factor)

	if undelivered > maxUndelivered || maxUndelivered == 0 {
		return 0
	}

	return 1 - (undelivered / maxUndelivered)
}

func (r *AmountDeliveredRater) OnTick(events []routing.Event, tick int64) {
	for _, ev := range events {
		if d, ok := ev.(routing.DeliverOrderEvent); ok {
			if _, ok := r.pendingOrders[d.Order.ID]; !ok {
				panic("rating: DeliverOrderEvent before OrderReceivedEvent")
			}
			delete(r.pendingOrders, d.Order.ID)
		}
	}

	for _, ev := range events {
		if o, ok := ev.(routing.OrderReceivedEvent); ok {
			r.pendingOrders[o.Order.ID] = o.Order
			r.ordersCount++
		}
	}
}
