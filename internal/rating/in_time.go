package rating

import (
	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/routing"
)

// InTimeRater scores punctuality: how close delivered orders landed
// inside their delivery window, with a grace period before slack starts
// counting and a saturation point beyond which additional lateness no
// longer makes the score worse.
type InTimeRater struct {
	ignoredTicksOff int64
	maxTicksOff     int64

	totalTicksOff   int64
	ordersDelivered int64
	pendingOrders   map[int64]*domain.ConfirmedOrder
}

func NewInTimeRater(ignoredTicksOff, maxTicksOff int64) *InTimeRater {
	return &InTimeRater{
		ignoredTicksOff: ignoredTicksOff,
		maxTicksOff:     maxTicksOff,
		pendingOrders:   make(map[int64]*domain.ConfirmedOrder),
	}
}

func (r *InTimeRater) Criteria() Criteria { return CriteriaInTime }

func (r *InTimeRater) Score() float64 {
	maxTotalTicksOff := r.maxTicksOff * (r.ordersDelivered + int64(len(r.pendingOrders)))
	actualTotalTicksOff := r.totalTicksOff + int64(len(r.pendingOrders))*r.maxTicksOff

	if maxTotalTicksOff == 0 {
		return 0
	}

	return 1 - float64(actualTotalTicksOff)/float64(maxTotalTicksOff)
}

func (r *InTimeRater) OnTick(events []routing.Event, tick int64) {
	for _, ev := range events {
		d, ok := ev.(routing.DeliverOrderEvent)
		if !ok {
			continue
		}
		order := d.Order
		if _, ok := r.pendingOrders[order.ID]; !ok {
			panic("rating: DeliverOrderEvent before OrderReceivedEvent")
		}
		delete(r.pendingOrders, order.ID)

		var ticksOff int64
		switch {
		case order.ActualDeliveryTick > order.DeliveryInterval.End+r.ignoredTicksOff:
			ticksOff = min64(order.ActualDeliveryTick-order.DeliveryInterval.End-r.ignoredTicksOff, r.maxTicksOff)
		case order.ActualDeliveryTick < order.DeliveryInterval.Start-r.ignoredTicksOff:
			ticksOff = min64(order.DeliveryInterval.Start-order.ActualDeliveryTick-r.ignoredTicksOff, r.maxTicksOff)
		}

		r.totalTicksOff += ticksOff
		r.ordersDelivered++
	}

	for _, ev := range events {
		if o, ok := ev.(routing.OrderReceivedEvent); ok {
			r.pendingOrders[o.Order.ID] = o.Order
		}
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
