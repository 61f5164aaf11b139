package domain

import "fmt"

// TickInterval is an inclusive window of ticks, [Start, End].
type TickInterval struct {
	Start int64
	End   int64
}

func (t TickInterval) Contains(tick int64) bool {
	return tick >= t.Start && tick <= t.End
}

// ConfirmedOrder is a single delivery request: a target location, the
// restaurant it originates from, a delivery window, the requested items,
// and a weight that counts against a vehicle's capacity.
type ConfirmedOrder struct {
	ID                 int64
	TargetLocation     Location
	RestaurantLocation Location
	DeliveryInterval   TickInterval
	Items              []string
	Weight             float64

	// ActualDeliveryTick is set exactly once, by the component that
	// delivers the order. Zero value (with Delivered == false) means
	// still outstanding.
	ActualDeliveryTick int64
	Delivered          bool
}

func (o *ConfirmedOrder) MarkDelivered(tick int64) error {
	if o.Delivered {
		return fmt.Errorf("order %d: already delivered at tick %d", o.ID, o.ActualDeliveryTick)
	}
	o.ActualDeliveryTick = tick
	o.Delivered = true
	return nil
}
