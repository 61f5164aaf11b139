package dispatch

import "fmt"

// Rebalance moves unused vehicles from restaurants with more of them than
// the fleet average toward restaurants with fewer, so idle capacity
// doesn't pool wherever orders happen to be light. The donor condition
// compares a candidate donor's queued-to-arrive count against the target,
// not its unused count: preserved exactly as grounded, even though an
// eligible donor intuitively ought to have more vehicles than the target,
// not fewer.
func (r *Registry) Rebalance() error {
	dispatchers := r.All()

	var total int
	for _, d := range dispatchers {
		total += len(d.UnusedVehicles())
	}
	perManager := total / len(dispatchers)

	for _, d := range dispatchers {
		diff := perManager - len(d.UnusedVehicles())
		if diff <= 0 {
			continue
		}

		for _, other := range dispatchers {
			if other == d {
				continue
			}

			for len(other.TotalAvailableVehicles()) < perManager && diff > 0 {
				unused := other.UnusedVehicles()
				if len(unused) == 0 {
					break
				}
				v := unused[0]

				if err := v.MoveQueued(d.pc, d.restaurant.Location, nil); err != nil {
					return fmt.Errorf("rebalance: move vehicle %d to %v: %w", v.ID, d.restaurant.Location, err)
				}
				d.AddQueuedVehicle(v)
				other.RemoveVehicle(v)
				diff--
			}
		}
	}

	return nil
}

// RedirectQueued retargets vehicles that are already en route to a
// restaurant with more vehicles inbound than the fleet average, sending
// the excess straight to a restaurant still short of its share instead of
// letting them arrive, queue, and get rebalanced a second time. A
// redirected vehicle may already be mid-edge toward its original target,
// so it replans with MoveDirect rather than MoveQueued.
func (r *Registry) RedirectQueued() error {
	dispatchers := r.All()

	var total int
	for _, d := range dispatchers {
		total += len(d.TotalAvailableVehicles())
	}
	perManager := total / len(dispatchers)

	for _, d := range dispatchers {
		diff := perManager - len(d.TotalAvailableVehicles())
		if diff <= 0 {
			continue
		}

		for _, other := range dispatchers {
			if other == d {
				continue
			}

			for len(other.TotalAvailableVehicles()) > perManager && diff > 0 {
				queued := other.queuedVehicles
				if len(queued) == 0 {
					break
				}
				v := queued[0]

				if err := v.MoveDirect(d.pc, d.restaurant.Location, nil); err != nil {
					return fmt.Errorf("redirect queued: move vehicle %d to %v: %w", v.ID, d.restaurant.Location, err)
				}
				other.removeQueuedVehicle(v)
				d.AddQueuedVehicle(v)
				diff--
			}
		}
	}

	return nil
}
