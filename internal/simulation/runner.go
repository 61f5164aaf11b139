// Package simulation drives a fleet manager, a dispatch registry, the
// order generator, and a panel of raters through a full run, ticking each
// in the order the original service's top-level loop did: generate this
// tick's orders, hand them to the dispatchers, advance every vehicle, then
// let the raters observe whatever events came out of it.
package simulation

import (
	"context"
	"fmt"

	"delivery-route-service/internal/dispatch"
	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/fleet"
	"delivery-route-service/internal/generator"
	"delivery-route-service/internal/platform/obs"
	"delivery-route-service/internal/rating"
	"delivery-route-service/internal/routing"
)

// Options configures a single run, independent of how its Region was
// built or where its Report ends up.
type Options struct {
	RegionID        string
	VehicleCapacity float64
	VehiclesPerRestaurant int

	SendOutPolicy dispatch.SendOutPolicy
	RebalanceEnabled bool

	Generator generator.FridayOrderGeneratorOptions
	Seed      int64
	LastTick  int64

	AmountDeliveredFactor float64
	InTimeMaxTicksOff     int64
	InTimeIgnoredTicksOff int64
	TravelDistanceFactor  float64
}

// Runner owns the live objects for one run. A fresh Runner is built per
// run rather than reused, so concurrent runs against the same Region never
// share vehicle or dispatcher state.
type Runner struct {
	region *domain.Region
	opts   Options

	manager  *fleet.Manager
	registry *dispatch.Registry
	gen      generator.OrderGenerator

	raters    []rating.Rater
	delivered int
}

func New(ctx context.Context, region *domain.Region, opts Options) (*Runner, error) {
	manager, err := fleet.NewManager(region, opts.VehicleCapacity, opts.VehiclesPerRestaurant)
	if err != nil {
		return nil, fmt.Errorf("simulation: build fleet manager: %w", err)
	}

	registry, err := dispatch.NewRegistry(manager, opts.SendOutPolicy)
	if err != nil {
		return nil, fmt.Errorf("simulation: build dispatch registry: %w", err)
	}

	genOpts := opts.Generator
	genOpts.Seed = opts.Seed
	genOpts.LastTick = opts.LastTick
	gen, err := generator.NewFridayOrderGenerator(region, genOpts)
	if err != nil {
		return nil, fmt.Errorf("simulation: build order generator: %w", err)
	}

	pc := manager.PathCalculator()
	raters := []rating.Rater{
		rating.NewAmountDeliveredRater(opts.AmountDeliveredFactor),
		rating.NewInTimeRater(opts.InTimeIgnoredTicksOff, opts.InTimeMaxTicksOff),
		rating.NewTravelDistanceRater(region, pc, opts.TravelDistanceFactor),
	}

	return &Runner{
		region:   region,
		opts:     opts,
		manager:  manager,
		registry: registry,
		gen:      gen,
		raters:   raters,
	}, nil
}

// Run advances the simulation from tick 0 through opts.LastTick inclusive
// and returns the resulting Report. Any panic raised by an invariant
// violation deep in the fleet/dispatch/rating stack is recovered here and
// turned into an error, matching the teacher's composition-root pattern of
// never letting a failure escape as a crash once it reaches a boundary
// that isn't allowed to call os.Exit.
func (r *Runner) Run(ctx context.Context) (_ Report, err error) {
	defer obs.Time(ctx, "simulation.run")(&err)

	defer func(errp *error) {
		if rec := recover(); rec != nil {
			*errp = fmt.Errorf("simulation: run panicked: %v", rec)
		}
	}(&err)

	for tick := int64(0); tick <= r.opts.LastTick; tick++ {
		if err := r.tick(ctx, tick); err != nil {
			return Report{}, fmt.Errorf("simulation: tick %d: %w", tick, err)
		}
	}

	return r.report(), nil
}

func (r *Runner) tick(ctx context.Context, tick int64) (err error) {
	defer obs.Time(ctx, "simulation.tick")(&err)

	newOrders, err := r.gen.GenerateOrders(tick)
	if err != nil {
		return fmt.Errorf("generate orders: %w", err)
	}

	byRestaurant := make(map[domain.Location][]*domain.ConfirmedOrder)
	for _, o := range newOrders {
		byRestaurant[o.RestaurantLocation] = append(byRestaurant[o.RestaurantLocation], o)
	}

	dispatchEvents, err := r.registry.Tick(tick, byRestaurant)
	if err != nil {
		return fmt.Errorf("dispatch tick: %w", err)
	}

	fleetEvents, err := r.manager.Tick(tick)
	if err != nil {
		return fmt.Errorf("fleet tick: %w", err)
	}

	if err := r.registry.HandleEvents(fleetEvents); err != nil {
		return fmt.Errorf("handle fleet events: %w", err)
	}

	if r.opts.RebalanceEnabled {
		if err := r.registry.Rebalance(); err != nil {
			return fmt.Errorf("rebalance: %w", err)
		}
		if err := r.registry.RedirectQueued(); err != nil {
			return fmt.Errorf("redirect queued: %w", err)
		}
	}

	all := append(dispatchEvents, fleetEvents...)
	for _, ev := range all {
		if _, ok := ev.(routing.DeliverOrderEvent); ok {
			r.delivered++
		}
	}
	for _, rt := range r.raters {
		rt.OnTick(all, tick)
	}

	return nil
}

func (r *Runner) report() Report {
	scores := make([]RaterScore, len(r.raters))
	for i, rt := range r.raters {
		scores[i] = RaterScore{Criteria: rt.Criteria().String(), Score: rt.Score()}
	}

	pending := r.registry.PendingOrders()

	return Report{
		RegionID:  r.opts.RegionID,
		Seed:      r.opts.Seed,
		LastTick:  r.opts.LastTick,
		Scores:    scores,
		Delivered: r.delivered,
		Pending:   len(pending),
	}
}
