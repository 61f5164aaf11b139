package generator

import (
	"fmt"
	"math/rand/v2"

	"delivery-route-service/internal/domain"
)

// FridayOrderGeneratorOptions configures a FridayOrderGenerator. Zero
// values are not valid defaults; callers should start from
// DefaultFridayOrderGeneratorOptions and override what they need.
type FridayOrderGeneratorOptions struct {
	OrderCount        int
	DeliveryInterval  int64
	MaxWeight         float64
	StandardDeviation float64
	LastTick          int64
	// Seed seeds the generator's RNG. Negative means non-deterministic.
	Seed int64
}

func DefaultFridayOrderGeneratorOptions() FridayOrderGeneratorOptions {
	return FridayOrderGeneratorOptions{
		OrderCount:        1000,
		DeliveryInterval:  15,
		MaxWeight:         0.5,
		StandardDeviation: 0.5,
		LastTick:          480,
		Seed:              -1,
	}
}

// FridayOrderGenerator produces the order volume of an average Friday
// evening: delivery ticks drawn from a Normal distribution centered on the
// middle of the run, rejection-sampled back into range. The full schedule
// is computed once at construction time, keyed by delivery tick, so
// GenerateOrders is a pure lookup and a fixed seed always replays the same
// sequence of orders.
type FridayOrderGenerator struct {
	orders map[int64][]*domain.ConfirmedOrder
}

func NewFridayOrderGenerator(region *domain.Region, opts FridayOrderGeneratorOptions) (*FridayOrderGenerator, error) {
	restaurants := region.Restaurants()
	neighborhoods := region.Neighborhoods()
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("friday order generator: region has no restaurants")
	}
	if len(neighborhoods) == 0 {
		return nil, fmt.Errorf("friday order generator: region has no neighborhoods")
	}

	var rng *rand.Rand
	if opts.Seed < 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)))
	}

	g := &FridayOrderGenerator{orders: make(map[int64][]*domain.ConfirmedOrder)}

	var nextID int64 = 1
	for i := 0; i < opts.OrderCount; i++ {
		var deliveryTick int64
		for {
			deliveryTick = int64(rng.NormFloat64()*opts.StandardDeviation*float64(opts.LastTick) + 0.5*float64(opts.LastTick))
			if deliveryTick >= 0 && deliveryTick <= opts.LastTick {
				break
			}
		}

		order := randomOrder(rng, nextID, restaurants, neighborhoods, deliveryTick, opts.DeliveryInterval, opts.MaxWeight)
		nextID++
		g.orders[deliveryTick] = append(g.orders[deliveryTick], order)
	}

	return g, nil
}

func (g *FridayOrderGenerator) GenerateOrders(tick int64) ([]*domain.ConfirmedOrder, error) {
	if tick < 0 {
		return nil, fmt.Errorf("friday order generator: negative tick %d", tick)
	}
	return g.orders[tick], nil
}

func randomOrder(rng *rand.Rand, id int64, restaurants, neighborhoods []domain.Node, deliveryTick, deliveryInterval int64, maxWeight float64) *domain.ConfirmedOrder {
	restaurant := restaurants[rng.IntN(len(restaurants))]
	target := neighborhoods[rng.IntN(len(neighborhoods))]

	var items []string
	if len(restaurant.Menu) > 0 {
		foodCount := 1 + rng.IntN(9)
		items = make([]string, foodCount)
		for i := range items {
			items[i] = restaurant.Menu[rng.IntN(len(restaurant.Menu))]
		}
	}

	return &domain.ConfirmedOrder{
		ID:                 id,
		TargetLocation:     target.Location,
		RestaurantLocation: restaurant.Location,
		DeliveryInterval:   domain.TickInterval{Start: deliveryTick, End: deliveryTick + deliveryInterval},
		Items:              items,
		Weight:             rng.Float64() * maxWeight,
	}
}
