// Package regionbuilder derives a domain.Region from real-world addresses
// instead of a static node/edge definition, using a distance provider to
// turn travel times into edge durations.
package regionbuilder

import (
	"context"
	"fmt"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/ports"
)

// AddressSpec names one node to be geocoded and placed in the built region.
type AddressSpec struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Menu    []string `json:"menu,omitempty"` // only meaningful for restaurants
}

// RegionAddressesSpec is the on-disk JSON shape cmd/regionbuilder reads: a
// region id plus the restaurant/neighborhood addresses FromAddresses needs
// to geocode and connect.
type RegionAddressesSpec struct {
	RegionID      string        `json:"region_id"`
	Restaurants   []AddressSpec `json:"restaurants"`
	Neighborhoods []AddressSpec `json:"neighborhoods"`
}

// FromAddresses builds a region where every restaurant connects directly to
// every neighborhood, with edge durations (in ticks) derived from real
// travel time between the two addresses. Restaurants and neighborhoods are
// placed on two parallel synthetic rows so every Location stays a distinct
// integer grid coordinate; only the edge durations reflect the real world.
func FromAddresses(ctx context.Context, provider ports.DistanceProvider, restaurants, neighborhoods []AddressSpec) (*domain.Region, error) {
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("region from addresses: at least one restaurant is required")
	}
	if len(neighborhoods) == 0 {
		return nil, fmt.Errorf("region from addresses: at least one neighborhood is required")
	}

	b := domain.NewRegionBuilder(domain.EuclideanDistance)

	restaurantLocs := make([]domain.Location, len(restaurants))
	for i := range restaurants {
		restaurantLocs[i] = domain.Location{X: i, Y: 0}
	}
	neighborhoodLocs := make([]domain.Location, len(neighborhoods))
	for i := range neighborhoods {
		neighborhoodLocs[i] = domain.Location{X: i, Y: 1}
	}

	for i, r := range restaurants {
		var connections []domain.Location
		connections = append(connections, neighborhoodLocs...)
		b.AddNode(domain.Node{
			Location:    restaurantLocs[i],
			Name:        r.Name,
			Kind:        domain.NodeRestaurant,
			Connections: connections,
			Menu:        r.Menu,
		})
	}
	for i, n := range neighborhoods {
		b.AddNode(domain.Node{
			Location:    neighborhoodLocs[i],
			Name:        n.Name,
			Kind:        domain.NodeNeighborhood,
			Connections: restaurantLocs,
		})
	}

	neighborhoodAddresses := make([]string, len(neighborhoods))
	for j, n := range neighborhoods {
		neighborhoodAddresses[j] = n.Address
	}

	for i, r := range restaurants {
		durations, err := distancesFrom(ctx, provider, r.Address, neighborhoodAddresses)
		if err != nil {
			return nil, fmt.Errorf("region from addresses: distances from %q: %w", r.Address, err)
		}
		for j, n := range neighborhoods {
			ticks := durations[n.Address] / 60
			if ticks < 1 {
				ticks = 1
			}
			b.AddEdge(restaurantLocs[i], neighborhoodLocs[j], ticks)
		}
	}

	return b.Build()
}

// distancesFrom fetches travel durations from origin to every destination.
// A DistanceMatrixProvider serves this in one batched request; otherwise it
// falls back to one GetDistance call per destination.
func distancesFrom(ctx context.Context, provider ports.DistanceProvider, origin string, destinations []string) (map[string]int, error) {
	out := make(map[string]int, len(destinations))

	if matrix, ok := provider.(ports.DistanceMatrixProvider); ok {
		results, err := matrix.GetDistances(ctx, origin, destinations)
		if err != nil {
			return nil, err
		}
		for dest, result := range results {
			out[dest] = result.DurationSeconds
		}
		return out, nil
	}

	for _, dest := range destinations {
		result, err := provider.GetDistance(ctx, origin, dest)
		if err != nil {
			return nil, fmt.Errorf("distance %q -> %q: %w", origin, dest, err)
		}
		out[dest] = result.DurationSeconds
	}
	return out, nil
}
