package regionbuilder

import (
	"context"
	"testing"

	"delivery-route-service/internal/adapters/distance"
	"delivery-route-service/internal/domain"
)

func TestFromAddressesBuildsABipartiteRegion(t *testing.T) {
	// build test data
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "123 Main St", To: "456 Oak Ave", Meters: 3000, Seconds: 300},
		{From: "123 Main St", To: "789 Pine Rd", Meters: 6000, Seconds: 600},
	})
	restaurants := []AddressSpec{{Name: "Pizza Place", Address: "123 Main St", Menu: []string{"pizza"}}}
	neighborhoods := []AddressSpec{
		{Name: "Oakwood", Address: "456 Oak Ave"},
		{Name: "Pinehurst", Address: "789 Pine Rd"},
	}

	// call the method under test
	region, err := FromAddresses(context.Background(), provider, restaurants, neighborhoods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if len(region.Restaurants()) != 1 {
		t.Fatalf("expected 1 restaurant, got %d", len(region.Restaurants()))
	}
	if len(region.Neighborhoods()) != 2 {
		t.Fatalf("expected 2 neighborhoods, got %d", len(region.Neighborhoods()))
	}

	edge, ok := region.EdgeBetween(domain.Location{X: 0, Y: 0}, domain.Location{X: 0, Y: 1})
	if !ok {
		t.Fatal("expected an edge between the restaurant and the first neighborhood")
	}
	if edge.Duration != 5 {
		t.Fatalf("expected a 5-tick edge (300s / 60), got %d", edge.Duration)
	}
}

func TestFromAddressesRejectsEmptyRestaurants(t *testing.T) {
	provider := distance.NewMockDistanceProvider(nil)
	_, err := FromAddresses(context.Background(), provider, nil, []AddressSpec{{Name: "N", Address: "a"}})
	if err == nil {
		t.Fatal("expected an error when no restaurants are given")
	}
}
