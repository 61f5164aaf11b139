package rating

import (
	"testing"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/routing"
)

func buildRatingRegion(t *testing.T) (*domain.Region, domain.Location, domain.Location, domain.Location) {
	t.Helper()
	r := domain.Location{X: 0, Y: 0}
	i := domain.Location{X: 1, Y: 0}
	n := domain.Location{X: 2, Y: 0}

	region, err := domain.NewRegionBuilder(domain.ManhattanDistance).
		AddNode(domain.Node{Location: r, Kind: domain.NodeRestaurant, Connections: []domain.Location{i}}).
		AddNode(domain.Node{Location: i, Kind: domain.NodeIntersection, Connections: []domain.Location{r, n}}).
		AddNode(domain.Node{Location: n, Kind: domain.NodeNeighborhood, Connections: []domain.Location{i}}).
		AddEdge(r, i, 1).
		AddEdge(i, n, 1).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return region, r, i, n
}

func TestAmountDeliveredRaterScoresFullDeliveryAsPerfect(t *testing.T) {
	// build test data
	rater := NewAmountDeliveredRater(0.5)
	o1 := &domain.ConfirmedOrder{ID: 1}
	o2 := &domain.ConfirmedOrder{ID: 2}

	// call the method under test
	rater.OnTick([]routing.Event{routing.NewOrderReceivedEvent(0, o1), routing.NewOrderReceivedEvent(0, o2)}, 0)
	rater.OnTick([]routing.Event{routing.NewDeliverOrderEvent(1, o1, nil), routing.NewDeliverOrderEvent(1, o2, nil)}, 1)

	// verify behavior
	got := rater.Score()
	if got != 1 {
		t.Fatalf("expected a perfect score with everything delivered, got %v", got)
	}
}

func TestInTimeRaterPenalizesLateDelivery(t *testing.T) {
	// build test data
	rater := NewInTimeRater(5, 25)
	order := &domain.ConfirmedOrder{
		ID:                 1,
		DeliveryInterval:   domain.TickInterval{Start: 0, End: 10},
		ActualDeliveryTick: 20, // 5 ticks late after the grace period
	}

	// call the method under test
	rater.OnTick([]routing.Event{routing.NewOrderReceivedEvent(0, order)}, 0)
	rater.OnTick([]routing.Event{routing.NewDeliverOrderEvent(20, order, nil)}, 20)

	// verify behavior
	got := rater.Score()
	want := 1 - float64(5)/float64(25)
	if got != want {
		t.Fatalf("expected score %v, got %v", want, got)
	}
}

func TestTravelDistanceRaterScoresEfficiency(t *testing.T) {
	// build test data: a restaurant two hops from the delivery target, but
	// the vehicle only actually drives the first hop before we check the score
	region, r, i, n := buildRatingRegion(t)
	pc := routing.NewPathCalculator(region)
	rater := NewTravelDistanceRater(region, pc, 0.5)
	edge, _ := region.EdgeBetween(r, i)
	order := &domain.ConfirmedOrder{ID: 1, RestaurantLocation: r, TargetLocation: n}

	// call the method under test: one round trip worth of slack, one edge actually driven
	rater.OnTick([]routing.Event{routing.NewDeliverOrderEvent(0, order, nil)}, 0)
	rater.OnTick([]routing.Event{routing.NewArrivedAtNodeEvent(0, nil, i, edge)}, 0)

	// verify behavior
	got := rater.Score()
	want := 0.5
	if got != want {
		t.Fatalf("expected score %v, got %v", want, got)
	}
}
