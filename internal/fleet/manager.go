package fleet

import (
	"fmt"
	"sort"

	"delivery-route-service/internal/domain"
	"delivery-route-service/internal/routing"
)

// Manager owns a Region, its PathCalculator, one Occupied per node/edge,
// and every Vehicle in the simulation. It is the sole place that advances
// vehicles and produces the tick's event stream, matching the original
// service's single VehicleManager responsible for all movement.
type Manager struct {
	region *domain.Region
	pc     *routing.PathCalculator

	nodeOccupied map[domain.Location]*routing.Occupied
	edgeOccupied map[domain.Edge]*routing.Occupied

	vehicles []*routing.Vehicle
	spawned  bool
}

func NewManager(region *domain.Region, capacityPerVehicle float64, vehiclesPerRestaurant int) (*Manager, error) {
	m := &Manager{
		region:       region,
		pc:           routing.NewPathCalculator(region),
		nodeOccupied: make(map[domain.Location]*routing.Occupied),
		edgeOccupied: make(map[domain.Edge]*routing.Occupied),
	}

	for _, n := range region.Nodes() {
		m.nodeOccupied[n.Location] = routing.NewOccupiedNode(n)
	}
	for _, e := range region.Edges() {
		m.edgeOccupied[e] = routing.NewOccupiedEdge(e)
	}

	restaurants := region.Restaurants()
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("fleet manager: region has no restaurants")
	}

	id := 1
	for _, r := range restaurants {
		occ := m.nodeOccupied[r.Location]
		for i := 0; i < vehiclesPerRestaurant; i++ {
			v := routing.NewVehicle(id, capacityPerVehicle, occ)
			occ.ForceAdd(v, 0)
			m.vehicles = append(m.vehicles, v)
			id++
		}
	}

	return m, nil
}

func (m *Manager) Region() *domain.Region             { return m.region }
func (m *Manager) PathCalculator() *routing.PathCalculator { return m.pc }

func (m *Manager) Vehicles() []*routing.Vehicle {
	out := make([]*routing.Vehicle, len(m.vehicles))
	copy(out, m.vehicles)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OccupiedRestaurant returns the Occupied for the restaurant at loc, if any.
func (m *Manager) OccupiedRestaurant(loc domain.Location) (*routing.Occupied, bool) {
	o, ok := m.nodeOccupied[loc]
	if !ok || o.Node().Kind != domain.NodeRestaurant {
		return nil, false
	}
	return o, true
}

// OccupiedNeighborhood returns the Occupied for the neighborhood at loc, if any.
func (m *Manager) OccupiedNeighborhood(loc domain.Location) (*routing.Occupied, bool) {
	o, ok := m.nodeOccupied[loc]
	if !ok || o.Node().Kind != domain.NodeNeighborhood {
		return nil, false
	}
	return o, true
}

func (m *Manager) edgeOf(a, b domain.Location) (domain.Edge, bool) {
	return m.region.EdgeBetween(a, b)
}

func (m *Manager) nodeOcc(loc domain.Location) (*routing.Occupied, bool) {
	o, ok := m.nodeOccupied[loc]
	return o, ok
}

func (m *Manager) edgeOcc(a, b domain.Location) (*routing.Occupied, bool) {
	e, ok := m.region.EdgeBetween(a, b)
	if !ok {
		return nil, false
	}
	o, ok := m.edgeOccupied[e]
	return o, ok
}

// Tick advances every vehicle by one component, in ascending vehicle id
// order, and returns the events produced. The first call additionally
// emits a SpawnEvent per vehicle so dispatchers can claim them.
func (m *Manager) Tick(tick int64) ([]routing.Event, error) {
	var events []routing.Event

	if !m.spawned {
		m.spawned = true
		for _, v := range m.Vehicles() {
			events = append(events, routing.NewSpawnEvent(tick, v, v.Occupied().Node().Location))
		}
	}

	for _, v := range m.Vehicles() {
		evs, err := v.Move(tick, m.edgeOf, m.nodeOcc, m.edgeOcc)
		if err != nil {
			return nil, fmt.Errorf("fleet manager: tick %d: vehicle %d: %w", tick, v.ID, err)
		}
		events = append(events, evs...)
	}

	return events, nil
}

// Reset returns every vehicle to its starting restaurant and clears
// occupancy, so the same Manager can drive another simulation run.
func (m *Manager) Reset() {
	for _, o := range m.nodeOccupied {
		for _, v := range o.Vehicles() {
			o.ForceRemove(v)
		}
	}
	for _, o := range m.edgeOccupied {
		for _, v := range o.Vehicles() {
			o.ForceRemove(v)
		}
	}
	for _, v := range m.vehicles {
		v.Reset()
	}
	for _, v := range m.vehicles {
		v.Occupied().ForceAdd(v, 0)
	}
	m.spawned = false
}
