package routing

import (
	"container/heap"

	"delivery-route-service/internal/domain"
)

// PathCalculator computes shortest paths over a Region's edge durations.
// Ties are broken by ascending Location so two calculators given the same
// region and query always agree on the path, regardless of map iteration
// order anywhere upstream.
type PathCalculator struct {
	region *domain.Region
}

func NewPathCalculator(region *domain.Region) *PathCalculator {
	return &PathCalculator{region: region}
}

// Path returns the sequence of nodes strictly after from, ending at to.
// An unreachable target returns a nil slice, not an error.
func (pc *PathCalculator) Path(from, to domain.Location) []domain.Location {
	if from == to {
		return nil
	}
	prev, dist := pc.dijkstra(from)
	if _, ok := dist[to]; !ok {
		return nil
	}
	return reconstruct(prev, from, to)
}

// AllPathsFrom returns, for every node reachable from source, the path
// (excluding source itself) leading to it.
func (pc *PathCalculator) AllPathsFrom(source domain.Location) map[domain.Location][]domain.Location {
	prev, dist := pc.dijkstra(source)
	out := make(map[domain.Location][]domain.Location, len(dist))
	for loc := range dist {
		if loc == source {
			out[loc] = nil
			continue
		}
		out[loc] = reconstruct(prev, source, loc)
	}
	return out
}

// AllPathsTo returns, for every node from which target is reachable, the
// path (excluding that node) leading to target. Grounded on the original
// service's getAllPathsTo, used by the dispatcher to evaluate every
// planned-route attachment point against one order location in a single
// shortest-path run (reverse Dijkstra over the same edge weights, since
// the region graph is undirected).
func (pc *PathCalculator) AllPathsTo(target domain.Location) map[domain.Location][]domain.Location {
	prev, dist := pc.dijkstra(target)
	out := make(map[domain.Location][]domain.Location, len(dist))
	for loc := range dist {
		if loc == target {
			out[loc] = nil
			continue
		}
		reversed := reconstruct(prev, target, loc)
		out[loc] = reversePath(loc, reversed, target)
	}
	return out
}

// reversePath turns the forward path target->...->loc (as returned by
// reconstruct rooted at target) into the path from->...->target.
func reversePath(from domain.Location, forward []domain.Location, target domain.Location) []domain.Location {
	// forward holds the nodes strictly after target, ending at `from`.
	// The path from `from` to target is the reverse of (target, forward...)
	// with `from` itself dropped from the head.
	full := make([]domain.Location, 0, len(forward)+1)
	full = append(full, target)
	full = append(full, forward...)
	out := make([]domain.Location, 0, len(full)-1)
	for i := len(full) - 2; i >= 0; i-- {
		out = append(out, full[i])
	}
	_ = from
	return out
}

func reconstruct(prev map[domain.Location]domain.Location, from, to domain.Location) []domain.Location {
	var rev []domain.Location
	cur := to
	for cur != from {
		rev = append(rev, cur)
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		cur = p
	}
	out := make([]domain.Location, len(rev))
	for i, l := range rev {
		out[len(rev)-1-i] = l
	}
	return out
}

type pqItem struct {
	loc  domain.Location
	dist int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].loc.Less(pq[j].loc)
}
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)         { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func (pc *PathCalculator) dijkstra(source domain.Location) (map[domain.Location]domain.Location, map[domain.Location]int) {
	prev := make(map[domain.Location]domain.Location)
	dist := map[domain.Location]int{source: 0}

	pq := &priorityQueue{{loc: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if d, ok := dist[cur.loc]; ok && cur.dist > d {
			continue
		}

		for _, edge := range pc.region.Neighbors(cur.loc) {
			next := edge.Other(cur.loc)
			nd := cur.dist + edge.Duration
			if d, ok := dist[next]; !ok || nd < d || (nd == d && cur.loc.Less(prev[next])) {
				dist[next] = nd
				prev[next] = cur.loc
				heap.Push(pq, pqItem{loc: next, dist: nd})
			}
		}
	}

	return prev, dist
}
