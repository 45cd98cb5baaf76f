package network

import (
	"container/heap"
	"math"
)

// NoPath is returned by ShortestPath when source and target are not
// connected. Spec §3 calls this sentinel NO_PATH.
const NoPath = math.MaxFloat64

// pqItem is an element of the shortest-path priority queue.
type pqItem struct {
	node     NodeID
	distance float64
	index    int
}

// priorityQueue is a min-heap on distance, tie-broken by node ID so that
// repeated runs over the same graph are deterministic (spec §4.1: "tie
// breaking ... must be deterministic across a run"). Adapted from
// services/solver-svc/internal/algorithms/dijkstra.go's priorityQueueItem.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].distance != pq[j].distance {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// ShortestPath computes the minimum-length sequence of nodes from source to
// target under edge lengths (spec §4.1). It returns NoPath and a nil path
// if target is unreachable from source, or if either node is absent from
// the graph.
//
// The graph is read-only for the duration of the call and may be queried
// concurrently by many callers (spec §5).
func (g *Graph) ShortestPath(source, target NodeID) (float64, []NodeID) {
	if _, ok := g.Node(source); !ok {
		return NoPath, nil
	}
	if _, ok := g.Node(target); !ok {
		return NoPath, nil
	}
	if source == target {
		return 0, []NodeID{source}
	}

	dist := map[NodeID]float64{source: 0}
	parent := map[NodeID]NodeID{}

	pq := make(priorityQueue, 0, 16)
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{node: source, distance: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		u := current.node

		if d, ok := dist[u]; ok && current.distance > d {
			continue // stale entry
		}
		if u == target {
			break
		}

		for _, edge := range g.outgoing(u) {
			if edge.From == edge.To {
				continue // self-loop, never shortens a path
			}
			newDist := dist[u] + edge.Length
			if d, seen := dist[edge.To]; !seen || newDist < d {
				dist[edge.To] = newDist
				parent[edge.To] = u
				heap.Push(&pq, &pqItem{node: edge.To, distance: newDist})
			}
		}
	}

	finalDist, ok := dist[target]
	if !ok {
		return NoPath, nil
	}

	return finalDist, reconstructPath(parent, source, target)
}

// reconstructPath walks parent pointers from target back to source and
// reverses the result.
func reconstructPath(parent map[NodeID]NodeID, source, target NodeID) []NodeID {
	path := []NodeID{target}
	current := target
	for current != source {
		p, ok := parent[current]
		if !ok {
			return nil
		}
		path = append(path, p)
		current = p
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NeighbourNodesOnPath returns the node immediately before and after pivot
// on path, or (0, false) / (0, false) for boundary positions (spec §4.1).
// The first occurrence of pivot is used if it appears more than once
// (spec §4.3: "If the checkpoint node appears more than once on the
// concatenated path ... use the first occurrence").
func NeighbourNodesOnPath(path []NodeID, pivot NodeID) (before NodeID, hasBefore bool, after NodeID, hasAfter bool) {
	for i, n := range path {
		if n != pivot {
			continue
		}
		if i > 0 {
			before, hasBefore = path[i-1], true
		}
		if i < len(path)-1 {
			after, hasAfter = path[i+1], true
		}
		return
	}
	return 0, false, 0, false
}
