package landmark

import (
	"strings"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
)

func fields(s string) []string {
	return strings.Fields(s)
}

// oneToAllForward full Dijkstra from source over the forward edges.
func oneToAllForward(graph *da.Graph, source da.Index, cf costfunction.CostFunction) []float64 {
	n := graph.NumberOfVertices()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}

	queue := da.NewFourAryHeap[da.Index]()
	dist[source] = 0
	queue.Insert(da.NewPriorityQueueNode(0, source))

	for !queue.IsEmpty() {
		top, _ := queue.ExtractMin()
		u := top.GetItem()
		if top.GetRank() > dist[u] {
			continue
		}
		graph.ForOutEdgesOf(u, func(e *da.OutEdge) {
			newDist := dist[u] + cf.GetWeight(e)
			if newDist < dist[e.GetHead()] {
				dist[e.GetHead()] = newDist
				queue.Insert(da.NewPriorityQueueNode(newDist, e.GetHead()))
			}
		})
	}
	return dist
}

// oneToAllBackward full Dijkstra toward target over the reverse edges,
// yielding dist[v] = d(v, target).
func oneToAllBackward(graph *da.Graph, target da.Index, cf costfunction.CostFunction) []float64 {
	n := graph.NumberOfVertices()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}

	queue := da.NewFourAryHeap[da.Index]()
	dist[target] = 0
	queue.Insert(da.NewPriorityQueueNode(0, target))

	for !queue.IsEmpty() {
		top, _ := queue.ExtractMin()
		u := top.GetItem()
		if top.GetRank() > dist[u] {
			continue
		}
		graph.ForInEdgesOf(u, func(e *da.InEdge) {
			newDist := dist[u] + cf.GetWeightIn(e)
			if newDist < dist[e.GetTail()] {
				dist[e.GetTail()] = newDist
				queue.Insert(da.NewPriorityQueueNode(newDist, e.GetTail()))
			}
		})
	}
	return dist
}
