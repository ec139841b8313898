package contractor

import (
	"github.com/nordwand/routeplanner/pkg"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
)

// witnessScratch per-worker state of the local witness searches. Reused
// across searches; only the entries touched by the previous search are
// reset, a full clear per search would dominate the contraction time.
type witnessScratch struct {
	dist    []float64
	hops    []int
	touched []da.Index
	queue   *da.MinHeap[da.Index]
}

func newWitnessScratch(n int) *witnessScratch {
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}
	return &witnessScratch{
		dist:  dist,
		hops:  make([]int, n),
		queue: da.NewBinaryHeap[da.Index](),
	}
}

func (ws *witnessScratch) reset() {
	for _, v := range ws.touched {
		ws.dist[v] = pkg.INF_WEIGHT
		ws.hops[v] = 0
	}
	ws.touched = ws.touched[:0]
	ws.queue.Clear()
}

func (ws *witnessScratch) distOf(v da.Index) float64 {
	return ws.dist[v]
}

/*
runWitnessSearch runs a hop-limited Dijkstra from u over the uncontracted
working graph, skipping the vertex `via` that is about to be contracted.
It stops once every target is settled or the frontier exceeds the largest
possible shortcut weight through via. Afterwards scratch.distOf(w) holds,
for each target w, the best alternative path length that avoids via.
*/
func (c *Contractor) runWitnessSearch(u, via da.Index, targets []da.Index, scratch *witnessScratch) {
	scratch.reset()

	maxWeight := 0.0
	_, uvWeight := c.minEdgeBetween(u, via)
	for _, w := range targets {
		_, vwWeight := c.minEdgeBetween(via, w)
		if vwWeight < pkg.INF_WEIGHT && uvWeight+vwWeight > maxWeight {
			maxWeight = uvWeight + vwWeight
		}
	}

	remaining := 0
	isTarget := make(map[da.Index]struct{}, len(targets))
	for _, w := range targets {
		if w != u {
			isTarget[w] = struct{}{}
			remaining++
		}
	}
	if remaining == 0 {
		return
	}

	scratch.dist[u] = 0
	scratch.touched = append(scratch.touched, u)
	scratch.queue.Insert(da.NewPriorityQueueNode(0, u))

	for !scratch.queue.IsEmpty() {
		top, _ := scratch.queue.ExtractMin()
		v := top.GetItem()
		if top.GetRank() > scratch.dist[v] {
			continue // stale queue entry
		}
		if scratch.dist[v] > maxWeight {
			break
		}
		if _, ok := isTarget[v]; ok {
			delete(isTarget, v)
			remaining--
			if remaining == 0 {
				break
			}
		}
		if scratch.hops[v] >= witnessHopLimit {
			continue
		}

		for _, id := range c.outAdj[v] {
			e := &c.edges[id]
			head := e.GetHead()
			if head == via || c.contracted[head] {
				continue
			}
			newDist := scratch.dist[v] + e.GetWeight()
			if newDist < scratch.dist[head] {
				if scratch.dist[head] == pkg.INF_WEIGHT {
					scratch.touched = append(scratch.touched, head)
				}
				scratch.dist[head] = newDist
				scratch.hops[head] = scratch.hops[v] + 1
				scratch.queue.Insert(da.NewPriorityQueueNode(newDist, head))
			}
		}
	}
}
