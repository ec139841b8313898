package routing

import (
	"time"

	"github.com/nordwand/routeplanner/pkg"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
BidirectionalDijkstra runs two interleaved searches, forward from the
source over outEdges and backward from the target over inEdges, always
advancing the side whose frontier top is smaller. The best meeting
weight mu is updated during relaxation, so the meeting vertex itself
never needs to be settled by both sides; the search stops once
min(topForward, topBackward) >= mu.
*/
type BidirectionalDijkstra struct {
	engine *RoutingEngine

	distF []float64
	distB []float64
	// parent arcs into graph.outEdges / graph.inEdges, -1 for unset
	parentF []int32
	parentB []int32

	queueF *da.MinHeap[da.Index]
	queueB *da.MinHeap[da.Index]

	bestWeight  float64
	bestMeeting da.Index
}

func NewBidirectionalDijkstra(engine *RoutingEngine) *BidirectionalDijkstra {
	return &BidirectionalDijkstra{engine: engine}
}

func (bd *BidirectionalDijkstra) preallocate() {
	n := bd.engine.graph.NumberOfVertices()
	bd.distF = make([]float64, n)
	bd.distB = make([]float64, n)
	bd.parentF = make([]int32, n)
	bd.parentB = make([]int32, n)
	for i := 0; i < n; i++ {
		bd.distF[i] = pkg.INF_WEIGHT
		bd.distB[i] = pkg.INF_WEIGHT
		bd.parentF[i] = -1
		bd.parentB[i] = -1
	}
	bd.queueF = da.NewFourAryHeap[da.Index]()
	bd.queueB = da.NewFourAryHeap[da.Index]()
	bd.bestWeight = pkg.INF_WEIGHT
	bd.bestMeeting = da.INVALID_VERTEX_ID
}

func (bd *BidirectionalDijkstra) ShortestPath(source, target da.Index, opts QueryOptions) PathResult {
	stats := metrics.NewQueryStats("bidirectional_dijkstra")
	start := time.Now()
	defer func() { stats.Observe(start) }()

	if source == target {
		return trivialResult(bd.engine.graph, source, stats)
	}

	cf := bd.engine.costFunctionFor(opts)
	g := bd.engine.graph

	bd.preallocate()
	bd.distF[source] = 0
	bd.distB[target] = 0
	bd.queueF.Insert(da.NewPriorityQueueNode(0, source))
	bd.queueB.Insert(da.NewPriorityQueueNode(0, target))
	stats.Push()
	stats.Push()

	maxWeight := opts.MaxWeight
	if maxWeight <= 0 {
		maxWeight = pkg.INF_WEIGHT
	}

	for !bd.queueF.IsEmpty() || !bd.queueB.IsEmpty() {
		topF := bd.queueF.GetMinrank()
		topB := bd.queueB.GetMinrank()
		if util.Min(topF, topB) >= bd.bestWeight {
			break
		}
		if util.Min(topF, topB) > maxWeight {
			break
		}

		if topF <= topB {
			top, _ := bd.queueF.ExtractMin()
			u := top.GetItem()
			if top.GetRank() > bd.distF[u] {
				continue
			}
			stats.Settle()

			uDist := bd.distF[u]
			for i := g.GetVertex(u).GetFirstOut(); i < g.GetVertex(u+1).GetFirstOut(); i++ {
				e := g.GetOutEdge(i)
				h := e.GetHead()
				newDist := uDist + cf.GetWeight(e)
				if newDist < bd.distF[h] {
					bd.distF[h] = newDist
					bd.parentF[h] = int32(i)
					bd.queueF.Insert(da.NewPriorityQueueNode(newDist, h))
					stats.Push()
				}
				if bd.distF[h]+bd.distB[h] < bd.bestWeight {
					bd.bestWeight = bd.distF[h] + bd.distB[h]
					bd.bestMeeting = h
				}
			}
		} else {
			top, _ := bd.queueB.ExtractMin()
			u := top.GetItem()
			if top.GetRank() > bd.distB[u] {
				continue
			}
			stats.Settle()

			uDist := bd.distB[u]
			for i := g.GetVertex(u).GetFirstIn(); i < g.GetVertex(u+1).GetFirstIn(); i++ {
				e := g.GetInEdge(i)
				t := e.GetTail()
				newDist := uDist + cf.GetWeightIn(e)
				if newDist < bd.distB[t] {
					bd.distB[t] = newDist
					bd.parentB[t] = int32(i)
					bd.queueB.Insert(da.NewPriorityQueueNode(newDist, t))
					stats.Push()
				}
				if bd.distF[t]+bd.distB[t] < bd.bestWeight {
					bd.bestWeight = bd.distF[t] + bd.distB[t]
					bd.bestMeeting = t
				}
			}
		}
	}

	if bd.bestMeeting == da.INVALID_VERTEX_ID || bd.bestWeight > maxWeight {
		return NewUnreachableResult(stats)
	}
	return bd.buildResult(source, target, stats)
}

func (bd *BidirectionalDijkstra) buildResult(source, target da.Index, stats *metrics.QueryStats) PathResult {
	g := bd.engine.graph

	// forward half, meeting vertex back to source
	forward := make([]da.Index, 0, 64)
	v := bd.bestMeeting
	for v != source {
		arc := bd.parentF[v]
		util.AssertPanic(arc >= 0, "bidirectional dijkstra: forward vertex without parent arc")
		forward = append(forward, v)
		v = g.GetEdgeTail(da.Index(arc))
	}
	forward = append(forward, source)
	forward = util.ReverseG(forward)

	// backward half, meeting vertex forward to target
	vertices := forward
	v = bd.bestMeeting
	for v != target {
		arc := bd.parentB[v]
		util.AssertPanic(arc >= 0, "bidirectional dijkstra: backward vertex without parent arc")
		// parentB[v] is the in-edge of the successor whose tail is v
		next := g.GetEdgeHead(da.Index(arc))
		vertices = append(vertices, next)
		v = next
	}

	return resultFromVertices(g, vertices, bd.bestWeight, stats)
}
