package routing

import (
	"time"

	"github.com/nordwand/routeplanner/pkg"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
CHDijkstra queries a contraction hierarchy. Both searches only relax
upward ch-edges, forward from the source and backward from the target;
every shortest path has a single highest-ranked vertex, so the two
upward search spaces are guaranteed to meet on it. The stopping rule is
the same as plain bidirectional search: stop once both frontier tops
are at least the best meeting weight found so far.

The returned path is in original graph vertices; shortcuts on the
up-down ch-path are expanded recursively through UnpackEdge.
*/
type CHDijkstra struct {
	engine *RoutingEngine

	distF []float64
	distB []float64
	// parent ch-edge ids into chGraph.edges, INVALID_EDGE_ID for unset
	parentF []da.Index
	parentB []da.Index

	queueF *da.MinHeap[da.Index]
	queueB *da.MinHeap[da.Index]

	bestWeight  float64
	bestMeeting da.Index
}

func NewCHDijkstra(engine *RoutingEngine) *CHDijkstra {
	return &CHDijkstra{engine: engine}
}

func (chq *CHDijkstra) preallocate() {
	n := chq.engine.chGraph.NumberOfVertices()
	chq.distF = make([]float64, n)
	chq.distB = make([]float64, n)
	chq.parentF = make([]da.Index, n)
	chq.parentB = make([]da.Index, n)
	for i := 0; i < n; i++ {
		chq.distF[i] = pkg.INF_WEIGHT
		chq.distB[i] = pkg.INF_WEIGHT
		chq.parentF[i] = da.INVALID_EDGE_ID
		chq.parentB[i] = da.INVALID_EDGE_ID
	}
	chq.queueF = da.NewFourAryHeap[da.Index]()
	chq.queueB = da.NewFourAryHeap[da.Index]()
	chq.bestWeight = pkg.INF_WEIGHT
	chq.bestMeeting = da.INVALID_VERTEX_ID
}

func (chq *CHDijkstra) ShortestPath(source, target da.Index, opts QueryOptions) PathResult {
	stats := metrics.NewQueryStats("ch_dijkstra")
	start := time.Now()
	defer func() { stats.Observe(start) }()

	if source == target {
		return trivialResult(chq.engine.graph, source, stats)
	}

	cf := chq.engine.costFunctionFor(opts)
	chg := chq.engine.chGraph

	chq.preallocate()
	chq.distF[source] = 0
	chq.distB[target] = 0
	chq.queueF.Insert(da.NewPriorityQueueNode(0, source))
	chq.queueB.Insert(da.NewPriorityQueueNode(0, target))
	stats.Push()
	stats.Push()

	maxWeight := opts.MaxWeight
	if maxWeight <= 0 {
		maxWeight = pkg.INF_WEIGHT
	}

	for !chq.queueF.IsEmpty() || !chq.queueB.IsEmpty() {
		topF := chq.queueF.GetMinrank()
		topB := chq.queueB.GetMinrank()
		if util.Min(topF, topB) >= chq.bestWeight {
			break
		}
		if util.Min(topF, topB) > maxWeight {
			break
		}

		if topF <= topB {
			top, _ := chq.queueF.ExtractMin()
			u := top.GetItem()
			if top.GetRank() > chq.distF[u] {
				continue
			}
			stats.Settle()
			if chq.distF[u]+chq.distB[u] < chq.bestWeight {
				chq.bestWeight = chq.distF[u] + chq.distB[u]
				chq.bestMeeting = u
			}

			uDist := chq.distF[u]
			chg.ForUpwardOutEdgesOf(u, func(e *da.CHEdge, edgeId da.Index) {
				h := e.GetHead()
				newDist := uDist + cf.GetWeightCH(e)
				if newDist < chq.distF[h] {
					chq.distF[h] = newDist
					chq.parentF[h] = edgeId
					chq.queueF.Insert(da.NewPriorityQueueNode(newDist, h))
					stats.Push()
				}
			})
		} else {
			top, _ := chq.queueB.ExtractMin()
			u := top.GetItem()
			if top.GetRank() > chq.distB[u] {
				continue
			}
			stats.Settle()
			if chq.distF[u]+chq.distB[u] < chq.bestWeight {
				chq.bestWeight = chq.distF[u] + chq.distB[u]
				chq.bestMeeting = u
			}

			uDist := chq.distB[u]
			chg.ForUpwardInEdgesOf(u, func(e *da.CHEdge, edgeId da.Index) {
				t := e.GetTail()
				newDist := uDist + cf.GetWeightCH(e)
				if newDist < chq.distB[t] {
					chq.distB[t] = newDist
					chq.parentB[t] = edgeId
					chq.queueB.Insert(da.NewPriorityQueueNode(newDist, t))
					stats.Push()
				}
			})
		}
	}

	if chq.bestMeeting == da.INVALID_VERTEX_ID || chq.bestWeight > maxWeight {
		return NewUnreachableResult(stats)
	}
	return chq.buildResult(source, target, stats)
}

func (chq *CHDijkstra) buildResult(source, target da.Index, stats *metrics.QueryStats) PathResult {
	// collect the ch-edge chains of both halves before unpacking
	upEdges := make([]da.Index, 0, 32)
	v := chq.bestMeeting
	for v != source {
		e := chq.parentF[v]
		util.AssertPanic(e != da.INVALID_EDGE_ID, "ch query: forward vertex without parent edge")
		upEdges = append(upEdges, e)
		v = chq.engine.chGraph.GetEdge(e).GetTail()
	}
	upEdges = util.ReverseG(upEdges)

	downEdges := make([]da.Index, 0, 32)
	v = chq.bestMeeting
	for v != target {
		e := chq.parentB[v]
		util.AssertPanic(e != da.INVALID_EDGE_ID, "ch query: backward vertex without parent edge")
		downEdges = append(downEdges, e)
		v = chq.engine.chGraph.GetEdge(e).GetHead()
	}

	vertices := make([]da.Index, 0, 64)
	vertices = append(vertices, source)
	for _, e := range upEdges {
		vertices = append(vertices, chq.unpack(e)...)
	}
	for _, e := range downEdges {
		vertices = append(vertices, chq.unpack(e)...)
	}

	return resultFromVertices(chq.engine.graph, vertices, chq.bestWeight, stats)
}

// unpack expands ch-edge e into its original vertex sequence, excluding
// the tail. Expansions are metric-independent and shared across queries
// through the engine's lru cache.
func (chq *CHDijkstra) unpack(e da.Index) []da.Index {
	if cached, ok := chq.engine.unpackCache.Get(e); ok {
		return cached
	}
	path := make([]da.Index, 0, 8)
	chq.engine.chGraph.UnpackEdge(e, &path)
	chq.engine.unpackCache.Add(e, path)
	return path
}
