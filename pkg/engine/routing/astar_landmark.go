package routing

import (
	"time"

	"github.com/nordwand/routeplanner/pkg"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
AStarLandmark goal-directed forward search using precomputed landmark
distance tables. The heuristic is the largest triangle-inequality lower
bound over all landmarks; it is admissible and consistent, so the first
time the target is settled its distance is final, same as plain
Dijkstra with fewer settled vertices.
*/
type AStarLandmark struct {
	engine *RoutingEngine

	dist      []float64
	parentArc []int32
	queue     *da.MinHeap[da.Index]
}

func NewAStarLandmark(engine *RoutingEngine) *AStarLandmark {
	return &AStarLandmark{engine: engine}
}

func (a *AStarLandmark) preallocate() {
	n := a.engine.graph.NumberOfVertices()
	a.dist = make([]float64, n)
	a.parentArc = make([]int32, n)
	for i := 0; i < n; i++ {
		a.dist[i] = pkg.INF_WEIGHT
		a.parentArc[i] = -1
	}
	a.queue = da.NewFourAryHeap[da.Index]()
}

func (a *AStarLandmark) ShortestPath(source, target da.Index, opts QueryOptions) PathResult {
	stats := metrics.NewQueryStats("astar_landmark")
	start := time.Now()
	defer func() { stats.Observe(start) }()

	if source == target {
		return trivialResult(a.engine.graph, source, stats)
	}

	cf := a.engine.costFunctionFor(opts)
	g := a.engine.graph
	lm := a.engine.landmarks

	a.preallocate()
	a.dist[source] = 0
	a.queue.Insert(da.NewPriorityQueueNode(lm.Heuristic(source, target), source))
	stats.Push()

	maxWeight := opts.MaxWeight
	if maxWeight <= 0 {
		maxWeight = pkg.INF_WEIGHT
	}

	for !a.queue.IsEmpty() {
		top, _ := a.queue.ExtractMin()
		u := top.GetItem()
		if top.GetRank() > a.dist[u]+lm.Heuristic(u, target) {
			continue
		}
		stats.Settle()

		if u == target {
			return a.buildResult(source, target, stats)
		}
		if a.dist[u] > maxWeight {
			break
		}

		uDist := a.dist[u]
		for i := g.GetVertex(u).GetFirstOut(); i < g.GetVertex(u+1).GetFirstOut(); i++ {
			e := g.GetOutEdge(i)
			h := e.GetHead()
			newDist := uDist + cf.GetWeight(e)
			if newDist < a.dist[h] {
				a.dist[h] = newDist
				a.parentArc[h] = int32(i)
				a.queue.Insert(da.NewPriorityQueueNode(newDist+lm.Heuristic(h, target), h))
				stats.Push()
			}
		}
	}

	return NewUnreachableResult(stats)
}

func (a *AStarLandmark) buildResult(source, target da.Index, stats *metrics.QueryStats) PathResult {
	vertices := make([]da.Index, 0, 64)
	v := target
	for v != source {
		arc := a.parentArc[v]
		util.AssertPanic(arc >= 0, "astar landmark: settled vertex without parent arc")
		vertices = append(vertices, v)
		v = a.engine.graph.GetEdgeTail(da.Index(arc))
	}
	vertices = append(vertices, source)
	vertices = util.ReverseG(vertices)

	return resultFromVertices(a.engine.graph, vertices, a.dist[target], stats)
}
