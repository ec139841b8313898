package routing

import (
	"context"
	"time"

	"github.com/nordwand/routeplanner/pkg"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
Dijkstra baseline unidirectional search. Standard relaxation over the CSR
forward adjacency: settle the frontier vertex with the smallest tentative
distance, relax its outEdges, stop once the target is settled.

Weights are non-negative by the build contract; relaxation uses a strict
improvement test, so on equal tentative distances the earlier-discovered
parent stays and results are deterministic.

All state here is per query and dies with the query.
*/
type Dijkstra struct {
	engine *RoutingEngine

	dist      []float64
	parentArc []int32 // index into graph.outEdges, -1 for unset
	queue     *da.MinHeap[da.Index]
}

func NewDijkstra(engine *RoutingEngine) *Dijkstra {
	return &Dijkstra{engine: engine}
}

func (d *Dijkstra) preallocate() {
	n := d.engine.graph.NumberOfVertices()
	d.dist = make([]float64, n)
	d.parentArc = make([]int32, n)
	for i := 0; i < n; i++ {
		d.dist[i] = pkg.INF_WEIGHT
		d.parentArc[i] = -1
	}
	d.queue = da.NewFourAryHeap[da.Index]()
}

func (d *Dijkstra) ShortestPath(source, target da.Index, opts QueryOptions) PathResult {
	stats := metrics.NewQueryStats("dijkstra")
	start := time.Now()
	defer func() { stats.Observe(start) }()

	if source == target {
		return trivialResult(d.engine.graph, source, stats)
	}

	cf := d.engine.costFunctionFor(opts)
	g := d.engine.graph

	d.preallocate()
	d.dist[source] = 0
	d.queue.Insert(da.NewPriorityQueueNode(0, source))
	stats.Push()

	maxWeight := opts.MaxWeight
	if maxWeight <= 0 {
		maxWeight = pkg.INF_WEIGHT
	}

	for !d.queue.IsEmpty() {
		top, _ := d.queue.ExtractMin()
		u := top.GetItem()
		if top.GetRank() > d.dist[u] {
			continue // stale entry, u was settled through a better path
		}
		stats.Settle()

		if u == target {
			return d.buildResult(source, target, stats)
		}
		if d.dist[u] > maxWeight {
			break
		}

		uDist := d.dist[u]
		for i := g.GetVertex(u).GetFirstOut(); i < g.GetVertex(u+1).GetFirstOut(); i++ {
			e := g.GetOutEdge(i)
			newDist := uDist + cf.GetWeight(e)
			if newDist < d.dist[e.GetHead()] {
				d.dist[e.GetHead()] = newDist
				d.parentArc[e.GetHead()] = int32(i)
				d.queue.Insert(da.NewPriorityQueueNode(newDist, e.GetHead()))
				stats.Push()
			}
		}
	}

	// frontier drained without settling the target: unreachable, a
	// normal outcome
	return NewUnreachableResult(stats)
}

func (d *Dijkstra) buildResult(source, target da.Index, stats *metrics.QueryStats) PathResult {
	vertices := make([]da.Index, 0, 64)
	v := target
	for v != source {
		arc := d.parentArc[v]
		util.AssertPanic(arc >= 0, "dijkstra: settled vertex without parent arc")
		vertices = append(vertices, v)
		v = d.engine.graph.GetEdgeTail(da.Index(arc))
	}
	vertices = append(vertices, source)
	vertices = util.ReverseG(vertices)

	return resultFromVertices(d.engine.graph, vertices, d.dist[target], stats)
}

/*
OneToAll settles every vertex reachable from source, or only those within
opts.MaxWeight when a bound is set, returning the distance array. A
cancelled context stops the sweep early; both cases yield the partial
distances found so far rather than an error.
*/
func (d *Dijkstra) OneToAll(ctx context.Context, source da.Index, opts QueryOptions) []float64 {
	cf := d.engine.costFunctionFor(opts)
	g := d.engine.graph

	d.preallocate()
	d.dist[source] = 0
	d.queue.Insert(da.NewPriorityQueueNode(0, source))

	maxWeight := opts.MaxWeight
	if maxWeight <= 0 {
		maxWeight = pkg.INF_WEIGHT
	}

	for !d.queue.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			break
		}
		top, _ := d.queue.ExtractMin()
		u := top.GetItem()
		if top.GetRank() > d.dist[u] {
			continue
		}
		if d.dist[u] > maxWeight {
			break
		}

		uDist := d.dist[u]
		g.ForOutEdgesOf(u, func(e *da.OutEdge) {
			newDist := uDist + cf.GetWeight(e)
			if newDist < d.dist[e.GetHead()] {
				d.dist[e.GetHead()] = newDist
				d.queue.Insert(da.NewPriorityQueueNode(newDist, e.GetHead()))
			}
		})
	}

	return d.dist
}
