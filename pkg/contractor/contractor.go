package contractor

import (
	"runtime"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/concurrent"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"go.uber.org/zap"
)

const (
	// hop bound of the local witness searches. A tighter bound only makes
	// the search add a redundant shortcut, never a wrong one.
	witnessHopLimit = 5
)

/*
Contractor builds a contraction hierarchy over an immutable graph: it
repeatedly contracts the least important remaining vertex, inserting a
shortcut for a pair of neighbors only when the two-hop path through the
contracted vertex is the only shortest local alternative (witness search),
and records the contraction order as the vertex rank.

The importance priority is 2*edgeDifference + contractedNeighbours +
5*level, re-evaluated lazily through the priority queue. Ties fall back to
the smaller vertex id, which together with the sequential main loop makes
the rank order and shortcut set reproducible run to run; the initial
priorities may be computed on a worker pool because each one only reads
the untouched working graph and lands at its own index.
*/
type Contractor struct {
	log          *zap.Logger
	graph        *da.Graph
	costFunction costfunction.CostFunction

	edges  []da.CHEdge
	outAdj [][]da.Index
	inAdj  [][]da.Index

	contracted           []bool
	level                []int
	contractedNeighbours []int
	priorities           []float64

	rank []da.Index
}

func NewContractor(graph *da.Graph, costFunction costfunction.CostFunction, log *zap.Logger) *Contractor {
	n := graph.NumberOfVertices()

	c := &Contractor{
		log:                  log,
		graph:                graph,
		costFunction:         costFunction,
		edges:                make([]da.CHEdge, 0, graph.NumberOfEdges()*2),
		outAdj:               make([][]da.Index, n),
		inAdj:                make([][]da.Index, n),
		contracted:           make([]bool, n),
		level:                make([]int, n),
		contractedNeighbours: make([]int, n),
		priorities:           make([]float64, n),
		rank:                 make([]da.Index, n),
	}

	graph.ForOutEdges(func(e *da.OutEdge, tail da.Index) {
		if e.GetHead() == tail {
			return // self loop, never on a shortest path
		}
		c.addWorkingEdge(da.NewCHEdge(tail, e.GetHead(), costFunction.GetWeight(e), e.GetLength()))
	})

	return c
}

func (c *Contractor) addWorkingEdge(e da.CHEdge) da.Index {
	id := da.Index(len(c.edges))
	c.edges = append(c.edges, e)
	c.outAdj[e.GetTail()] = append(c.outAdj[e.GetTail()], id)
	c.inAdj[e.GetHead()] = append(c.inAdj[e.GetHead()], id)
	return id
}

// Contract runs the whole contraction and returns the finished hierarchy.
func (c *Contractor) Contract() *da.ContractedGraph {
	n := c.graph.NumberOfVertices()
	c.log.Info("contracting graph...",
		zap.Int("vertices", n), zap.Int("edges", c.graph.NumberOfEdges()),
		zap.String("metric", c.costFunction.Name()))

	c.computeInitialPriorities()

	queue := da.NewFourAryHeap[da.Index]()
	queue.Preallocate(n)
	for v := 0; v < n; v++ {
		queue.Insert(da.NewPriorityQueueNode(c.queueRank(da.Index(v)), da.Index(v)))
	}

	scratch := newWitnessScratch(n)

	nextRank := da.Index(0)
	for !queue.IsEmpty() {
		top, _ := queue.ExtractMin()
		v := top.GetItem()
		if c.contracted[v] || top.GetRank() != c.queueRank(v) {
			// stale entry, the vertex was re-enqueued with a fresher priority
			continue
		}

		c.contractVertex(v, scratch)
		c.rank[v] = nextRank
		nextRank++

		if nextRank%100000 == 0 {
			c.log.Info("contracting graph...", zap.Uint32("contracted", uint32(nextRank)))
		}

		for _, nbr := range c.uncontractedNeighbours(v) {
			c.level[nbr] = max(c.level[nbr], c.level[v]+1)
			c.contractedNeighbours[nbr]++
			c.priorities[nbr] = c.computePriority(nbr, scratch)
			queue.Insert(da.NewPriorityQueueNode(c.queueRank(nbr), nbr))
		}
	}

	chg := da.NewContractedGraph(n, c.costFunction.Name(), c.rank, c.edges)
	c.log.Info("finished contracting graph",
		zap.Int("shortcuts", chg.NumberOfShortcuts()),
		zap.Int("chEdges", chg.NumberOfEdges()))
	return chg
}

// queueRank priority with a vertex-id tie break, so equal priorities pop
// in a fixed order.
func (c *Contractor) queueRank(v da.Index) float64 {
	return c.priorities[v]*float64(c.graph.NumberOfVertices()) + float64(v)
}

func (c *Contractor) computeInitialPriorities() {
	n := c.graph.NumberOfVertices()
	numWorkers := runtime.GOMAXPROCS(0)

	type chunk struct{ lo, hi int }
	chunkSize := max(1, n/(numWorkers*8))
	chunks := make([]chunk, 0, n/chunkSize+1)
	for lo := 0; lo < n; lo += chunkSize {
		chunks = append(chunks, chunk{lo: lo, hi: min(lo+chunkSize, n)})
	}

	// queue capacity covers every job, so workers never block on the
	// results channel before Wait drains it
	pool := concurrent.NewWorkerPool[chunk, struct{}](numWorkers, len(chunks))
	pool.Start(func(job chunk) struct{} {
		scratch := newWitnessScratch(n)
		for v := job.lo; v < job.hi; v++ {
			// disjoint index ranges, no two workers write the same slot
			c.priorities[v] = c.computePriority(da.Index(v), scratch)
		}
		return struct{}{}
	})

	go func() {
		for _, jb := range chunks {
			pool.AddJob(jb)
		}
		pool.Close()
	}()
	pool.Wait()
	for range pool.CollectResults() {
	}
}

// computePriority simulates the contraction of v without mutating the
// working graph.
func (c *Contractor) computePriority(v da.Index, scratch *witnessScratch) float64 {
	inNbrs, outNbrs := c.neighboursOf(v)

	shortcuts := 0
	for _, u := range inNbrs {
		c.runWitnessSearch(u, v, outNbrs, scratch)
		for _, w := range outNbrs {
			if u == w {
				continue
			}
			if _, _, _, needed := c.shortcutFor(u, v, w, scratch); needed {
				shortcuts++
			}
		}
	}

	edgeDiff := shortcuts - (len(inNbrs) + len(outNbrs))
	return float64(2*edgeDiff + c.contractedNeighbours[v] + 5*c.level[v])
}

func (c *Contractor) contractVertex(v da.Index, scratch *witnessScratch) {
	inNbrs, outNbrs := c.neighboursOf(v)

	for _, u := range inNbrs {
		c.runWitnessSearch(u, v, outNbrs, scratch)
		for _, w := range outNbrs {
			if u == w {
				continue
			}
			left, right, weight, needed := c.shortcutFor(u, v, w, scratch)
			if !needed {
				continue
			}
			dist := c.edges[left].GetLength() + c.edges[right].GetLength()
			c.addWorkingEdge(da.NewShortcutEdge(u, w, weight, dist, v, left, right))
		}
	}

	c.contracted[v] = true
}

// shortcutFor decides whether contracting v forces the shortcut u->w and
// returns its constituent edge ids and weight. Requires a witness search
// from u to be loaded in scratch.
func (c *Contractor) shortcutFor(u, v, w da.Index, scratch *witnessScratch) (da.Index, da.Index, float64, bool) {
	left, leftWeight := c.minEdgeBetween(u, v)
	right, rightWeight := c.minEdgeBetween(v, w)
	if left == da.INVALID_EDGE_ID || right == da.INVALID_EDGE_ID {
		return da.INVALID_EDGE_ID, da.INVALID_EDGE_ID, 0, false
	}
	shortcutWeight := leftWeight + rightWeight

	// a witness path not through v that is at least as good makes the
	// shortcut redundant
	if scratch.distOf(w) <= shortcutWeight {
		return da.INVALID_EDGE_ID, da.INVALID_EDGE_ID, 0, false
	}
	return left, right, shortcutWeight, true
}

func (c *Contractor) minEdgeBetween(u, v da.Index) (da.Index, float64) {
	best := da.INVALID_EDGE_ID
	bestWeight := pkg.INF_WEIGHT
	for _, id := range c.outAdj[u] {
		e := &c.edges[id]
		if e.GetHead() == v && e.GetWeight() < bestWeight {
			best = id
			bestWeight = e.GetWeight()
		}
	}
	return best, bestWeight
}

func (c *Contractor) neighboursOf(v da.Index) ([]da.Index, []da.Index) {
	inNbrs := make([]da.Index, 0, len(c.inAdj[v]))
	seen := make(map[da.Index]struct{}, len(c.inAdj[v]))
	for _, id := range c.inAdj[v] {
		tail := c.edges[id].GetTail()
		if c.contracted[tail] || tail == v {
			continue
		}
		if _, ok := seen[tail]; ok {
			continue
		}
		seen[tail] = struct{}{}
		inNbrs = append(inNbrs, tail)
	}

	outNbrs := make([]da.Index, 0, len(c.outAdj[v]))
	seenOut := make(map[da.Index]struct{}, len(c.outAdj[v]))
	for _, id := range c.outAdj[v] {
		head := c.edges[id].GetHead()
		if c.contracted[head] || head == v {
			continue
		}
		if _, ok := seenOut[head]; ok {
			continue
		}
		seenOut[head] = struct{}{}
		outNbrs = append(outNbrs, head)
	}

	return inNbrs, outNbrs
}

func (c *Contractor) uncontractedNeighbours(v da.Index) []da.Index {
	inNbrs, outNbrs := c.neighboursOf(v)
	seen := make(map[da.Index]struct{}, len(inNbrs)+len(outNbrs))
	nbrs := make([]da.Index, 0, len(inNbrs)+len(outNbrs))
	for _, u := range inNbrs {
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			nbrs = append(nbrs, u)
		}
	}
	for _, u := range outNbrs {
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			nbrs = append(nbrs, u)
		}
	}
	return nbrs
}
