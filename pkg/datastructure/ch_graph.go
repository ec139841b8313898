package datastructure

import (
	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
CHEdge. an edge of the contraction hierarchy, either one of the original
graph edges or a shortcut replacing the two-hop path through a contracted
vertex. Shortcuts keep the ids of their two constituent ch-edges so a
query path can be unpacked back to original vertices exactly.
*/
type CHEdge struct {
	tail   Index
	head   Index
	weight float64
	dist   float64
	via    Index // contracted middle vertex, INVALID_VERTEX_ID for original edges
	left   Index // ch-edge id of tail -> via
	right  Index // ch-edge id of via -> head
}

func NewCHEdge(tail, head Index, weight, dist float64) CHEdge {
	return CHEdge{
		tail:   tail,
		head:   head,
		weight: weight,
		dist:   dist,
		via:    INVALID_VERTEX_ID,
		left:   INVALID_EDGE_ID,
		right:  INVALID_EDGE_ID,
	}
}

func NewShortcutEdge(tail, head Index, weight, dist float64, via, left, right Index) CHEdge {
	return CHEdge{
		tail:   tail,
		head:   head,
		weight: weight,
		dist:   dist,
		via:    via,
		left:   left,
		right:  right,
	}
}

func (e *CHEdge) GetTail() Index {
	return e.tail
}

func (e *CHEdge) GetHead() Index {
	return e.head
}

func (e *CHEdge) GetWeight() float64 {
	return e.weight
}

func (e *CHEdge) GetLength() float64 {
	return e.dist
}

func (e *CHEdge) GetVia() Index {
	return e.via
}

func (e *CHEdge) IsShortcut() bool {
	return e.via != INVALID_VERTEX_ID
}

/*
ContractedGraph. immutable overlay produced by the contractor: the
original edges plus shortcut edges, and a total rank order over vertices.

The upward forward adjacency of v holds the ch-edges (v,w) with
rank(w) > rank(v); the upward backward adjacency holds the ch-edges (w,v)
with rank(w) > rank(v). The bidirectional query relaxes only these, which
is what makes the search spaces tiny. Ranks are distinct, so every edge
lands in exactly one of the two arrays.
*/
type ContractedGraph struct {
	numVertices int
	metric      string // cost function the hierarchy was contracted for
	rank        []Index
	edges       []CHEdge

	upOutOffset []Index
	upOut       []Index
	upInOffset  []Index
	upIn        []Index
}

func NewContractedGraph(numVertices int, metric string, rank []Index, edges []CHEdge) *ContractedGraph {
	chg := &ContractedGraph{
		numVertices: numVertices,
		metric:      metric,
		rank:        rank,
		edges:       edges,
	}
	chg.buildUpwardAdjacency()
	return chg
}

// GetMetric name of the cost function this hierarchy is valid for.
func (chg *ContractedGraph) GetMetric() string {
	return chg.metric
}

func (chg *ContractedGraph) buildUpwardAdjacency() {
	n := chg.numVertices
	outDegree := make([]Index, n+1)
	inDegree := make([]Index, n+1)

	for i := range chg.edges {
		e := &chg.edges[i]
		if chg.rank[e.head] > chg.rank[e.tail] {
			outDegree[e.tail]++
		} else {
			inDegree[e.head]++
		}
	}

	chg.upOutOffset = make([]Index, n+1)
	chg.upInOffset = make([]Index, n+1)
	for v := 1; v <= n; v++ {
		chg.upOutOffset[v] = chg.upOutOffset[v-1] + outDegree[v-1]
		chg.upInOffset[v] = chg.upInOffset[v-1] + inDegree[v-1]
	}

	chg.upOut = make([]Index, chg.upOutOffset[n])
	chg.upIn = make([]Index, chg.upInOffset[n])

	outNext := make([]Index, n)
	inNext := make([]Index, n)
	copy(outNext, chg.upOutOffset[:n])
	copy(inNext, chg.upInOffset[:n])

	for i := range chg.edges {
		e := &chg.edges[i]
		if chg.rank[e.head] > chg.rank[e.tail] {
			chg.upOut[outNext[e.tail]] = Index(i)
			outNext[e.tail]++
		} else {
			chg.upIn[inNext[e.head]] = Index(i)
			inNext[e.head]++
		}
	}
}

func (chg *ContractedGraph) NumberOfVertices() int {
	return chg.numVertices
}

func (chg *ContractedGraph) NumberOfEdges() int {
	return len(chg.edges)
}

func (chg *ContractedGraph) NumberOfShortcuts() int {
	count := 0
	for i := range chg.edges {
		if chg.edges[i].IsShortcut() {
			count++
		}
	}
	return count
}

func (chg *ContractedGraph) GetRank(v Index) Index {
	return chg.rank[v]
}

func (chg *ContractedGraph) GetRanks() []Index {
	return chg.rank
}

func (chg *ContractedGraph) GetEdge(e Index) *CHEdge {
	return &chg.edges[e]
}

func (chg *ContractedGraph) GetEdges() []CHEdge {
	return chg.edges
}

// ForUpwardOutEdgesOf iterates the ch-edges leaving v toward higher-ranked vertices.
func (chg *ContractedGraph) ForUpwardOutEdgesOf(v Index, handle func(e *CHEdge, edgeId Index)) {
	for i := chg.upOutOffset[v]; i < chg.upOutOffset[v+1]; i++ {
		handle(&chg.edges[chg.upOut[i]], chg.upOut[i])
	}
}

// ForUpwardInEdgesOf iterates the ch-edges entering v from higher-ranked vertices.
func (chg *ContractedGraph) ForUpwardInEdgesOf(v Index, handle func(e *CHEdge, edgeId Index)) {
	for i := chg.upInOffset[v]; i < chg.upInOffset[v+1]; i++ {
		handle(&chg.edges[chg.upIn[i]], chg.upIn[i])
	}
}

/*
UnpackEdge appends the vertex sequence of ch-edge e to path, excluding the
edge's tail. A shortcut missing one of its child edges means the contractor
produced an inconsistent hierarchy; continuing would silently return wrong
routes, so that is a panic, not an error.
*/
func (chg *ContractedGraph) UnpackEdge(e Index, path *[]Index) {
	edge := &chg.edges[e]
	if !edge.IsShortcut() {
		*path = append(*path, edge.head)
		return
	}

	util.AssertPanic(edge.left != INVALID_EDGE_ID && edge.right != INVALID_EDGE_ID,
		"contraction hierarchy: shortcut without child edges")
	util.AssertPanic(chg.edges[edge.left].head == edge.via && chg.edges[edge.right].tail == edge.via,
		"contraction hierarchy: shortcut children do not meet at the bypassed vertex")

	chg.UnpackEdge(edge.left, path)
	chg.UnpackEdge(edge.right, path)
}

// MinRankEdgeWeight smallest weight among parallel upward edges v->w, used by tests.
func (chg *ContractedGraph) MinUpwardWeight(v, w Index) float64 {
	best := pkg.INF_WEIGHT
	chg.ForUpwardOutEdgesOf(v, func(e *CHEdge, _ Index) {
		if e.head == w && e.weight < best {
			best = e.weight
		}
	})
	return best
}
