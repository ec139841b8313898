package datastructure

import (
	"math"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/geo"
	"github.com/nordwand/routeplanner/pkg/util"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_EDGE_ID   Index = math.MaxUint32
)

type Vertex struct {
	lat      float64
	lon      float64
	firstOut Index // index of the first outEdge of this vertex in the flattened graph.outEdges array
	firstIn  Index // index of the first inEdge of this vertex in the flattened graph.inEdges array
	id       Index
	osmId    int64
}

func NewVertex(lat, lon float64, id Index, osmId int64) *Vertex {
	return &Vertex{
		lat:   lat,
		lon:   lon,
		id:    id,
		osmId: osmId,
	}
}

func (v *Vertex) SetFirstOut(firstOut Index) {
	v.firstOut = firstOut
}

func (v *Vertex) SetFirstIn(firstIn Index) {
	v.firstIn = firstIn
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmId
}

func (v *Vertex) GetFirstOut() Index {
	return v.firstOut
}

func (v *Vertex) GetFirstIn() Index {
	return v.firstIn
}

// OutEdge. directed edge leaving its tail vertex, stored in the forward adjacency array.
type OutEdge struct {
	weight float64 // second
	dist   float64 // meter
	edgeId Index
	head   Index
	hwType pkg.OsmHighwayType
}

// InEdge. the same directed edge seen from its head vertex, stored in the reverse adjacency array.
type InEdge struct {
	weight float64 // second
	dist   float64 // meter
	edgeId Index
	tail   Index
	hwType pkg.OsmHighwayType
}

func NewOutEdge(edgeId, head Index, weight, dist float64, hwType pkg.OsmHighwayType) OutEdge {
	return OutEdge{
		edgeId: edgeId,
		head:   head,
		weight: weight,
		dist:   dist,
		hwType: hwType,
	}
}

func NewInEdge(edgeId, tail Index, weight, dist float64, hwType pkg.OsmHighwayType) InEdge {
	return InEdge{
		edgeId: edgeId,
		tail:   tail,
		weight: weight,
		dist:   dist,
		hwType: hwType,
	}
}

func (e *OutEdge) GetWeight() float64 {
	return e.weight
}

func (e *OutEdge) GetLength() float64 {
	return e.dist
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e *OutEdge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

func (e *InEdge) GetWeight() float64 {
	return e.weight
}

func (e *InEdge) GetLength() float64 {
	return e.dist
}

func (e *InEdge) GetTail() Index {
	return e.tail
}

func (e *InEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e *InEdge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

/*
Graph. immutable compressed-sparse-row road network.

vertices has NumberOfVertices()+1 entries; the sentinel vertex stores the
past-the-end offsets, so the outEdges of vertex v occupy
outEdges[vertices[v].firstOut : vertices[v+1].firstOut] and likewise for
inEdges. Nothing mutates these arrays after the builder returns, so any
number of concurrent query goroutines may read them without locking.
*/
type Graph struct {
	vertices []Vertex
	outEdges []OutEdge
	inEdges  []InEdge
}

func NewGraph(vertices []Vertex, outEdges []OutEdge, inEdges []InEdge) *Graph {
	for i := range outEdges {
		util.AssertPanic(outEdges[i].weight >= 0, "graph: negative edge weight")
	}
	return &Graph{
		vertices: vertices,
		outEdges: outEdges,
		inEdges:  inEdges,
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *Graph) GetVertex(v Index) *Vertex {
	return &g.vertices[v]
}

func (g *Graph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.vertices[v].lat, g.vertices[v].lon
}

func (g *Graph) GetCoordinate(v Index) geo.Coordinate {
	return geo.NewCoordinate(g.vertices[v].lat, g.vertices[v].lon)
}

func (g *Graph) GetOutDegree(v Index) Index {
	return g.vertices[v+1].firstOut - g.vertices[v].firstOut
}

func (g *Graph) GetInDegree(v Index) Index {
	return g.vertices[v+1].firstIn - g.vertices[v].firstIn
}

func (g *Graph) GetOutEdge(e Index) *OutEdge {
	return &g.outEdges[e]
}

func (g *Graph) GetInEdge(e Index) *InEdge {
	return &g.inEdges[e]
}

// GetEdgeTail. tail vertex of outEdges[e], recovered from the offset array.
func (g *Graph) GetEdgeTail(e Index) Index {
	lo, hi := Index(0), Index(g.NumberOfVertices())
	for lo < hi {
		mid := (lo + hi) / 2
		if g.vertices[mid+1].firstOut <= e {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// GetEdgeHead. head vertex of inEdges[e], recovered from the offset array.
func (g *Graph) GetEdgeHead(e Index) Index {
	lo, hi := Index(0), Index(g.NumberOfVertices())
	for lo < hi {
		mid := (lo + hi) / 2
		if g.vertices[mid+1].firstIn <= e {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// ForOutEdgesOf iterates the contiguous outEdge slice of vertex v.
// This is the innermost loop of every shortest-path search.
func (g *Graph) ForOutEdgesOf(v Index, handle func(e *OutEdge)) {
	for i := g.vertices[v].firstOut; i < g.vertices[v+1].firstOut; i++ {
		handle(&g.outEdges[i])
	}
}

// ForInEdgesOf iterates the contiguous inEdge slice of vertex v. Used by
// the backward half of bidirectional searches.
func (g *Graph) ForInEdgesOf(v Index, handle func(e *InEdge)) {
	for i := g.vertices[v].firstIn; i < g.vertices[v+1].firstIn; i++ {
		handle(&g.inEdges[i])
	}
}

// ForOutEdges iterates every edge of the graph together with its tail.
func (g *Graph) ForOutEdges(handle func(e *OutEdge, tail Index)) {
	for v := Index(0); v < Index(g.NumberOfVertices()); v++ {
		for i := g.vertices[v].firstOut; i < g.vertices[v+1].firstOut; i++ {
			handle(&g.outEdges[i], v)
		}
	}
}

// IsValidVertex reports whether v is a vertex id of this graph.
func (g *Graph) IsValidVertex(v Index) bool {
	return int(v) < g.NumberOfVertices()
}

func Eq(a, b float64) bool {
	return math.Abs(a-b) <= pkg.EPS
}

func Lt(a, b float64) bool {
	return a+pkg.EPS < b
}

func Ge(a, b float64) bool {
	return !Lt(a, b)
}
