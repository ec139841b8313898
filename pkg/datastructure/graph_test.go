package datastructure

import (
	"testing"

	"github.com/nordwand/routeplanner/pkg"
)

type testEdge struct {
	from, to Index
	weight   float64
}

// buildTestGraph lays a directed edge list out in csr form, with vertex v
// placed at lat=v, lon=v so coordinate lookups stay distinguishable.
func buildTestGraph(numV int, edges []testEdge) *Graph {
	outDegree := make([]Index, numV+1)
	inDegree := make([]Index, numV+1)
	for _, e := range edges {
		outDegree[e.from]++
		inDegree[e.to]++
	}

	vertices := make([]Vertex, numV+1)
	firstOut, firstIn := Index(0), Index(0)
	for v := 0; v <= numV; v++ {
		vertices[v] = *NewVertex(float64(v), float64(v), Index(v), int64(v))
		vertices[v].SetFirstOut(firstOut)
		vertices[v].SetFirstIn(firstIn)
		if v < numV {
			firstOut += outDegree[v]
			firstIn += inDegree[v]
		}
	}

	outEdges := make([]OutEdge, len(edges))
	inEdges := make([]InEdge, len(edges))
	outNext := make([]Index, numV)
	inNext := make([]Index, numV)
	for v := 0; v < numV; v++ {
		outNext[v] = vertices[v].GetFirstOut()
		inNext[v] = vertices[v].GetFirstIn()
	}
	for i, e := range edges {
		outEdges[outNext[e.from]] = NewOutEdge(Index(i), e.to, e.weight, e.weight*100, pkg.RESIDENTIAL)
		outNext[e.from]++
		inEdges[inNext[e.to]] = NewInEdge(Index(i), e.from, e.weight, e.weight*100, pkg.RESIDENTIAL)
		inNext[e.to]++
	}

	return NewGraph(vertices, outEdges, inEdges)
}

func TestGraphDegreesAndIteration(t *testing.T) {
	g := buildTestGraph(4, []testEdge{
		{0, 1, 1}, {0, 2, 2}, {1, 2, 1}, {2, 3, 3}, {3, 0, 1},
	})

	if g.NumberOfVertices() != 4 {
		t.Fatalf("got %d vertices, expected 4", g.NumberOfVertices())
	}
	if g.NumberOfEdges() != 5 {
		t.Fatalf("got %d edges, expected 5", g.NumberOfEdges())
	}
	if g.GetOutDegree(0) != 2 || g.GetInDegree(2) != 2 {
		t.Errorf("degree mismatch: outDeg(0)=%d inDeg(2)=%d", g.GetOutDegree(0), g.GetInDegree(2))
	}

	heads := []Index{}
	g.ForOutEdgesOf(0, func(e *OutEdge) {
		heads = append(heads, e.GetHead())
	})
	if len(heads) != 2 || heads[0] != 1 || heads[1] != 2 {
		t.Errorf("out edges of 0 iterate %v, expected [1 2]", heads)
	}

	tails := []Index{}
	g.ForInEdgesOf(2, func(e *InEdge) {
		tails = append(tails, e.GetTail())
	})
	if len(tails) != 2 || tails[0] != 0 || tails[1] != 1 {
		t.Errorf("in edges of 2 iterate %v, expected [0 1]", tails)
	}
}

func TestGraphEdgeTailAndHead(t *testing.T) {
	g := buildTestGraph(4, []testEdge{
		{0, 1, 1}, {0, 2, 2}, {1, 2, 1}, {2, 3, 3}, {3, 0, 1},
	})

	// every out-edge slot must map back to its owning tail
	for v := Index(0); v < 4; v++ {
		for i := g.GetVertex(v).GetFirstOut(); i < g.GetVertex(v+1).GetFirstOut(); i++ {
			if got := g.GetEdgeTail(i); got != v {
				t.Errorf("GetEdgeTail(%d) = %d, expected %d", i, got, v)
			}
		}
		for i := g.GetVertex(v).GetFirstIn(); i < g.GetVertex(v+1).GetFirstIn(); i++ {
			if got := g.GetEdgeHead(i); got != v {
				t.Errorf("GetEdgeHead(%d) = %d, expected %d", i, got, v)
			}
		}
	}
}

func TestGraphIsValidVertex(t *testing.T) {
	g := buildTestGraph(3, []testEdge{{0, 1, 1}, {1, 2, 1}})

	if !g.IsValidVertex(0) || !g.IsValidVertex(2) {
		t.Error("in-range vertices reported invalid")
	}
	if g.IsValidVertex(3) {
		t.Error("vertex 3 should be out of range for a 3-vertex graph")
	}
}
