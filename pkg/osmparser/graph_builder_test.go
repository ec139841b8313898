package osmparser

import (
	"errors"
	"math"
	"testing"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

func newTestParser(nodes map[int64]NodeCoord) *OsmParser {
	p := NewOsmParser(zap.NewNop())
	p.SetAcceptedNodeMap(nodes)
	return p
}

// four nodes roughly 111m apart on a meridian
func chainNodes() map[int64]NodeCoord {
	return map[int64]NodeCoord{
		100: {Lat: 0.000, Lon: 0},
		200: {Lat: 0.001, Lon: 0},
		300: {Lat: 0.002, Lon: 0},
		400: {Lat: 0.003, Lon: 0},
	}
}

func TestBuildEdgesTwoWay(t *testing.T) {
	p := newTestParser(chainNodes())

	edges := p.BuildEdges([]Way{
		{ID: 1, NodeIDs: []int64{100, 200, 300}, HwType: pkg.RESIDENTIAL},
	})

	// two segments, each emitted in both directions
	if len(edges) != 4 {
		t.Fatalf("got %d edges, expected 4", len(edges))
	}

	// dense ids follow first encounter along the way
	if edges[0].GetFrom() != 0 || edges[0].GetTo() != 1 {
		t.Errorf("first edge is %d->%d, expected 0->1", edges[0].GetFrom(), edges[0].GetTo())
	}
	if edges[1].GetFrom() != 1 || edges[1].GetTo() != 0 {
		t.Errorf("second edge is %d->%d, expected reverse 1->0", edges[1].GetFrom(), edges[1].GetTo())
	}

	// residential is 30 km/h; weight must be dist / speed
	speedMS := 30.0 * pkg.KMH_TO_MS
	for i := range edges {
		expected := edges[i].GetDist() / speedMS
		if math.Abs(edges[i].GetWeight()-expected) > 1e-9 {
			t.Errorf("edge %d weight %f, expected %f", i, edges[i].GetWeight(), expected)
		}
	}
}

func TestBuildEdgesOneWay(t *testing.T) {
	p := newTestParser(chainNodes())

	edges := p.BuildEdges([]Way{
		{ID: 1, NodeIDs: []int64{100, 200, 300}, HwType: pkg.PRIMARY, OneWay: true},
	})

	if len(edges) != 2 {
		t.Fatalf("got %d edges, expected 2 for a oneway way", len(edges))
	}
	if edges[0].GetFrom() != 0 || edges[0].GetTo() != 1 ||
		edges[1].GetFrom() != 1 || edges[1].GetTo() != 2 {
		t.Errorf("oneway edges do not follow node order: %d->%d, %d->%d",
			edges[0].GetFrom(), edges[0].GetTo(), edges[1].GetFrom(), edges[1].GetTo())
	}
}

func TestBuildEdgesReversedOneWay(t *testing.T) {
	p := newTestParser(chainNodes())

	edges := p.BuildEdges([]Way{
		{ID: 1, NodeIDs: []int64{100, 200, 300}, HwType: pkg.PRIMARY, OneWay: true, Reversed: true},
	})

	if len(edges) != 2 {
		t.Fatalf("got %d edges, expected 2", len(edges))
	}
	// oneway=-1 walks the node list back to front, so node 300 gets
	// dense id 0
	if edges[0].GetFrom() != 0 || edges[0].GetTo() != 1 ||
		edges[1].GetFrom() != 1 || edges[1].GetTo() != 2 {
		t.Errorf("reversed oneway edges wrong: %d->%d, %d->%d",
			edges[0].GetFrom(), edges[0].GetTo(), edges[1].GetFrom(), edges[1].GetTo())
	}
}

func TestBuildEdgesSkipsDanglingWays(t *testing.T) {
	p := newTestParser(chainNodes())

	edges := p.BuildEdges([]Way{
		{ID: 1, NodeIDs: []int64{100, 200}, HwType: pkg.RESIDENTIAL},
		{ID: 2, NodeIDs: []int64{200, 999}, HwType: pkg.RESIDENTIAL}, // 999 never delivered
	})

	if p.GetSkippedDanglingWays() != 1 {
		t.Errorf("skipped %d dangling ways, expected 1", p.GetSkippedDanglingWays())
	}
	if len(edges) != 2 {
		t.Errorf("got %d edges, the dangling way must not contribute any", len(edges))
	}
}

func TestBuildGraphEmptyInput(t *testing.T) {
	p := newTestParser(chainNodes())

	_, err := p.BuildGraph(nil)
	if err == nil {
		t.Fatal("expected an error for an empty edge stream")
	}
	var domainErr *util.Error
	if !errors.As(err, &domainErr) || !errors.Is(domainErr.Code(), util.ErrEmptyGraph) {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestBuildGraphCSRLayout(t *testing.T) {
	p := newTestParser(chainNodes())

	edges := p.BuildEdges([]Way{
		{ID: 1, NodeIDs: []int64{100, 200, 300, 400}, HwType: pkg.RESIDENTIAL},
	})
	graph, err := p.BuildGraph(edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if graph.NumberOfVertices() != 4 {
		t.Fatalf("got %d vertices, expected 4", graph.NumberOfVertices())
	}
	if graph.NumberOfEdges() != 6 {
		t.Fatalf("got %d edges, expected 6", graph.NumberOfEdges())
	}

	// middle vertices of a two-way chain see two neighbours each way
	if graph.GetOutDegree(1) != 2 || graph.GetInDegree(1) != 2 {
		t.Errorf("vertex 1 degrees out=%d in=%d, expected 2/2", graph.GetOutDegree(1), graph.GetInDegree(1))
	}
	if graph.GetOutDegree(0) != 1 || graph.GetOutDegree(3) != 1 {
		t.Errorf("endpoint degrees wrong: %d and %d", graph.GetOutDegree(0), graph.GetOutDegree(3))
	}

	// osm ids must survive the dense renumbering
	if graph.GetVertex(0).GetOsmID() != 100 || graph.GetVertex(3).GetOsmID() != 400 {
		t.Errorf("osm ids lost: %d and %d", graph.GetVertex(0).GetOsmID(), graph.GetVertex(3).GetOsmID())
	}

	// forward and reverse arrays must describe the same edge set
	for v := datastructure.Index(0); v < 4; v++ {
		graph.ForOutEdgesOf(v, func(e *datastructure.OutEdge) {
			found := false
			graph.ForInEdgesOf(e.GetHead(), func(in *datastructure.InEdge) {
				if in.GetEdgeId() == e.GetEdgeId() && in.GetTail() == v {
					found = true
				}
			})
			if !found {
				t.Errorf("out edge %d of vertex %d missing from the reverse array", e.GetEdgeId(), v)
			}
		})
	}
}
