package routing

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/contractor"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/landmark"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

type testEdge struct {
	from, to da.Index
	weight   float64
}

// buildGraph lays a directed edge list out in csr form; vertex v sits at
// lat=v*1e-3 so path coordinates stay distinguishable.
func buildGraph(numV int, edges []testEdge) *da.Graph {
	outDegree := make([]da.Index, numV+1)
	inDegree := make([]da.Index, numV+1)
	for _, e := range edges {
		outDegree[e.from]++
		inDegree[e.to]++
	}

	vertices := make([]da.Vertex, numV+1)
	firstOut, firstIn := da.Index(0), da.Index(0)
	for v := 0; v <= numV; v++ {
		vertices[v] = *da.NewVertex(float64(v)*1e-3, float64(v)*1e-3, da.Index(v), int64(v))
		vertices[v].SetFirstOut(firstOut)
		vertices[v].SetFirstIn(firstIn)
		if v < numV {
			firstOut += outDegree[v]
			firstIn += inDegree[v]
		}
	}

	outEdges := make([]da.OutEdge, len(edges))
	inEdges := make([]da.InEdge, len(edges))
	outNext := make([]da.Index, numV)
	inNext := make([]da.Index, numV)
	for v := 0; v < numV; v++ {
		outNext[v] = vertices[v].GetFirstOut()
		inNext[v] = vertices[v].GetFirstIn()
	}
	for i, e := range edges {
		outEdges[outNext[e.from]] = da.NewOutEdge(da.Index(i), e.to, e.weight, e.weight*100, pkg.RESIDENTIAL)
		outNext[e.from]++
		inEdges[inNext[e.to]] = da.NewInEdge(da.Index(i), e.from, e.weight, e.weight*100, pkg.RESIDENTIAL)
		inNext[e.to]++
	}

	return da.NewGraph(vertices, outEdges, inEdges)
}

func newTestEngine(g *da.Graph) *RoutingEngine {
	return NewRoutingEngine(g, nil, nil, zap.NewNop())
}

func newTestEngineWithCH(g *da.Graph) *RoutingEngine {
	ch := contractor.NewContractor(g, costfunction.NewTimeCostFunction(), zap.NewNop()).Contract()
	return NewRoutingEngine(g, ch, nil, zap.NewNop())
}

func fiveVertexGraph() *da.Graph {
	return buildGraph(5, []testEdge{
		{0, 1, 2}, {1, 2, 2}, {0, 2, 5}, {2, 3, 1}, {3, 4, 1},
	})
}

func TestDijkstraPicksCheaperDetour(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	d := NewDijkstra(re)
	result := d.ShortestPath(0, 4, DefaultQueryOptions())

	if !result.Found {
		t.Fatal("path 0->4 should exist")
	}
	if !da.Eq(result.TotalWeight, 6) {
		t.Errorf("total weight %f, expected 6", result.TotalWeight)
	}
	expected := []da.Index{0, 1, 2, 3, 4}
	if len(result.Vertices) != len(expected) {
		t.Fatalf("path %v, expected %v", result.Vertices, expected)
	}
	for i := range expected {
		if result.Vertices[i] != expected[i] {
			t.Fatalf("path %v, expected %v", result.Vertices, expected)
		}
	}
}

func TestOneWayUnreachable(t *testing.T) {
	g := buildGraph(3, []testEdge{
		{0, 1, 1}, {1, 2, 1},
	})
	re := newTestEngine(g)

	result, err := re.ShortestPath(2, 1, DefaultQueryOptions())
	if err != nil {
		t.Fatalf("unreachable must not be an error, got %v", err)
	}
	if result.Found {
		t.Error("2->1 should be unreachable, the edges only go forward")
	}
}

func TestSourceEqualsTarget(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	result, err := re.ShortestPath(3, 3, DefaultQueryOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found {
		t.Fatal("source==target must be found")
	}
	if result.TotalWeight != 0 {
		t.Errorf("total weight %f, expected 0", result.TotalWeight)
	}
	if len(result.Vertices) != 1 || result.Vertices[0] != 3 {
		t.Errorf("path %v, expected the single vertex [3]", result.Vertices)
	}
}

func TestOutOfRangeVertexIsError(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	_, err := re.ShortestPath(0, 99, DefaultQueryOptions())
	if err == nil {
		t.Fatal("expected an error for an out-of-range target")
	}
	var domainErr *util.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != util.ErrBadParamInput {
		t.Errorf("expected ErrBadParamInput, got %v", err)
	}
}

func TestBidirectionalMatchesDijkstra(t *testing.T) {
	g := randomGraph(60, 240, 7)
	re := newTestEngine(g)

	d := NewDijkstra(re)
	bd := NewBidirectionalDijkstra(re)
	opts := DefaultQueryOptions()

	for s := da.Index(0); s < 10; s++ {
		for tgt := da.Index(0); tgt < da.Index(g.NumberOfVertices()); tgt += 7 {
			dr := d.ShortestPath(s, tgt, opts)
			br := bd.ShortestPath(s, tgt, opts)
			if dr.Found != br.Found {
				t.Fatalf("%d->%d: found mismatch dijkstra=%v bidirectional=%v", s, tgt, dr.Found, br.Found)
			}
			if dr.Found && !da.Eq(dr.TotalWeight, br.TotalWeight) {
				t.Fatalf("%d->%d: weight mismatch dijkstra=%f bidirectional=%f", s, tgt, dr.TotalWeight, br.TotalWeight)
			}
		}
	}
}

func TestCHMatchesDijkstra(t *testing.T) {
	g := randomGraph(60, 240, 11)
	re := newTestEngineWithCH(g)

	d := NewDijkstra(re)
	chq := NewCHDijkstra(re)
	opts := DefaultQueryOptions()

	for s := da.Index(0); s < 10; s++ {
		for tgt := da.Index(0); tgt < da.Index(g.NumberOfVertices()); tgt += 5 {
			dr := d.ShortestPath(s, tgt, opts)
			cr := chq.ShortestPath(s, tgt, opts)
			if dr.Found != cr.Found {
				t.Fatalf("%d->%d: found mismatch dijkstra=%v ch=%v", s, tgt, dr.Found, cr.Found)
			}
			if !dr.Found {
				continue
			}
			if !da.Eq(dr.TotalWeight, cr.TotalWeight) {
				t.Fatalf("%d->%d: weight mismatch dijkstra=%f ch=%f", s, tgt, dr.TotalWeight, cr.TotalWeight)
			}
			verifyPathWeight(t, g, cr.Vertices, cr.TotalWeight)
		}
	}
}

func TestCHUnpacksOriginalVertices(t *testing.T) {
	re := newTestEngineWithCH(fiveVertexGraph())

	chq := NewCHDijkstra(re)
	result := chq.ShortestPath(0, 4, DefaultQueryOptions())

	if !result.Found {
		t.Fatal("path 0->4 should exist")
	}
	if !da.Eq(result.TotalWeight, 6) {
		t.Errorf("total weight %f, expected 6", result.TotalWeight)
	}
	expected := []da.Index{0, 1, 2, 3, 4}
	if len(result.Vertices) != len(expected) {
		t.Fatalf("unpacked path %v, expected %v", result.Vertices, expected)
	}
	for i := range expected {
		if result.Vertices[i] != expected[i] {
			t.Fatalf("unpacked path %v, expected %v", result.Vertices, expected)
		}
	}
}

func TestALTMatchesDijkstra(t *testing.T) {
	g := randomGraph(60, 240, 13)
	lm := landmark.SelectAndPrecompute(g, 4, costfunction.NewTimeCostFunction(), zap.NewNop())
	re := NewRoutingEngine(g, nil, lm, zap.NewNop())

	d := NewDijkstra(re)
	alt := NewAStarLandmark(re)
	opts := DefaultQueryOptions()

	for s := da.Index(0); s < 8; s++ {
		for tgt := da.Index(0); tgt < da.Index(g.NumberOfVertices()); tgt += 9 {
			dr := d.ShortestPath(s, tgt, opts)
			ar := alt.ShortestPath(s, tgt, opts)
			if dr.Found != ar.Found {
				t.Fatalf("%d->%d: found mismatch dijkstra=%v alt=%v", s, tgt, dr.Found, ar.Found)
			}
			if dr.Found && !da.Eq(dr.TotalWeight, ar.TotalWeight) {
				t.Fatalf("%d->%d: weight mismatch dijkstra=%f alt=%f", s, tgt, dr.TotalWeight, ar.TotalWeight)
			}
		}
	}
}

func TestMaxWeightBound(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	opts := DefaultQueryOptions()
	opts.MaxWeight = 3

	d := NewDijkstra(re)
	if result := d.ShortestPath(0, 4, opts); result.Found {
		t.Error("0->4 costs 6, a bound of 3 must report unreachable")
	}
	if result := d.ShortestPath(0, 1, opts); !result.Found {
		t.Error("0->1 costs 2, it must stay reachable under a bound of 3")
	}
}

func TestOneToAll(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	dist, err := re.OneToAll(context.Background(), 0, DefaultQueryOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{0, 2, 4, 5, 6}
	for v, want := range expected {
		if !da.Eq(dist[v], want) {
			t.Errorf("dist[%d] = %f, expected %f", v, dist[v], want)
		}
	}
}

func TestOneToAllMaxWeightPartial(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	opts := DefaultQueryOptions()
	opts.MaxWeight = 4

	dist, err := re.OneToAll(context.Background(), 0, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !da.Eq(dist[2], 4) {
		t.Errorf("dist[2] = %f, expected 4 inside the bound", dist[2])
	}
	if dist[4] < pkg.INF_WEIGHT {
		t.Errorf("dist[4] = %f, vertex 4 lies beyond the bound and must stay unsettled", dist[4])
	}
}

func TestOneToAllCancelled(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dist, err := re.OneToAll(ctx, 0, DefaultQueryOptions())
	if err != nil {
		t.Fatalf("cancellation must yield a partial result, got error %v", err)
	}
	// only the source is guaranteed settled before the cancellation check
	if dist[0] != 0 {
		t.Errorf("dist[0] = %f, expected 0", dist[0])
	}
}

func TestEngineFallsBackWithoutCH(t *testing.T) {
	re := newTestEngine(fiveVertexGraph())

	opts := DefaultQueryOptions()
	opts.UsePreprocessing = true // requested but no hierarchy loaded

	result, err := re.ShortestPath(0, 4, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || !da.Eq(result.TotalWeight, 6) {
		t.Errorf("fallback answer wrong: found=%v weight=%f", result.Found, result.TotalWeight)
	}
	if result.Stats.Algorithm != "bidirectional_dijkstra" {
		t.Errorf("expected bidirectional fallback, ran %s", result.Stats.Algorithm)
	}
}

func TestDistanceMode(t *testing.T) {
	// time picks the detour, distance uses the length field (weight*100)
	// so the ordering is the same here; just check both modes answer
	re := newTestEngine(fiveVertexGraph())

	opts := DefaultQueryOptions()
	opts.WeightMode = WeightModeDistance

	result, err := re.ShortestPath(0, 4, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || !da.Eq(result.TotalWeight, 600) {
		t.Errorf("distance mode: found=%v weight=%f, expected 600", result.Found, result.TotalWeight)
	}
}

// randomGraph builds a connected-ish digraph: a two-way ring plus random
// extra arcs, weights in [1,10).
func randomGraph(numV, numExtra int, seed int64) *da.Graph {
	rng := rand.New(rand.NewSource(seed))
	edges := make([]testEdge, 0, numV*2+numExtra)
	for v := 0; v < numV; v++ {
		w := 1 + rng.Float64()*9
		edges = append(edges, testEdge{da.Index(v), da.Index((v + 1) % numV), w})
		edges = append(edges, testEdge{da.Index((v + 1) % numV), da.Index(v), w})
	}
	for i := 0; i < numExtra; i++ {
		from := da.Index(rng.Intn(numV))
		to := da.Index(rng.Intn(numV))
		if from == to {
			continue
		}
		edges = append(edges, testEdge{from, to, 1 + rng.Float64()*9})
	}
	return buildGraph(numV, edges)
}

func verifyPathWeight(t *testing.T, g *da.Graph, vertices []da.Index, totalWeight float64) {
	t.Helper()
	sum := 0.0
	for i := 0; i+1 < len(vertices); i++ {
		best := pkg.INF_WEIGHT
		g.ForOutEdgesOf(vertices[i], func(e *da.OutEdge) {
			if e.GetHead() == vertices[i+1] && e.GetWeight() < best {
				best = e.GetWeight()
			}
		})
		if best >= pkg.INF_WEIGHT {
			t.Fatalf("path uses nonexistent edge %d->%d", vertices[i], vertices[i+1])
		}
		sum += best
	}
	if math.Abs(sum-totalWeight) > 1e-6 {
		t.Fatalf("path weight %f does not match reported total %f", sum, totalWeight)
	}
}
