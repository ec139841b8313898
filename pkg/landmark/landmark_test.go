package landmark

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"go.uber.org/zap"
)

type testEdge struct {
	from, to da.Index
	weight   float64
}

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

func ringGraph(numV, numExtra int, seed int64) *da.Graph {
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

func TestHeuristicAdmissible(t *testing.T) {
	g := ringGraph(40, 100, 5)
	cf := costfunction.NewTimeCostFunction()
	lm := SelectAndPrecompute(g, 4, cf, zap.NewNop())

	n := g.NumberOfVertices()
	for target := da.Index(0); target < da.Index(n); target += 7 {
		// admissibility needs true distances into the target
		dist := oneToAllBackward(g, target, cf)
		for v := 0; v < n; v++ {
			h := lm.Heuristic(da.Index(v), target)
			if dist[v] >= pkg.INF_WEIGHT {
				continue
			}
			if h > dist[v]+pkg.EPS {
				t.Fatalf("heuristic(%d, %d) = %f exceeds true distance %f", v, target, h, dist[v])
			}
		}
		if lm.Heuristic(target, target) > pkg.EPS {
			t.Errorf("heuristic(%d, %d) = %f, expected 0", target, target, lm.Heuristic(target, target))
		}
	}
}

func TestSelectAndPrecomputeDeterministic(t *testing.T) {
	g := ringGraph(30, 60, 21)
	cf := costfunction.NewTimeCostFunction()

	first := SelectAndPrecompute(g, 5, cf, zap.NewNop())
	second := SelectAndPrecompute(g, 5, cf, zap.NewNop())

	a, b := first.GetLandmarks(), second.GetLandmarks()
	if len(a) != len(b) {
		t.Fatalf("landmark counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("landmark %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestLandmarkFileRoundTrip(t *testing.T) {
	g := ringGraph(20, 40, 31)
	cf := costfunction.NewTimeCostFunction()
	lm := SelectAndPrecompute(g, 3, cf, zap.NewNop())

	file := filepath.Join(t.TempDir(), "test.landmarks")
	if err := lm.WriteToFile(file); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	loaded, err := ReadFromFile(file)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if loaded.GetMetric() != lm.GetMetric() {
		t.Errorf("metric %q, expected %q", loaded.GetMetric(), lm.GetMetric())
	}
	if len(loaded.GetLandmarks()) != len(lm.GetLandmarks()) {
		t.Fatalf("landmark counts differ after round trip")
	}

	n := g.NumberOfVertices()
	for v := 0; v < n; v++ {
		for tgt := 0; tgt < n; tgt += 3 {
			if loaded.Heuristic(da.Index(v), da.Index(tgt)) != lm.Heuristic(da.Index(v), da.Index(tgt)) {
				t.Fatalf("heuristic(%d,%d) changed through the file", v, tgt)
			}
		}
	}
}
