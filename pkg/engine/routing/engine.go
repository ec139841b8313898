package routing

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/landmark"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

type WeightMode string

const (
	WeightModeTime     WeightMode = "time"
	WeightModeDistance WeightMode = "distance"
)

// QueryOptions per-query knobs of the public shortest-path contract.
type QueryOptions struct {
	WeightMode WeightMode
	// MaxWeight bounds the search; vertices beyond it are reported
	// unreachable and one-to-all queries return a partial result. Zero
	// means unbounded.
	MaxWeight        float64
	UsePreprocessing bool
	UseLandmarks     bool
}

func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		WeightMode:       WeightModeTime,
		UsePreprocessing: true,
	}
}

/*
RoutingEngine owns the immutable graph plus whatever acceleration layers
were loaded. The public contract of ShortestPath is the same whichever
layers are present; a query that asks for an absent or metric-mismatched
layer silently degrades to the next best algorithm, never to a different
answer. All per-query state lives in the algorithm structs, so concurrent
queries are safe.
*/
type RoutingEngine struct {
	log   *zap.Logger
	graph *da.Graph

	chGraph   *da.ContractedGraph // nil when preprocessing was skipped
	landmarks *landmark.Landmarks // nil when ALT tables were not built

	unpackCache *lru.Cache[da.Index, []da.Index]
}

func NewRoutingEngine(graph *da.Graph, chGraph *da.ContractedGraph, landmarks *landmark.Landmarks,
	log *zap.Logger) *RoutingEngine {

	// shortcut unpack results are identical across queries, share them
	unpackCache, _ := lru.New[da.Index, []da.Index](1 << 20)

	return &RoutingEngine{
		log:         log,
		graph:       graph,
		chGraph:     chGraph,
		landmarks:   landmarks,
		unpackCache: unpackCache,
	}
}

func (re *RoutingEngine) GetGraph() *da.Graph {
	return re.graph
}

func (re *RoutingEngine) GetContractedGraph() *da.ContractedGraph {
	return re.chGraph
}

func (re *RoutingEngine) costFunctionFor(opts QueryOptions) costfunction.CostFunction {
	if opts.WeightMode == WeightModeDistance {
		return costfunction.NewDistanceCostFunction()
	}
	return costfunction.NewTimeCostFunction()
}

func (re *RoutingEngine) validatePair(source, target da.Index) error {
	if !re.graph.IsValidVertex(source) {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "source vertex %d out of range", source)
	}
	if !re.graph.IsValidVertex(target) {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "target vertex %d out of range", target)
	}
	return nil
}

/*
ShortestPath answers a point-to-point query. An unreachable target is a
normal outcome, reported through PathResult.Found, not an error; errors
are reserved for caller mistakes like out-of-range vertex ids.
*/
func (re *RoutingEngine) ShortestPath(source, target da.Index, opts QueryOptions) (PathResult, error) {
	if err := re.validatePair(source, target); err != nil {
		return PathResult{}, err
	}

	cf := re.costFunctionFor(opts)

	if opts.UsePreprocessing && re.chGraph != nil && re.chGraph.GetMetric() == cf.Name() {
		chq := NewCHDijkstra(re)
		return chq.ShortestPath(source, target, opts), nil
	}

	if opts.UseLandmarks && re.landmarks != nil && re.landmarks.GetMetric() == cf.Name() {
		alt := NewAStarLandmark(re)
		return alt.ShortestPath(source, target, opts), nil
	}

	bd := NewBidirectionalDijkstra(re)
	return bd.ShortestPath(source, target, opts), nil
}

// OneToAll computes distances from source to every vertex, bounded by
// opts.MaxWeight when set. Cancelling the context returns the partial
// distances settled so far.
func (re *RoutingEngine) OneToAll(ctx context.Context, source da.Index, opts QueryOptions) ([]float64, error) {
	if !re.graph.IsValidVertex(source) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "source vertex %d out of range", source)
	}
	d := NewDijkstra(re)
	return d.OneToAll(ctx, source, opts), nil
}
