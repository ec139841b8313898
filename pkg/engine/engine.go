package engine

import (
	"os"

	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/engine/routing"
	"github.com/nordwand/routeplanner/pkg/landmark"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

/*
Engine wires the persisted preprocessing artifacts into a query-ready
routing engine. Only the plain graph file is mandatory; a missing
hierarchy or landmark file just means queries fall back to slower
algorithms.
*/
type Engine struct {
	log    *zap.Logger
	router *routing.RoutingEngine
}

func New(graphFile, chFile, landmarkFile string, log *zap.Logger) (*Engine, error) {
	graph, err := datastructure.ReadGraph(graphFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "reading graph file %s", graphFile)
	}
	log.Info("loaded graph",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))

	var chGraph *datastructure.ContractedGraph
	if chFile != "" {
		if _, statErr := os.Stat(chFile); statErr == nil {
			chGraph, err = datastructure.ReadContractedGraph(chFile)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrInternalServerError, "reading contracted graph file %s", chFile)
			}
			log.Info("loaded contraction hierarchy",
				zap.String("metric", chGraph.GetMetric()),
				zap.Int("edges", chGraph.NumberOfEdges()),
				zap.Int("shortcuts", chGraph.NumberOfShortcuts()))
		} else {
			log.Warn("contracted graph file not found, queries fall back to bidirectional dijkstra",
				zap.String("file", chFile))
		}
	}

	var landmarks *landmark.Landmarks
	if landmarkFile != "" {
		if _, statErr := os.Stat(landmarkFile); statErr == nil {
			landmarks, err = landmark.ReadFromFile(landmarkFile)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrInternalServerError, "reading landmark file %s", landmarkFile)
			}
			log.Info("loaded landmarks",
				zap.String("metric", landmarks.GetMetric()),
				zap.Int("count", len(landmarks.GetLandmarks())))
		} else {
			log.Warn("landmark file not found, goal-directed search disabled",
				zap.String("file", landmarkFile))
		}
	}

	return &Engine{
		log:    log,
		router: routing.NewRoutingEngine(graph, chGraph, landmarks, log),
	}, nil
}

func (e *Engine) Router() *routing.RoutingEngine {
	return e.router
}

func (e *Engine) Graph() *datastructure.Graph {
	return e.router.GetGraph()
}
