package main

import (
	"flag"

	"github.com/nordwand/routeplanner/pkg/contractor"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	"github.com/nordwand/routeplanner/pkg/landmark"
	"github.com/nordwand/routeplanner/pkg/logger"
	"github.com/nordwand/routeplanner/pkg/osmparser"
	"go.uber.org/zap"
)

var (
	mapFile      = flag.String("map", "./data/map.osm.pbf", "openstreetmap pbf extract to preprocess")
	graphFile    = flag.String("graph", "./data/map.graph", "output graph file")
	chFile       = flag.String("ch", "./data/map.ch.graph", "output contracted graph file")
	landmarkFile = flag.String("landmarks", "./data/map.landmarks", "output landmark file")
	metric       = flag.String("metric", "time", "cost function to contract for (time or distance)")
	numLandmarks = flag.Int("num_landmarks", 16, "number of landmarks for goal-directed search")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	osmParser := osmparser.NewOsmParser(logger)
	graph, err := osmParser.Parse(*mapFile)
	if err != nil {
		panic(err)
	}

	// routing only works inside one strongly connected component; drop
	// the rest so every query pair in the stored graph has an answer
	graph, _ = graph.ReduceToLargestComponent()
	logger.Info("reduced to largest strongly connected component",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))

	if err := graph.WriteGraph(*graphFile); err != nil {
		panic(err)
	}

	var cf costfunction.CostFunction
	if *metric == "distance" {
		cf = costfunction.NewDistanceCostFunction()
	} else {
		cf = costfunction.NewTimeCostFunction()
	}

	ch := contractor.NewContractor(graph, cf, logger).Contract()
	if err := ch.WriteContractedGraph(*chFile); err != nil {
		panic(err)
	}

	landmarks := landmark.SelectAndPrecompute(graph, *numLandmarks, cf, logger)
	if err := landmarks.WriteToFile(*landmarkFile); err != nil {
		panic(err)
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
