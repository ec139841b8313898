package main

import (
	"context"
	"flag"

	"github.com/nordwand/routeplanner/pkg/engine"
	"github.com/nordwand/routeplanner/pkg/http"
	"github.com/nordwand/routeplanner/pkg/http/usecases"
	"github.com/nordwand/routeplanner/pkg/logger"
	"github.com/nordwand/routeplanner/pkg/spatialindex"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile             = flag.String("graph", "./data/map.graph", "graph file written by the preprocessor")
	chFile                = flag.String("ch", "./data/map.ch.graph", "contracted graph file, optional")
	landmarkFile          = flag.String("landmarks", "./data/map.landmarks", "landmark file, optional")
	useRateLimit          = flag.Bool("rate_limit", false, "enable per-client rate limiting")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not found, using defaults", zap.Error(err))
	}

	routingEngine, err := engine.New(*graphFile, *chFile, *landmarkFile, logger)
	if err != nil {
		panic(err)
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(routingEngine.Graph(), *leafBoundingBoxRadius, logger)

	api := http.NewServer(logger)

	routingService := usecases.NewRoutingService(logger, routingEngine.Router(), rtree)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	g, err := api.Use(ctx, logger, *useRateLimit, routingService)
	if err != nil {
		panic(err)
	}
	go func() {
		if err := g.Wait(); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	signal := http.GracefulShutdown()

	logger.Info("Route Planner Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
