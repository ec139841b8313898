package usecases

import (
	"errors"

	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/engine/routing"
	"github.com/nordwand/routeplanner/pkg/geo"
	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

var ErrPathNotFound = errors.New("no path found")

type RoutingService struct {
	log          *zap.Logger
	engine       RoutingEngine
	spatialIndex SpatialIndex
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, spatialIndex SpatialIndex) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		spatialIndex: spatialIndex,
	}
}

func (rs *RoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64,
	mode string) (float64, float64, string, *metrics.QueryStats, bool, error) {

	source, target, err := rs.snapOrigDestToNearbyVertices(origLat, origLon, dstLat, dstLon)
	if err != nil {
		return 0, 0, "", nil, false, err
	}

	opts := routing.DefaultQueryOptions()
	opts.WeightMode = routing.WeightMode(mode)

	result, err := rs.engine.ShortestPath(source, target, opts)
	if err != nil {
		return 0, 0, "", nil, false, err
	}
	if !result.Found {
		return 0, 0, "", result.Stats, false, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound,
			"no path found from %f,%f to %f,%f", origLat, origLon, dstLat, dstLon)
	}

	pathPolyline := geo.PolylineFromCoords(result.Coordinates)
	return result.TotalWeight, result.TotalDistance, pathPolyline, result.Stats, true, nil
}

func (rs *RoutingService) snapOrigDestToNearbyVertices(origLat, origLon, dstLat, dstLon float64) (
	source, target datastructure.Index, err error) {

	graph := rs.engine.GetGraph()

	source, ok := rs.spatialIndex.SnapToNearest(graph, origLat, origLon)
	if !ok {
		return 0, 0, util.WrapErrorf(nil, util.ErrBadParamInput,
			"origin %f,%f is too far from the road network", origLat, origLon)
	}
	target, ok = rs.spatialIndex.SnapToNearest(graph, dstLat, dstLon)
	if !ok {
		return 0, 0, util.WrapErrorf(nil, util.ErrBadParamInput,
			"destination %f,%f is too far from the road network", dstLat, dstLon)
	}
	return source, target, nil
}
