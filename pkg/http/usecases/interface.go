package usecases

import (
	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/engine/routing"
)

type RoutingEngine interface {
	ShortestPath(source, target datastructure.Index, opts routing.QueryOptions) (routing.PathResult, error)
	GetGraph() *datastructure.Graph
}

type SpatialIndex interface {
	SnapToNearest(graph *datastructure.Graph, qLat, qLon float64) (datastructure.Index, bool)
}
