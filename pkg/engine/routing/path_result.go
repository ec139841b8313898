package routing

import (
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/geo"
	"github.com/nordwand/routeplanner/pkg/metrics"
)

/*
PathResult the outcome of one point-to-point query: the vertex sequence
from source to target, its coordinates, and the totals under the queried
metric. Found is false for an unreachable target; that is the expected
way for a query to come back empty.
*/
type PathResult struct {
	Vertices      []da.Index
	Coordinates   []geo.Coordinate
	TotalWeight   float64
	TotalDistance float64
	Found         bool
	Stats         *metrics.QueryStats
}

func NewUnreachableResult(stats *metrics.QueryStats) PathResult {
	return PathResult{Found: false, Stats: stats}
}

// trivialResult a source==target query: zero weight, single-vertex path.
func trivialResult(graph *da.Graph, v da.Index, stats *metrics.QueryStats) PathResult {
	return PathResult{
		Vertices:    []da.Index{v},
		Coordinates: []geo.Coordinate{graph.GetCoordinate(v)},
		TotalWeight: 0,
		Found:       true,
		Stats:       stats,
	}
}

// resultFromVertices fills coordinates and the distance total for a
// reconstructed vertex path.
func resultFromVertices(graph *da.Graph, vertices []da.Index, totalWeight float64,
	stats *metrics.QueryStats) PathResult {

	coords := make([]geo.Coordinate, len(vertices))
	for i, v := range vertices {
		coords[i] = graph.GetCoordinate(v)
	}

	totalDistance := 0.0
	for i := 0; i+1 < len(vertices); i++ {
		lat1, lon1 := graph.GetVertexCoordinates(vertices[i])
		lat2, lon2 := graph.GetVertexCoordinates(vertices[i+1])
		totalDistance += geo.HaversineDistanceMeter(lat1, lon1, lat2, lon2)
	}

	return PathResult{
		Vertices:      vertices,
		Coordinates:   coords,
		TotalWeight:   totalWeight,
		TotalDistance: totalDistance,
		Found:         true,
		Stats:         stats,
	}
}
