package spatialindex

import (
	"math"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree over the graph vertices, with each leaf having
// bounding box with radius boundingBoxRadius (in km)
func (rt *Rtree) Build(graph *datastructure.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	n := datastructure.Index(graph.NumberOfVertices())
	for v := datastructure.Index(0); v < n; v++ {
		lat, lon := graph.GetVertexCoordinates(v)
		lowerLat, lowerLon := geo.GetDestinationPoint(lat, lon, 225, boundingBoxRadius)
		upperLat, upperLon := geo.GetDestinationPoint(lat, lon, 45, boundingBoxRadius)

		rt.tr.Insert([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}, v)
	}
	log.Info("R-tree spatial index built.", zap.Int("vertices", int(n)))
}

// SearchWithinRadius search for all vertices within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			if len(results) >= 32 {
				return false
			}
			return true
		})
	return results
}

// SnapToNearest returns the graph vertex closest to (qLat, qLon), widening
// the search radius until a candidate is found. Candidates are scored by
// the perpendicular distance from the query point to their incident road
// segments, so a vertex whose edge passes right by the query wins over a
// nearer isolated vertex. The second return value is false when the point
// is too far from any road.
func (rt *Rtree) SnapToNearest(graph *datastructure.Graph, qLat, qLon float64) (datastructure.Index, bool) {
	query := geo.NewCoordinate(qLat, qLon)
	for _, radius := range []float64{0.2, 1.0, 5.0} {
		candidates := rt.SearchWithinRadius(qLat, qLon, radius)
		if len(candidates) == 0 {
			continue
		}

		best := datastructure.INVALID_VERTEX_ID
		bestDist := pkg.INF_WEIGHT
		for _, v := range candidates {
			dist := rt.snapDistanceMeter(graph, query, v)
			if dist < bestDist || (math.Abs(dist-bestDist) <= pkg.EPS && v < best) {
				bestDist = dist
				best = v
			}
		}
		return best, true
	}
	return datastructure.INVALID_VERTEX_ID, false
}

// snapDistanceMeter distance from the query point to vertex v's nearest
// outgoing road segment, falling back to the vertex itself when v has no
// outgoing edges.
func (rt *Rtree) snapDistanceMeter(graph *datastructure.Graph, query geo.Coordinate,
	v datastructure.Index) float64 {

	lat, lon := graph.GetVertexCoordinates(v)
	dist := geo.HaversineDistanceMeter(query.GetLat(), query.GetLon(), lat, lon)

	tail := geo.NewCoordinate(lat, lon)
	graph.ForOutEdgesOf(v, func(e *datastructure.OutEdge) {
		headLat, headLon := graph.GetVertexCoordinates(e.GetHead())
		perp := geo.PointLinePerpendicularDistance(tail, geo.NewCoordinate(headLat, headLon), query)
		if perp < dist {
			dist = perp
		}
	})
	return dist
}
