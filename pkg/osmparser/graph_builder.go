package osmparser

import (
	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/geo"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

/*
BuildEdges turns the decoded ways into a flat directed edge stream.

Dense vertex ids are assigned on first encounter, so the id assignment is
deterministic for a deterministic way order. A way referencing a node the
node stream never delivered is skipped as a whole and counted, it does not
abort the build; extracts clipped at a bounding box always contain a few
of these.

Edge weight is the great-circle distance between the endpoints in meter;
the weight field carries the travel time in second under the fixed speed
profile of the edge's highway class. One directed edge is emitted per
consecutive node pair, plus the reverse edge unless the way is oneway.
*/
func (p *OsmParser) BuildEdges(ways []Way) []Edge {
	edges := make([]Edge, 0, len(ways)*4)
	edgeID := uint32(0)

	for _, way := range ways {
		if p.hasDanglingReference(&way) {
			p.skippedDanglingWays++
			continue
		}

		speedMS := pkg.HighwaySpeedKmH(way.HwType) * pkg.KMH_TO_MS

		nodeIDs := way.NodeIDs
		if way.Reversed {
			nodeIDs = util.ReverseG(nodeIDs)
		}

		for i := 0; i+1 < len(nodeIDs); i++ {
			fromOsm, toOsm := nodeIDs[i], nodeIDs[i+1]
			from := p.denseID(fromOsm)
			to := p.denseID(toOsm)

			fromCoord := p.acceptedNodeMap[fromOsm]
			toCoord := p.acceptedNodeMap[toOsm]

			dist := geo.HaversineDistanceMeter(fromCoord.Lat, fromCoord.Lon, toCoord.Lat, toCoord.Lon)
			travelTime := dist / speedMS

			edges = append(edges, NewEdge(from, to, travelTime, dist, edgeID, way.HwType))
			edgeID++

			if !way.OneWay {
				edges = append(edges, NewEdge(to, from, travelTime, dist, edgeID, way.HwType))
				edgeID++
			}
		}
	}

	if p.skippedDanglingWays > 0 {
		p.log.Warn("skipped ways with dangling node references",
			zap.Int("count", p.skippedDanglingWays))
	}

	return edges
}

func (p *OsmParser) hasDanglingReference(way *Way) bool {
	for _, id := range way.NodeIDs {
		if _, ok := p.resolvedNodeMap[id]; !ok {
			return true
		}
	}
	return false
}

func (p *OsmParser) denseID(osmID int64) uint32 {
	if id, ok := p.nodeIDMap[osmID]; ok {
		return id
	}
	id := uint32(len(p.nodeIDMap))
	p.nodeIDMap[osmID] = id
	p.nodeToOsmId[datastructure.Index(id)] = osmID
	return id
}

/*
BuildGraph lays the edge stream out as a compressed-sparse-row graph:
counting sort by tail for the forward array, by head for the reverse
array, prefix sums into the vertex offset fields. No global state; the
returned graph owns all of its arrays.
*/
func (p *OsmParser) BuildGraph(scannedEdges []Edge) (*datastructure.Graph, error) {
	if len(scannedEdges) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrEmptyGraph, "no routable edges in input")
	}

	numV := len(p.nodeIDMap)

	outDegree := make([]int, numV+1)
	inDegree := make([]int, numV+1)
	for i := range scannedEdges {
		outDegree[scannedEdges[i].from]++
		inDegree[scannedEdges[i].to]++
	}

	vertices := make([]datastructure.Vertex, numV+1)
	firstOut := 0
	firstIn := 0
	for v := 0; v <= numV; v++ {
		osmId := int64(-1)
		var lat, lon float64
		if v < numV {
			osmId = p.nodeToOsmId[datastructure.Index(v)]
			coord := p.acceptedNodeMap[osmId]
			lat, lon = coord.Lat, coord.Lon
		}
		vertices[v] = *datastructure.NewVertex(lat, lon, datastructure.Index(v), osmId)
		vertices[v].SetFirstOut(datastructure.Index(firstOut))
		vertices[v].SetFirstIn(datastructure.Index(firstIn))
		if v < numV {
			firstOut += outDegree[v]
			firstIn += inDegree[v]
		}
	}

	outEdges := make([]datastructure.OutEdge, len(scannedEdges))
	inEdges := make([]datastructure.InEdge, len(scannedEdges))
	outNext := make([]int, numV)
	inNext := make([]int, numV)
	for v := 0; v < numV; v++ {
		outNext[v] = int(vertices[v].GetFirstOut())
		inNext[v] = int(vertices[v].GetFirstIn())
	}

	for i := range scannedEdges {
		e := &scannedEdges[i]
		outEdges[outNext[e.from]] = datastructure.NewOutEdge(
			datastructure.Index(e.edgeID), datastructure.Index(e.to), e.weight, e.dist, e.hwType)
		outNext[e.from]++

		inEdges[inNext[e.to]] = datastructure.NewInEdge(
			datastructure.Index(e.edgeID), datastructure.Index(e.from), e.weight, e.dist, e.hwType)
		inNext[e.to]++
	}

	return datastructure.NewGraph(vertices, outEdges, inEdges), nil
}
