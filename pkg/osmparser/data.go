package osmparser

import (
	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/datastructure"
)

// Edge. one directed edge of the decoded entity stream, endpoints already
// remapped to dense vertex ids.
type Edge struct {
	from   uint32
	to     uint32
	weight float64
	dist   float64
	edgeID uint32
	hwType pkg.OsmHighwayType
}

func NewEdge(from, to uint32, weight, dist float64, edgeID uint32, hwType pkg.OsmHighwayType) Edge {
	return Edge{
		from:   from,
		to:     to,
		weight: weight,
		dist:   dist,
		edgeID: edgeID,
		hwType: hwType,
	}
}

func (e *Edge) GetFrom() datastructure.Index {
	return datastructure.Index(e.from)
}

func (e *Edge) GetTo() datastructure.Index {
	return datastructure.Index(e.to)
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

func (e *Edge) GetDist() float64 {
	return e.dist
}

type NodeCoord struct {
	Lat float64
	Lon float64
}

// Node. a decoded geographic node of the entity stream.
type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

// Way. a decoded way of the entity stream: an ordered node-id list plus
// the tag-derived fields the builder cares about.
type Way struct {
	ID       int64
	NodeIDs  []int64
	HwType   pkg.OsmHighwayType
	OneWay   bool
	Reversed bool // oneway=-1, edges go against the node order
}
