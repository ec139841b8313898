package osmparser

import (
	"context"
	"os"

	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type OsmParser struct {
	log *zap.Logger

	acceptedNodeMap map[int64]NodeCoord
	resolvedNodeMap map[int64]struct{}
	nodeIDMap       map[int64]uint32
	nodeToOsmId     map[datastructure.Index]int64

	skippedDanglingWays int
	skippedWays         int
}

func NewOsmParser(log *zap.Logger) *OsmParser {
	return &OsmParser{
		log:             log,
		acceptedNodeMap: make(map[int64]NodeCoord),
		resolvedNodeMap: make(map[int64]struct{}),
		nodeIDMap:       make(map[int64]uint32),
		nodeToOsmId:     make(map[datastructure.Index]int64),
	}
}

// SetAcceptedNodeMap / SetNodeToOsmId let tests feed a synthetic decoded
// entity stream into BuildGraph without a pbf file.
func (p *OsmParser) SetAcceptedNodeMap(m map[int64]NodeCoord) {
	p.acceptedNodeMap = m
	for id := range m {
		p.resolvedNodeMap[id] = struct{}{}
	}
}

func (p *OsmParser) SetNodeToOsmId(m map[datastructure.Index]int64) {
	p.nodeToOsmId = m
}

func (p *OsmParser) GetSkippedDanglingWays() int {
	return p.skippedDanglingWays
}

/*
Parse reads the pbf extract in two scanner passes: first the routable
ways (which decide the set of node ids the graph needs), then the node
coordinates. The pbf container itself is an opaque decoder here, the
paulmach scanner yields nodes and ways in stable file order, which makes
the dense id assignment deterministic.
*/
func (p *OsmParser) Parse(mapFile string) (*datastructure.Graph, error) {
	ways, err := p.scanWays(mapFile)
	if err != nil {
		return nil, err
	}

	if err := p.scanNodes(mapFile); err != nil {
		return nil, err
	}

	edges := p.BuildEdges(ways)
	return p.BuildGraph(edges)
}

func (p *OsmParser) scanWays(mapFile string) ([]Way, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	ways := make([]Way, 0, 1<<16)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}

		hwType := pkg.GetHighwayType(way.Tags.Find("highway"))
		if pkg.HighwaySpeedKmH(hwType) == 0 {
			p.skippedWays++
			continue
		}

		if (countWays+1)%50000 == 0 {
			p.log.Info("reading openstreetmap ways", zap.Int("count", countWays+1))
		}
		countWays++

		nodeIDs := make([]int64, len(way.Nodes))
		for i, n := range way.Nodes {
			nodeIDs[i] = int64(n.ID)
			p.acceptedNodeMap[int64(n.ID)] = NodeCoord{}
		}

		oneWay, reversed := onewayFromTags(way)

		ways = append(ways, Way{
			ID:       int64(way.ID),
			NodeIDs:  nodeIDs,
			HwType:   hwType,
			OneWay:   oneWay,
			Reversed: reversed,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ways, nil
}

func (p *OsmParser) scanNodes(mapFile string) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if _, used := p.acceptedNodeMap[int64(node.ID)]; !used {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			p.log.Info("reading openstreetmap nodes", zap.Int("count", countNodes+1))
		}
		countNodes++
		p.acceptedNodeMap[int64(node.ID)] = NodeCoord{Lat: node.Lat, Lon: node.Lon}
		p.resolvedNodeMap[int64(node.ID)] = struct{}{}
	}
	return scanner.Err()
}

func onewayFromTags(way *osm.Way) (oneWay bool, reversed bool) {
	switch way.Tags.Find("oneway") {
	case "yes", "1", "true":
		return true, false
	case "-1":
		return true, true
	case "no", "0", "false":
		return false, false
	}
	if way.Tags.Find("junction") == "roundabout" {
		return true, false
	}
	return false, false
}
