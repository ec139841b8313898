package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/util"
)

func fields(s string) []string {
	return strings.Fields(s)
}

// WriteGraph writes the graph as a bzip2 compressed text file. The format
// round-trips exactly: ReadGraph on the written file reproduces identical
// adjacency, weights and coordinates.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges())

	for vId := 0; vId < len(g.vertices); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %d %s %s %d\n",
			v.id, v.firstOut, v.firstIn, latF, lonF, v.osmId)
	}

	for _, e := range g.outEdges {
		weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %s %s %d\n",
			e.edgeId, e.head, weightF, distF, e.hwType)
	}

	for _, e := range g.inEdges {
		weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %s %s %d\n",
			e.edgeId, e.tail, weightF, distF, e.hwType)
	}

	return w.Flush()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "graph file %s: malformed header", filename)
	}
	n := util.ParseInt(tokens[0])
	m := util.ParseInt(tokens[1])

	vertices := make([]Vertex, n+1)
	for i := 0; i <= n; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 6 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "graph file %s: malformed vertex line %d", filename, i)
		}

		vertices[i] = Vertex{
			id:       Index(util.ParseInt(tokens[0])),
			firstOut: Index(util.ParseInt(tokens[1])),
			firstIn:  Index(util.ParseInt(tokens[2])),
			lat:      util.ParseFloat(tokens[3]),
			lon:      util.ParseFloat(tokens[4]),
			osmId:    int64(util.ParseInt(tokens[5])),
		}
	}

	outEdges := make([]OutEdge, m)
	for i := 0; i < m; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 5 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "graph file %s: malformed outEdge line %d", filename, i)
		}

		outEdges[i] = OutEdge{
			edgeId: Index(util.ParseInt(tokens[0])),
			head:   Index(util.ParseInt(tokens[1])),
			weight: util.ParseFloat(tokens[2]),
			dist:   util.ParseFloat(tokens[3]),
			hwType: pkg.OsmHighwayType(util.ParseInt(tokens[4])),
		}
	}

	inEdges := make([]InEdge, m)
	for i := 0; i < m; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 5 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "graph file %s: malformed inEdge line %d", filename, i)
		}

		inEdges[i] = InEdge{
			edgeId: Index(util.ParseInt(tokens[0])),
			tail:   Index(util.ParseInt(tokens[1])),
			weight: util.ParseFloat(tokens[2]),
			dist:   util.ParseFloat(tokens[3]),
			hwType: pkg.OsmHighwayType(util.ParseInt(tokens[4])),
		}
	}

	return NewGraph(vertices, outEdges, inEdges), nil
}

// WriteContractedGraph writes ranks and ch-edges. The upward adjacency is
// not persisted; it is rebuilt deterministically on read.
func (chg *ContractedGraph) WriteContractedGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %s\n", chg.numVertices, len(chg.edges), chg.metric)

	for i, r := range chg.rank {
		fmt.Fprintf(w, "%d", r)
		if i < len(chg.rank)-1 {
			fmt.Fprintf(w, " ")
		}
	}
	fmt.Fprintf(w, "\n")

	for _, e := range chg.edges {
		weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %s %s %d %d %d\n",
			e.tail, e.head, weightF, distF, int64(int32(e.via)), int64(int32(e.left)), int64(int32(e.right)))
	}

	return w.Flush()
}

func ReadContractedGraph(filename string) (*ContractedGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 3 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "ch file %s: malformed header", filename)
	}
	n := util.ParseInt(tokens[0])
	m := util.ParseInt(tokens[1])
	metric := tokens[2]

	line, err = util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens = fields(line)
	if len(tokens) != n {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "ch file %s: malformed rank line", filename)
	}
	rank := make([]Index, n)
	for i := 0; i < n; i++ {
		rank[i] = Index(util.ParseInt(tokens[i]))
	}

	edges := make([]CHEdge, m)
	for i := 0; i < m; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 7 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "ch file %s: malformed edge line %d", filename, i)
		}

		edges[i] = CHEdge{
			tail:   Index(util.ParseInt(tokens[0])),
			head:   Index(util.ParseInt(tokens[1])),
			weight: util.ParseFloat(tokens[2]),
			dist:   util.ParseFloat(tokens[3]),
			via:    Index(int32(util.ParseInt(tokens[4]))),
			left:   Index(int32(util.ParseInt(tokens[5]))),
			right:  Index(int32(util.ParseInt(tokens[6]))),
		}
	}

	return NewContractedGraph(n, metric, rank, edges), nil
}
