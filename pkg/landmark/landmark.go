package landmark

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/nordwand/routeplanner/pkg"
	"github.com/nordwand/routeplanner/pkg/concurrent"
	"github.com/nordwand/routeplanner/pkg/costfunction"
	da "github.com/nordwand/routeplanner/pkg/datastructure"
	"github.com/nordwand/routeplanner/pkg/util"
	"go.uber.org/zap"
)

/*
Landmarks precomputed distance tables for the ALT heuristic: for every
landmark l, the distances l->v over forward edges and v->l over reverse
edges. The triangle inequality turns these into admissible lower bounds
for A*. Valid for a single metric, recorded in metric.
*/
type Landmarks struct {
	metric    string
	landmarks []da.Index
	distFrom  [][]float64 // distFrom[i][v]: landmarks[i] -> v
	distTo    [][]float64 // distTo[i][v]:   v -> landmarks[i]
}

func (lm *Landmarks) GetMetric() string {
	return lm.metric
}

func (lm *Landmarks) GetLandmarks() []da.Index {
	return lm.landmarks
}

/*
SelectAndPrecompute picks numLandmarks landmarks by farthest-point
selection (first landmark is vertex 0, every next one maximizes the
minimum distance to those already chosen, ties to the smaller id) and
fills both distance tables. The per-landmark one-to-all searches are
independent, so they run on a worker pool; each lands at its own table
index, which keeps the result identical to a sequential run.
*/
func SelectAndPrecompute(graph *da.Graph, numLandmarks int, cf costfunction.CostFunction,
	log *zap.Logger) *Landmarks {

	n := graph.NumberOfVertices()
	if numLandmarks > n {
		numLandmarks = n
	}

	log.Info("selecting landmarks...", zap.Int("count", numLandmarks))

	landmarks := make([]da.Index, 0, numLandmarks)
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = pkg.INF_WEIGHT
	}

	current := da.Index(0)
	for len(landmarks) < numLandmarks {
		landmarks = append(landmarks, current)
		dist := oneToAllForward(graph, current, cf)
		farthest := da.Index(0)
		farthestDist := -1.0
		for v := 0; v < n; v++ {
			if dist[v] < minDist[v] {
				minDist[v] = dist[v]
			}
			if minDist[v] < pkg.INF_WEIGHT && minDist[v] > farthestDist {
				farthestDist = minDist[v]
				farthest = da.Index(v)
			}
		}
		current = farthest
	}

	log.Info("precomputing landmark distance tables...")

	lm := &Landmarks{
		metric:    cf.Name(),
		landmarks: landmarks,
		distFrom:  make([][]float64, numLandmarks),
		distTo:    make([][]float64, numLandmarks),
	}

	pool := concurrent.NewWorkerPool[int, struct{}](runtime.GOMAXPROCS(0), numLandmarks)
	pool.Start(func(i int) struct{} {
		lm.distFrom[i] = oneToAllForward(graph, lm.landmarks[i], cf)
		lm.distTo[i] = oneToAllBackward(graph, lm.landmarks[i], cf)
		return struct{}{}
	})
	go func() {
		for i := 0; i < numLandmarks; i++ {
			pool.AddJob(i)
		}
		pool.Close()
	}()
	pool.Wait()
	for range pool.CollectResults() {
	}

	log.Info("landmark precomputation done")
	return lm
}

// Heuristic admissible lower bound on the distance v -> target.
func (lm *Landmarks) Heuristic(v, target da.Index) float64 {
	h := 0.0
	for i := range lm.landmarks {
		if bound := lm.distTo[i][v] - lm.distTo[i][target]; bound > h &&
			lm.distTo[i][v] < pkg.INF_WEIGHT && lm.distTo[i][target] < pkg.INF_WEIGHT {
			h = bound
		}
		if bound := lm.distFrom[i][target] - lm.distFrom[i][v]; bound > h &&
			lm.distFrom[i][target] < pkg.INF_WEIGHT && lm.distFrom[i][v] < pkg.INF_WEIGHT {
			h = bound
		}
	}
	return h
}

func (lm *Landmarks) WriteToFile(filename string) error {
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

	numV := 0
	if len(lm.distFrom) > 0 {
		numV = len(lm.distFrom[0])
	}
	fmt.Fprintf(w, "%d %d %s\n", len(lm.landmarks), numV, lm.metric)

	for i, l := range lm.landmarks {
		fmt.Fprintf(w, "%d", l)
		if i < len(lm.landmarks)-1 {
			fmt.Fprintf(w, " ")
		}
	}
	fmt.Fprintf(w, "\n")

	writeTable := func(table [][]float64) {
		for _, row := range table {
			for i, d := range row {
				fmt.Fprintf(w, "%s", strconv.FormatFloat(d, 'f', -1, 64))
				if i < len(row)-1 {
					fmt.Fprintf(w, " ")
				}
			}
			fmt.Fprintf(w, "\n")
		}
	}
	writeTable(lm.distFrom)
	writeTable(lm.distTo)

	return w.Flush()
}

func ReadFromFile(filename string) (*Landmarks, error) {
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
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "landmark file %s: malformed header", filename)
	}
	k := util.ParseInt(tokens[0])
	numV := util.ParseInt(tokens[1])
	metric := tokens[2]

	line, err = util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens = fields(line)
	if len(tokens) != k {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "landmark file %s: malformed landmark line", filename)
	}
	landmarks := make([]da.Index, k)
	for i := 0; i < k; i++ {
		landmarks[i] = da.Index(util.ParseInt(tokens[i]))
	}

	readTable := func() ([][]float64, error) {
		table := make([][]float64, k)
		for i := 0; i < k; i++ {
			line, err := util.ReadLine(br)
			if err != nil {
				return nil, err
			}
			tokens := fields(line)
			if len(tokens) != numV {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "landmark file %s: malformed table row", filename)
			}
			row := make([]float64, numV)
			for j := 0; j < numV; j++ {
				row[j] = util.ParseFloat(tokens[j])
			}
			table[i] = row
		}
		return table, nil
	}

	distFrom, err := readTable()
	if err != nil {
		return nil, err
	}
	distTo, err := readTable()
	if err != nil {
		return nil, err
	}

	return &Landmarks{
		metric:    metric,
		landmarks: landmarks,
		distFrom:  distFrom,
		distTo:    distTo,
	}, nil
}
