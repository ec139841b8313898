package datastructure

import (
	"github.com/nordwand/routeplanner/pkg/util"
)

/*
RunKosaraju computes the strongly connected components of the graph.
Returns, per vertex, the id of its component and the number of components.
Used to cut off the small satellite fragments an OSM extract always
carries (parking aisles clipped at the extract boundary and the like)
before preprocessing.
*/
func (g *Graph) RunKosaraju() ([]Index, int) {
	n := Index(g.NumberOfVertices())

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := Index(0); v < n; v++ {
		if !visited[v] {
			g.dfsForward(v, &order, visited)
		}
	}

	order = util.ReverseG[Index](order)

	visited = make([]bool, n)
	sccs := make([]Index, n)
	numComponents := 0
	for _, v := range order {
		if !visited[v] {
			component := make([]Index, 0, 16)
			g.dfsBackward(v, &component, visited)
			for _, u := range component {
				sccs[u] = Index(numComponents)
			}
			numComponents++
		}
	}

	return sccs, numComponents
}

/*
dfsForward iterative dfs over outEdges appending each vertex to order at
the moment all of its descendants are finished. One child is expanded per
stack visit and vertices are marked only when their own frame is pushed,
which reproduces the finishing order of the recursive formulation; the
second Kosaraju pass depends on that order being exact.
*/
func (g *Graph) dfsForward(start Index, order *[]Index, visited []bool) {
	type frame struct {
		v    Index
		next Index // next outEdge slot of v to expand
	}
	visited[start] = true
	stack := []frame{{v: start, next: g.vertices[start].firstOut}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		end := g.vertices[top.v+1].firstOut
		advanced := false
		for top.next < end {
			head := g.outEdges[top.next].head
			top.next++
			if !visited[head] {
				visited[head] = true
				stack = append(stack, frame{v: head, next: g.vertices[head].firstOut})
				advanced = true
				break
			}
		}
		if !advanced && top.next >= end {
			*order = append(*order, top.v)
			stack = stack[:len(stack)-1]
		}
	}
}

// dfsBackward iterative dfs over inEdges, collecting one component.
func (g *Graph) dfsBackward(start Index, component *[]Index, visited []bool) {
	stack := []Index{start}
	visited[start] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		*component = append(*component, v)
		g.ForInEdgesOf(v, func(e *InEdge) {
			if !visited[e.tail] {
				visited[e.tail] = true
				stack = append(stack, e.tail)
			}
		})
	}
}

/*
ReduceToLargestComponent rebuilds the graph keeping only the vertices of
its largest strongly connected component, renumbering the survivors to
dense ids in first-appearance order. Returns the reduced graph and the
old-to-new id mapping (INVALID_VERTEX_ID for dropped vertices).
*/
func (g *Graph) ReduceToLargestComponent() (*Graph, []Index) {
	n := Index(g.NumberOfVertices())
	sccs, numComponents := g.RunKosaraju()

	componentSize := make([]int, numComponents)
	for v := Index(0); v < n; v++ {
		componentSize[sccs[v]]++
	}
	largest := Index(0)
	for c := 1; c < numComponents; c++ {
		if componentSize[c] > componentSize[largest] {
			largest = Index(c)
		}
	}

	oldToNew := make([]Index, n)
	newId := Index(0)
	for v := Index(0); v < n; v++ {
		if sccs[v] == largest {
			oldToNew[v] = newId
			newId++
		} else {
			oldToNew[v] = INVALID_VERTEX_ID
		}
	}

	numKept := int(newId)

	vertices := make([]Vertex, numKept+1)
	outEdges := make([]OutEdge, 0, g.NumberOfEdges())
	inEdges := make([]InEdge, 0, g.NumberOfEdges())

	edgeId := Index(0)
	for v := Index(0); v < n; v++ {
		if oldToNew[v] == INVALID_VERTEX_ID {
			continue
		}
		nv := oldToNew[v]
		vertices[nv] = Vertex{
			lat:      g.vertices[v].lat,
			lon:      g.vertices[v].lon,
			id:       nv,
			osmId:    g.vertices[v].osmId,
			firstOut: Index(len(outEdges)),
		}
		g.ForOutEdgesOf(v, func(e *OutEdge) {
			if oldToNew[e.head] == INVALID_VERTEX_ID {
				return
			}
			outEdges = append(outEdges, OutEdge{
				edgeId: edgeId,
				head:   oldToNew[e.head],
				weight: e.weight,
				dist:   e.dist,
				hwType: e.hwType,
			})
			edgeId++
		})
	}

	// reverse adjacency, rebuilt with the same edge ids
	inDegree := make([]Index, numKept+1)
	for i := range outEdges {
		inDegree[outEdges[i].head]++
	}
	firstIn := make([]Index, numKept+1)
	for v := 1; v <= numKept; v++ {
		firstIn[v] = firstIn[v-1] + inDegree[v-1]
	}
	for v := 0; v <= numKept; v++ {
		vertices[v].firstIn = firstIn[v]
	}
	vertices[numKept].firstOut = Index(len(outEdges))
	vertices[numKept].id = Index(numKept)

	inEdges = make([]InEdge, len(outEdges))
	next := make([]Index, numKept)
	copy(next, firstIn[:numKept])
	for v := Index(0); v < Index(numKept); v++ {
		for i := vertices[v].firstOut; i < vertices[v+1].firstOut; i++ {
			e := &outEdges[i]
			inEdges[next[e.head]] = InEdge{
				edgeId: e.edgeId,
				tail:   v,
				weight: e.weight,
				dist:   e.dist,
				hwType: e.hwType,
			}
			next[e.head]++
		}
	}

	return NewGraph(vertices, outEdges, inEdges), oldToNew
}
