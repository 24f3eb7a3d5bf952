// Package query answers point queries against a tree sequence without
// running a full scan: which edges are active at a genomic position, and
// the statistics of the single local tree covering it. Each query costs
// O(log E + k) for the k active edges, against O(E) for a raw table scan.
package query

import (
	"errors"
	"sort"

	"github.com/tidwall/rtree"

	"treescan/pkg/treeseq"
)

// ErrOutOfRange is returned for positions outside [0, SequenceLength).
var ErrOutOfRange = errors.New("position outside sequence")

// Index holds an interval index over the edge table. Build once, query
// from any goroutine (the underlying tree is not mutated after New).
type Index struct {
	ts          *treeseq.TreeSequence
	tr          rtree.RTreeG[int32]
	breakpoints []float64 // sorted distinct tree boundaries incl. 0 and L
}

// New builds the edge interval index. Edges are stored as degenerate-height
// boxes spanning [left, right] on the x axis.
func New(ts *treeseq.TreeSequence) *Index {
	ix := &Index{ts: ts, breakpoints: ts.Breakpoints()}
	for e := 0; e < ts.NumEdges(); e++ {
		ix.tr.Insert(
			[2]float64{ts.EdgesLeft[e], 0},
			[2]float64{ts.EdgesRight[e], 0},
			int32(e),
		)
	}
	return ix
}

// ActiveEdges returns the indices of edges whose interval covers x,
// in ascending edge order.
func (ix *Index) ActiveEdges(x float64) ([]int32, error) {
	if x < 0 || x >= ix.ts.SequenceLength {
		return nil, ErrOutOfRange
	}
	var edges []int32
	ix.tr.Search([2]float64{x, 0}, [2]float64{x, 0}, func(min, max [2]float64, e int32) bool {
		// Edge intervals are half-open; the box search is closed at the
		// right endpoint, so x == right must be filtered out.
		if x < ix.ts.EdgesRight[e] {
			edges = append(edges, e)
		}
		return true
	})
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	return edges, nil
}

// TreeResult describes the single local tree covering a queried position.
type TreeResult struct {
	Index             int // tree index in traversal order
	Left              float64
	Right             float64
	NumEdges          int
	TotalBranchLength float64
	NumInternalNodes  int32
	MaxArity          int32
}

// TreeAt reconstructs the local tree covering x from its active edge set
// and computes its statistics from scratch. Independent of the streaming
// scan, which makes it a useful oracle as well as a point-query engine.
func (ix *Index) TreeAt(x float64) (TreeResult, error) {
	edges, err := ix.ActiveEdges(x)
	if err != nil {
		return TreeResult{}, err
	}

	ts := ix.ts
	// Locate the tree interval between the nearest breakpoints.
	i := sort.SearchFloat64s(ix.breakpoints, x)
	if i == len(ix.breakpoints) || ix.breakpoints[i] != x {
		i--
	}

	res := TreeResult{
		Index:    i,
		Left:     ix.breakpoints[i],
		Right:    ix.breakpoints[i+1],
		NumEdges: len(edges),
	}

	numChildren := make(map[int32]int32, len(edges))
	for _, e := range edges {
		p, c := ts.EdgesParent[e], ts.EdgesChild[e]
		numChildren[p]++
		res.TotalBranchLength += ts.NodesTime[p] - ts.NodesTime[c]
	}
	for _, k := range numChildren {
		res.NumInternalNodes++
		if k > res.MaxArity {
			res.MaxArity = k
		}
	}
	return res, nil
}
