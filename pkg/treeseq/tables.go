package treeseq

import (
	"math"
	"sort"
)

// NodeIsSample marks a node as a sampled genome in the node flags.
const NodeIsSample = uint32(1)

// TreeSequence holds the tables of a succinct tree sequence in
// structure-of-arrays form, plus the two precomputed edge index
// permutations that make left-to-right traversal O(E).
//
// All arrays are read-only once the indexes are built; a TreeSequence may
// be shared across concurrent traversals.
type TreeSequence struct {
	SequenceLength float64

	// Edge table. Edge e spans [EdgesLeft[e], EdgesRight[e]) and connects
	// EdgesParent[e] to EdgesChild[e].
	EdgesLeft   []float64
	EdgesRight  []float64
	EdgesParent []int32
	EdgesChild  []int32

	// Node table.
	NodesTime  []float64
	NodesFlags []uint32

	// Site and mutation tables. Only used for summary reporting.
	SitesPosition []float64
	MutationsSite []int32
	MutationsNode []int32

	// InsertionOrder permutes edge indices ascending by left endpoint;
	// RemovalOrder ascending by right endpoint. Ties break by edge index.
	InsertionOrder []int32
	RemovalOrder   []int32
}

func (ts *TreeSequence) NumEdges() int     { return len(ts.EdgesLeft) }
func (ts *TreeSequence) NumNodes() int     { return len(ts.NodesTime) }
func (ts *TreeSequence) NumSites() int     { return len(ts.SitesPosition) }
func (ts *TreeSequence) NumMutations() int { return len(ts.MutationsSite) }

// NumSamples returns the count of nodes flagged as samples.
func (ts *TreeSequence) NumSamples() int {
	n := 0
	for _, f := range ts.NodesFlags {
		if f&NodeIsSample != 0 {
			n++
		}
	}
	return n
}

// BuildIndexes computes the insertion and removal order permutations from
// the edge table. Must be called before traversal if the permutations were
// not loaded from a file.
func (ts *TreeSequence) BuildIndexes() {
	m := ts.NumEdges()
	ins := make([]int32, m)
	rem := make([]int32, m)
	for i := range ins {
		ins[i] = int32(i)
		rem[i] = int32(i)
	}
	sort.Slice(ins, func(a, b int) bool {
		ea, eb := ins[a], ins[b]
		if ts.EdgesLeft[ea] != ts.EdgesLeft[eb] {
			return ts.EdgesLeft[ea] < ts.EdgesLeft[eb]
		}
		return ea < eb
	})
	sort.Slice(rem, func(a, b int) bool {
		ea, eb := rem[a], rem[b]
		if ts.EdgesRight[ea] != ts.EdgesRight[eb] {
			return ts.EdgesRight[ea] < ts.EdgesRight[eb]
		}
		return ea < eb
	})
	ts.InsertionOrder = ins
	ts.RemovalOrder = rem
}

// NumTrees returns the number of distinct local trees: the count of
// distinct breakpoints in [0, SequenceLength) drawn from edge endpoints,
// always including 0. Runs in O(E) by merging the two sorted orders.
func (ts *TreeSequence) NumTrees() int {
	m := ts.NumEdges()
	n := 1 // the tree starting at 0 always exists
	prev := 0.0
	j, k := 0, 0
	for j < m || k < m {
		var x float64
		switch {
		case j >= m:
			x = ts.EdgesRight[ts.RemovalOrder[k]]
			k++
		case k >= m:
			x = ts.EdgesLeft[ts.InsertionOrder[j]]
			j++
		case ts.EdgesLeft[ts.InsertionOrder[j]] <= ts.EdgesRight[ts.RemovalOrder[k]]:
			x = ts.EdgesLeft[ts.InsertionOrder[j]]
			j++
		default:
			x = ts.EdgesRight[ts.RemovalOrder[k]]
			k++
		}
		if x > prev && x < ts.SequenceLength {
			n++
			prev = x
		}
	}
	return n
}

// Breakpoints returns the sorted distinct tree boundaries, starting at 0
// and ending at SequenceLength. Length is always NumTrees()+1.
func (ts *TreeSequence) Breakpoints() []float64 {
	set := make(map[float64]struct{}, 2*ts.NumEdges()+2)
	set[0] = struct{}{}
	set[ts.SequenceLength] = struct{}{}
	for e := 0; e < ts.NumEdges(); e++ {
		if ts.EdgesLeft[e] < ts.SequenceLength {
			set[ts.EdgesLeft[e]] = struct{}{}
		}
		if ts.EdgesRight[e] < ts.SequenceLength {
			set[ts.EdgesRight[e]] = struct{}{}
		}
	}
	bp := make([]float64, 0, len(set))
	for x := range set {
		bp = append(bp, x)
	}
	sort.Float64s(bp)
	return bp
}

// TotalSpan returns the sum of edge interval lengths. Useful as a quick
// sanity figure when loading tables.
func (ts *TreeSequence) TotalSpan() float64 {
	var span float64
	for e := 0; e < ts.NumEdges(); e++ {
		span += ts.EdgesRight[e] - ts.EdgesLeft[e]
	}
	if math.IsNaN(span) {
		return 0
	}
	return span
}
