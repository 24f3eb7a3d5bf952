package scan

import "treescan/pkg/treeseq"

// TreeStats holds one entry per local tree, in traversal order.
type TreeStats struct {
	Left  []float64 // interval start of each tree
	Right []float64 // interval end of each tree

	TotalBranchLength []float64
	NumInternalNodes  []int32
	MaxArity          []int32
}

// NumTrees returns the number of recorded trees.
func (s *TreeStats) NumTrees() int { return len(s.Left) }

// TreeAt returns the index of the tree covering position x, or -1 if x is
// outside [0, SequenceLength). Binary search over the recorded intervals.
func (s *TreeStats) TreeAt(x float64) int {
	lo, hi := 0, len(s.Left)-1
	if hi < 0 || x < s.Left[0] || x >= s.Right[hi] {
		return -1
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.Left[mid] <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Compute runs one left-to-right pass over the tree sequence and records
// total branch length, internal node count and maximum node arity for
// every local tree.
//
// The per-node arrays are updated incrementally from the edge deltas the
// cursor reports: removals are applied before insertions so that a node's
// arity bucket is never double-counted. The maximum arity is tracked with
// a histogram of node out-degrees, avoiding an O(numNodes) rescan per
// breakpoint: when the bucket holding the current maximum empties, the
// maximum steps down to the next occupied bucket. The step-down happens
// after the affected node has been re-bucketed at its new arity, which
// keeps the histogram exact at the moment it is consulted.
func Compute(ts *treeseq.TreeSequence) *TreeStats {
	numTrees := ts.NumTrees()
	numNodes := ts.NumNodes()

	out := &TreeStats{
		Left:              make([]float64, numTrees),
		Right:             make([]float64, numTrees),
		TotalBranchLength: make([]float64, numTrees),
		NumInternalNodes:  make([]int32, numTrees),
		MaxArity:          make([]int32, numTrees),
	}

	numChildren := make([]int32, numNodes)
	nodesWithArity := make([]int32, numNodes)

	var (
		branchLength float64
		internal     int32
		maxArity     int32
	)

	tp := NewTreePosition(ts)
	for tp.Next() {
		for j := tp.OutStart; j < tp.OutEnd; j++ {
			e := ts.RemovalOrder[j]
			p := ts.EdgesParent[e]
			c := ts.EdgesChild[e]

			a := numChildren[p]
			nodesWithArity[a]--
			numChildren[p] = a - 1
			if a == 1 {
				internal--
			} else {
				nodesWithArity[a-1]++
			}
			if a == maxArity && nodesWithArity[a] == 0 {
				for maxArity > 0 && nodesWithArity[maxArity] == 0 {
					maxArity--
				}
			}
			branchLength -= ts.NodesTime[p] - ts.NodesTime[c]
		}

		for j := tp.InStart; j < tp.InEnd; j++ {
			e := ts.InsertionOrder[j]
			p := ts.EdgesParent[e]
			c := ts.EdgesChild[e]

			if numChildren[p] == 0 {
				internal++
			} else {
				nodesWithArity[numChildren[p]]--
			}
			numChildren[p]++
			nodesWithArity[numChildren[p]]++
			if numChildren[p] > maxArity {
				maxArity = numChildren[p]
			}
			branchLength += ts.NodesTime[p] - ts.NodesTime[c]
		}

		t := tp.Index
		out.Left[t] = tp.Left
		out.Right[t] = tp.Right
		out.TotalBranchLength[t] = branchLength
		out.NumInternalNodes[t] = internal
		out.MaxArity[t] = maxArity
	}

	return out
}
