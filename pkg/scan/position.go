// Package scan implements the single-pass traversal of a tree sequence:
// a cursor that enumerates the distinct local trees left to right, and a
// streaming statistics accumulator built on top of it. The whole pass is
// O(E) amortized over all trees because each edge is consumed exactly once
// from each of the two precomputed index permutations.
package scan

import "treescan/pkg/treeseq"

// TreePosition is a stateful cursor over the local trees of a tree
// sequence. Each call to Next moves to the following tree and records
// which entries of the order permutations were consumed to get there.
//
// A TreePosition owns its traversal state exclusively; the underlying
// TreeSequence is only read, so independent cursors over the same tables
// may run concurrently.
type TreePosition struct {
	ts *treeseq.TreeSequence

	insertionIndex int
	removalIndex   int

	// Interval over which the current tree is valid.
	Left, Right float64

	// Index of the current tree, -1 before the first Next.
	Index int

	// Half-open ranges into InsertionOrder / RemovalOrder identifying the
	// edges that entered and left the tree at the last breakpoint.
	// Overwritten by every Next call; consume before advancing again.
	InStart, InEnd   int
	OutStart, OutEnd int
}

// NewTreePosition returns a cursor positioned before the first tree.
func NewTreePosition(ts *treeseq.TreeSequence) *TreePosition {
	return &TreePosition{ts: ts, Index: -1}
}

// Next advances to the next local tree. It returns false once the
// traversal has passed the end of the sequence with no edges left to
// insert; Left, Right and the in/out ranges are only meaningful after a
// call that returned true.
func (tp *TreePosition) Next() bool {
	ts := tp.ts
	m := len(ts.EdgesLeft)
	left := tp.Right

	k := tp.removalIndex
	tp.OutStart = k
	for k < m && ts.EdgesRight[ts.RemovalOrder[k]] == left {
		k++
	}
	tp.OutEnd = k
	tp.removalIndex = k

	j := tp.insertionIndex
	tp.InStart = j
	for j < m && ts.EdgesLeft[ts.InsertionOrder[j]] == left {
		j++
	}
	tp.InEnd = j
	tp.insertionIndex = j

	if j == m && left >= ts.SequenceLength {
		return false
	}

	right := ts.SequenceLength
	if j < m {
		if l := ts.EdgesLeft[ts.InsertionOrder[j]]; l < right {
			right = l
		}
	}
	if k < m {
		if r := ts.EdgesRight[ts.RemovalOrder[k]]; r < right {
			right = r
		}
	}
	tp.Left = left
	tp.Right = right
	tp.Index++
	return true
}
