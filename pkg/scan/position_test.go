package scan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treescan/pkg/scan"
	"treescan/pkg/treeseq"
)

// newThreeTreeTables builds the same hand-checked tables used throughout
// these tests:
//
//	e0 4->0 [0,30)   e1 4->1 [0,20)   e2 4->2 [10,30)
//	e3 5->3 [0,30)   e4 5->4 [0,30)
//
// giving trees [0,10), [10,20), [20,30).
func newThreeTreeTables(t *testing.T) *treeseq.TreeSequence {
	t.Helper()
	ts := &treeseq.TreeSequence{
		SequenceLength: 30,
		EdgesLeft:      []float64{0, 0, 10, 0, 0},
		EdgesRight:     []float64{30, 20, 30, 30, 30},
		EdgesParent:    []int32{4, 4, 4, 5, 5},
		EdgesChild:     []int32{0, 1, 2, 3, 4},
		NodesTime:      []float64{0, 0, 0, 0, 1, 2},
		NodesFlags:     []uint32{1, 1, 1, 1, 0, 0},
	}
	ts.BuildIndexes()
	return ts
}

func simulate(t *testing.T, seed int64) *treeseq.TreeSequence {
	t.Helper()
	ts, err := treeseq.Simulate(treeseq.SimulateOptions{
		Samples:        10,
		Ancestors:      9,
		SequenceLength: 1000,
		Breakpoints:    15,
		Seed:           seed,
	})
	require.NoError(t, err)
	return ts
}

func TestTreePositionIntervalTiling(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		ts := simulate(t, seed)

		tp := scan.NewTreePosition(ts)
		prevRight := 0.0
		count := 0
		for tp.Next() {
			require.Equal(t, prevRight, tp.Left, "intervals must be contiguous")
			require.Less(t, tp.Left, tp.Right, "intervals must be non-empty")
			prevRight = tp.Right
			count++
		}
		require.Equal(t, ts.SequenceLength, prevRight, "last interval must end at sequence length")
		require.Equal(t, ts.NumTrees(), count)
	}
}

func TestTreePositionEdgeCoverage(t *testing.T) {
	ts := simulate(t, 3)
	m := ts.NumEdges()

	inserted := make([]int, m)
	removed := make([]int, m)

	tp := scan.NewTreePosition(ts)
	for tp.Next() {
		for j := tp.OutStart; j < tp.OutEnd; j++ {
			removed[ts.RemovalOrder[j]]++
		}
		for j := tp.InStart; j < tp.InEnd; j++ {
			inserted[ts.InsertionOrder[j]]++
		}
	}
	// The exhausting call still reports the edges retired at the end of
	// the sequence.
	for j := tp.OutStart; j < tp.OutEnd; j++ {
		removed[ts.RemovalOrder[j]]++
	}

	for e := 0; e < m; e++ {
		require.Equal(t, 1, inserted[e], "edge %d insertion count", e)
		require.Equal(t, 1, removed[e], "edge %d removal count", e)
	}
}

func TestTreePositionThreeTrees(t *testing.T) {
	ts := newThreeTreeTables(t)
	tp := scan.NewTreePosition(ts)

	require.True(t, tp.Next())
	require.Equal(t, 0, tp.Index)
	require.Equal(t, 0.0, tp.Left)
	require.Equal(t, 10.0, tp.Right)
	require.Equal(t, 0, tp.OutEnd-tp.OutStart)
	require.Equal(t, 4, tp.InEnd-tp.InStart) // e0, e1, e3, e4

	require.True(t, tp.Next())
	require.Equal(t, 10.0, tp.Left)
	require.Equal(t, 20.0, tp.Right)
	require.Equal(t, 0, tp.OutEnd-tp.OutStart)
	require.Equal(t, 1, tp.InEnd-tp.InStart) // e2 enters

	require.True(t, tp.Next())
	require.Equal(t, 20.0, tp.Left)
	require.Equal(t, 30.0, tp.Right)
	require.Equal(t, 1, tp.OutEnd-tp.OutStart) // e1 leaves
	require.Equal(t, 0, tp.InEnd-tp.InStart)

	require.False(t, tp.Next())
}

func TestTreePositionEmptyTable(t *testing.T) {
	ts := &treeseq.TreeSequence{SequenceLength: 50}
	ts.BuildIndexes()

	tp := scan.NewTreePosition(ts)
	require.True(t, tp.Next())
	require.Equal(t, 0.0, tp.Left)
	require.Equal(t, 50.0, tp.Right)
	require.Equal(t, tp.InStart, tp.InEnd)
	require.Equal(t, tp.OutStart, tp.OutEnd)
	require.False(t, tp.Next())
}
