package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treescan/pkg/query"
	"treescan/pkg/scan"
	"treescan/pkg/treeseq"
)

func simulate(t *testing.T, seed int64) *treeseq.TreeSequence {
	t.Helper()
	ts, err := treeseq.Simulate(treeseq.SimulateOptions{
		Samples:        12,
		Ancestors:      11,
		SequenceLength: 2000,
		Breakpoints:    25,
		Seed:           seed,
	})
	require.NoError(t, err)
	return ts
}

// directActiveEdges is the O(E) reference the index must agree with.
func directActiveEdges(ts *treeseq.TreeSequence, x float64) []int32 {
	var edges []int32
	for e := 0; e < ts.NumEdges(); e++ {
		if ts.EdgesLeft[e] <= x && x < ts.EdgesRight[e] {
			edges = append(edges, int32(e))
		}
	}
	return edges
}

func TestActiveEdgesMatchesDirectScan(t *testing.T) {
	ts := simulate(t, 4)
	ix := query.New(ts)

	positions := []float64{0, 1, 500, 999.5, 1500, 1999.999}
	// Breakpoints themselves are the interesting positions: edges end
	// exactly there.
	positions = append(positions, ts.Breakpoints()[:ts.NumTrees()]...)

	for _, x := range positions {
		got, err := ix.ActiveEdges(x)
		require.NoError(t, err)
		require.Equal(t, directActiveEdges(ts, x), got, "position %v", x)
	}
}

func TestActiveEdgesOutOfRange(t *testing.T) {
	ts := simulate(t, 4)
	ix := query.New(ts)

	_, err := ix.ActiveEdges(-0.5)
	require.ErrorIs(t, err, query.ErrOutOfRange)
	_, err = ix.ActiveEdges(ts.SequenceLength)
	require.ErrorIs(t, err, query.ErrOutOfRange)
}

func TestTreeAtMatchesScan(t *testing.T) {
	ts := simulate(t, 9)
	ix := query.New(ts)
	stats := scan.Compute(ts)

	for i := 0; i < stats.NumTrees(); i++ {
		mid := (stats.Left[i] + stats.Right[i]) / 2

		res, err := ix.TreeAt(mid)
		require.NoError(t, err)
		require.Equal(t, i, res.Index)
		require.Equal(t, stats.Left[i], res.Left)
		require.Equal(t, stats.Right[i], res.Right)
		require.InDelta(t, stats.TotalBranchLength[i], res.TotalBranchLength, 1e-9)
		require.Equal(t, stats.NumInternalNodes[i], res.NumInternalNodes)
		require.Equal(t, stats.MaxArity[i], res.MaxArity)
	}
}

func TestTreeAtBreakpoint(t *testing.T) {
	ts := simulate(t, 9)
	ix := query.New(ts)
	stats := scan.Compute(ts)

	// Querying exactly at a tree's left boundary returns that tree.
	for i := 0; i < stats.NumTrees(); i++ {
		res, err := ix.TreeAt(stats.Left[i])
		require.NoError(t, err)
		require.Equal(t, i, res.Index)
	}
}

func TestTreeAtEmptyRegion(t *testing.T) {
	ts := &treeseq.TreeSequence{
		SequenceLength: 30,
		EdgesLeft:      []float64{10},
		EdgesRight:     []float64{20},
		EdgesParent:    []int32{1},
		EdgesChild:     []int32{0},
		NodesTime:      []float64{0, 1},
	}
	ts.BuildIndexes()
	ix := query.New(ts)

	res, err := ix.TreeAt(5)
	require.NoError(t, err)
	require.Equal(t, 0, res.NumEdges)
	require.Equal(t, 0.0, res.TotalBranchLength)
	require.Equal(t, int32(0), res.MaxArity)
	require.Equal(t, 0.0, res.Left)
	require.Equal(t, 10.0, res.Right)

	res, err = ix.TreeAt(15)
	require.NoError(t, err)
	require.Equal(t, 1, res.NumEdges)
	require.Equal(t, 1.0, res.TotalBranchLength)
}
