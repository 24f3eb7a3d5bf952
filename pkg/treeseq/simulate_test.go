package treeseq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateValidTables(t *testing.T) {
	ts, err := Simulate(SimulateOptions{
		Samples:        10,
		Ancestors:      9,
		SequenceLength: 5000,
		Breakpoints:    30,
		Sites:          50,
		Mutations:      100,
		Seed:           7,
	})
	require.NoError(t, err)
	require.NoError(t, ts.Validate())

	require.Equal(t, 19, ts.NumNodes())
	require.Equal(t, 10, ts.NumSamples())
	require.Equal(t, 50, ts.NumSites())
	require.Equal(t, 100, ts.NumMutations())
	require.Greater(t, ts.NumTrees(), 1)

	// Re-attachment only moves a few lineages per breakpoint, so most
	// edges must span more than one tree interval.
	require.Less(t, ts.NumEdges(), ts.NumTrees()*(ts.NumNodes()-1))
}

func TestSimulateDeterministic(t *testing.T) {
	opts := SimulateOptions{
		Samples:        6,
		Ancestors:      5,
		SequenceLength: 1000,
		Breakpoints:    10,
		Sites:          5,
		Mutations:      10,
		Seed:           99,
	}
	a, err := Simulate(opts)
	require.NoError(t, err)
	b, err := Simulate(opts)
	require.NoError(t, err)

	require.Equal(t, a.EdgesLeft, b.EdgesLeft)
	require.Equal(t, a.EdgesRight, b.EdgesRight)
	require.Equal(t, a.EdgesParent, b.EdgesParent)
	require.Equal(t, a.EdgesChild, b.EdgesChild)
	require.Equal(t, a.NodesTime, b.NodesTime)
	require.Equal(t, a.SitesPosition, b.SitesPosition)
	require.Equal(t, a.MutationsSite, b.MutationsSite)
}

func TestSimulateBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts SimulateOptions
	}{
		{"one sample", SimulateOptions{Samples: 1, Ancestors: 1, SequenceLength: 10}},
		{"no ancestors", SimulateOptions{Samples: 2, Ancestors: 0, SequenceLength: 10}},
		{"zero length", SimulateOptions{Samples: 2, Ancestors: 1, SequenceLength: 0}},
		{"mutations without sites", SimulateOptions{Samples: 2, Ancestors: 1, SequenceLength: 10, Mutations: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Simulate(tc.opts)
			require.Error(t, err)
		})
	}
}
