package treeseq

import (
	"fmt"
	"math/rand"
	"sort"
)

// SimulateOptions controls random tree sequence generation.
type SimulateOptions struct {
	Samples        int     // number of sample (leaf) nodes
	Ancestors      int     // number of older non-sample nodes
	SequenceLength float64 // genome length
	Breakpoints    int     // internal recombination breakpoints
	Sites          int     // number of sites
	Mutations      int     // number of mutations
	Seed           int64
}

// Simulate generates a random valid tree sequence: a random spanning forest
// over the nodes per genomic interval, with a few lineages re-attached at
// each breakpoint so that most edges span several intervals. The output
// satisfies every invariant Validate checks and is deterministic for a
// given seed.
func Simulate(opts SimulateOptions) (*TreeSequence, error) {
	if opts.Samples < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", opts.Samples)
	}
	if opts.Ancestors < 1 {
		return nil, fmt.Errorf("need at least 1 ancestor, got %d", opts.Ancestors)
	}
	if opts.SequenceLength <= 0 {
		return nil, fmt.Errorf("sequence length %v must be positive", opts.SequenceLength)
	}
	if opts.Breakpoints < 0 || opts.Sites < 0 || opts.Mutations < 0 {
		return nil, fmt.Errorf("breakpoints, sites and mutations must be non-negative")
	}
	if opts.Mutations > 0 && opts.Sites == 0 {
		return nil, fmt.Errorf("mutations require at least one site")
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	numNodes := opts.Samples + opts.Ancestors
	ts := &TreeSequence{
		SequenceLength: opts.SequenceLength,
		NodesTime:      make([]float64, numNodes),
		NodesFlags:     make([]uint32, numNodes),
	}

	// Samples at time 0, ancestors at strictly increasing times. Node ids
	// are ordered by time so "any node with a larger id" is a valid parent.
	for i := 0; i < opts.Samples; i++ {
		ts.NodesFlags[i] = NodeIsSample
	}
	for i := opts.Samples; i < numNodes; i++ {
		ts.NodesTime[i] = float64(i-opts.Samples+1) + rng.Float64()
	}

	// Distinct interior breakpoints.
	bpSet := make(map[float64]struct{}, opts.Breakpoints)
	for len(bpSet) < opts.Breakpoints {
		x := rng.Float64() * opts.SequenceLength
		if x > 0 && x < opts.SequenceLength {
			bpSet[x] = struct{}{}
		}
	}
	breaks := make([]float64, 0, opts.Breakpoints+2)
	breaks = append(breaks, 0)
	for x := range bpSet {
		breaks = append(breaks, x)
	}
	breaks = append(breaks, opts.SequenceLength)
	sort.Float64s(breaks)

	// parent[c] is the current parent assignment; the oldest node is the
	// root and has none.
	root := numNodes - 1
	parent := make([]int32, numNodes)
	pickParent := func(c int) int32 {
		lo := c + 1
		if lo < opts.Samples {
			lo = opts.Samples // samples never act as parents
		}
		return int32(lo + rng.Intn(numNodes-lo))
	}
	for c := 0; c < root; c++ {
		parent[c] = pickParent(c)
	}

	// edgeStart[c] is the left endpoint of the open edge parent[c] -> c.
	edgeStart := make([]float64, numNodes)

	closeEdge := func(c int, right float64) {
		ts.EdgesLeft = append(ts.EdgesLeft, edgeStart[c])
		ts.EdgesRight = append(ts.EdgesRight, right)
		ts.EdgesParent = append(ts.EdgesParent, parent[c])
		ts.EdgesChild = append(ts.EdgesChild, int32(c))
	}

	// At each interior breakpoint re-attach a few random lineages. An edge
	// is only emitted when its parent actually changes, so unaffected
	// edges keep spanning across the breakpoint.
	for b := 1; b < len(breaks)-1; b++ {
		detach := 1 + rng.Intn(3)
		for i := 0; i < detach; i++ {
			c := rng.Intn(root)
			p := pickParent(c)
			if p == parent[c] {
				continue
			}
			if edgeStart[c] == breaks[b] {
				// Already re-attached at this breakpoint; just replace the
				// parent of the still-open edge.
				parent[c] = p
				continue
			}
			closeEdge(c, breaks[b])
			parent[c] = p
			edgeStart[c] = breaks[b]
		}
	}
	for c := 0; c < root; c++ {
		closeEdge(c, opts.SequenceLength)
	}

	// Sites at distinct random positions, mutations at random sites on
	// random non-root nodes.
	posSet := make(map[float64]struct{}, opts.Sites)
	for len(posSet) < opts.Sites {
		posSet[rng.Float64()*opts.SequenceLength] = struct{}{}
	}
	for pos := range posSet {
		ts.SitesPosition = append(ts.SitesPosition, pos)
	}
	sort.Float64s(ts.SitesPosition)
	for i := 0; i < opts.Mutations; i++ {
		ts.MutationsSite = append(ts.MutationsSite, int32(rng.Intn(opts.Sites)))
		ts.MutationsNode = append(ts.MutationsNode, int32(rng.Intn(root)))
	}

	ts.BuildIndexes()
	return ts, nil
}
