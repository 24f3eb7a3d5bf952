package treeseq

import "fmt"

// Validate checks the table invariants the traversal code assumes but never
// re-checks itself: interval sanity, id ranges, parent/child time ordering,
// and that the index permutations are true permutations sorted by the
// claimed keys. It is intended as a load-time gate; the scan loops index
// directly into these arrays and produce garbage on malformed input.
func (ts *TreeSequence) Validate() error {
	if ts.SequenceLength <= 0 {
		return fmt.Errorf("sequence length %v must be positive", ts.SequenceLength)
	}

	m := ts.NumEdges()
	n := ts.NumNodes()

	if len(ts.EdgesRight) != m || len(ts.EdgesParent) != m || len(ts.EdgesChild) != m {
		return fmt.Errorf("edge columns have inconsistent lengths: left=%d right=%d parent=%d child=%d",
			m, len(ts.EdgesRight), len(ts.EdgesParent), len(ts.EdgesChild))
	}
	if ts.NodesFlags != nil && len(ts.NodesFlags) != n {
		return fmt.Errorf("node flags length %d != node time length %d", len(ts.NodesFlags), n)
	}
	if len(ts.MutationsNode) != len(ts.MutationsSite) {
		return fmt.Errorf("mutation columns have inconsistent lengths: site=%d node=%d",
			len(ts.MutationsSite), len(ts.MutationsNode))
	}

	for e := 0; e < m; e++ {
		l, r := ts.EdgesLeft[e], ts.EdgesRight[e]
		if !(l < r) {
			return fmt.Errorf("edge %d: left %v >= right %v", e, l, r)
		}
		if l < 0 || r > ts.SequenceLength {
			return fmt.Errorf("edge %d: interval [%v, %v) outside [0, %v]", e, l, r, ts.SequenceLength)
		}
		p, c := ts.EdgesParent[e], ts.EdgesChild[e]
		if p < 0 || int(p) >= n {
			return fmt.Errorf("edge %d: parent %d out of range [0, %d)", e, p, n)
		}
		if c < 0 || int(c) >= n {
			return fmt.Errorf("edge %d: child %d out of range [0, %d)", e, c, n)
		}
		if ts.NodesTime[p] <= ts.NodesTime[c] {
			return fmt.Errorf("edge %d: parent %d time %v <= child %d time %v",
				e, p, ts.NodesTime[p], c, ts.NodesTime[c])
		}
	}

	if err := validateOrder(ts.InsertionOrder, ts.EdgesLeft, m, "insertion"); err != nil {
		return err
	}
	if err := validateOrder(ts.RemovalOrder, ts.EdgesRight, m, "removal"); err != nil {
		return err
	}

	for i, s := range ts.MutationsSite {
		if s < 0 || int(s) >= ts.NumSites() {
			return fmt.Errorf("mutation %d: site %d out of range [0, %d)", i, s, ts.NumSites())
		}
		node := ts.MutationsNode[i]
		if node < 0 || int(node) >= n {
			return fmt.Errorf("mutation %d: node %d out of range [0, %d)", i, node, n)
		}
	}
	for i, pos := range ts.SitesPosition {
		if pos < 0 || pos >= ts.SequenceLength {
			return fmt.Errorf("site %d: position %v outside [0, %v)", i, pos, ts.SequenceLength)
		}
	}

	return nil
}

// validateOrder checks that order is a permutation of [0, m) visiting
// non-decreasing key values.
func validateOrder(order []int32, key []float64, m int, name string) error {
	if len(order) != m {
		return fmt.Errorf("%s order length %d != num edges %d", name, len(order), m)
	}
	seen := make([]bool, m)
	prev := 0.0
	for i, e := range order {
		if e < 0 || int(e) >= m {
			return fmt.Errorf("%s order[%d]: edge %d out of range [0, %d)", name, i, e, m)
		}
		if seen[e] {
			return fmt.Errorf("%s order: edge %d appears twice", name, e)
		}
		seen[e] = true
		if i > 0 && key[e] < prev {
			return fmt.Errorf("%s order not sorted at position %d: %v < %v", name, i, key[e], prev)
		}
		prev = key[e]
	}
	return nil
}
