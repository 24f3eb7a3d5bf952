package scan

import "fmt"

// WindowStats aggregates per-tree statistics over equal-width genomic
// windows. Each value is the mean of the corresponding per-tree statistic
// weighted by the length of overlap between the tree interval and the
// window.
type WindowStats struct {
	Left  []float64
	Right []float64

	MeanBranchLength  []float64
	MeanInternalNodes []float64
	MeanMaxArity      []float64
}

// Windows splits [0, sequenceLength) into n equal windows and aggregates
// the per-tree statistics into each. stats must cover the full sequence,
// as produced by Compute.
func Windows(stats *TreeStats, sequenceLength float64, n int) (*WindowStats, error) {
	if n < 1 {
		return nil, fmt.Errorf("window count %d must be at least 1", n)
	}
	if stats.NumTrees() == 0 {
		return nil, fmt.Errorf("no trees to aggregate")
	}

	out := &WindowStats{
		Left:              make([]float64, n),
		Right:             make([]float64, n),
		MeanBranchLength:  make([]float64, n),
		MeanInternalNodes: make([]float64, n),
		MeanMaxArity:      make([]float64, n),
	}

	width := sequenceLength / float64(n)
	t := 0
	for w := 0; w < n; w++ {
		wl := float64(w) * width
		wr := float64(w+1) * width
		if w == n-1 {
			wr = sequenceLength
		}
		out.Left[w] = wl
		out.Right[w] = wr

		// Trees are sorted and tile the sequence; resume from the first
		// tree overlapping this window.
		for t > 0 && stats.Right[t-1] > wl {
			t--
		}
		var bl, in, ma float64
		for ; t < stats.NumTrees() && stats.Left[t] < wr; t++ {
			lo := max(stats.Left[t], wl)
			hi := min(stats.Right[t], wr)
			if hi <= lo {
				continue
			}
			span := hi - lo
			bl += span * stats.TotalBranchLength[t]
			in += span * float64(stats.NumInternalNodes[t])
			ma += span * float64(stats.MaxArity[t])
		}
		// Step back one tree: the last tree may straddle the window edge.
		if t > 0 {
			t--
		}
		out.MeanBranchLength[w] = bl / (wr - wl)
		out.MeanInternalNodes[w] = in / (wr - wl)
		out.MeanMaxArity[w] = ma / (wr - wl)
	}

	return out, nil
}
