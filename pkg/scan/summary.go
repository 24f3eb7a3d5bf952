package scan

import (
	"sort"

	"treescan/pkg/treeseq"
)

// Summary collects table-level figures for reporting: counts of the table
// rows plus the distribution of mutations over sites and nodes.
type Summary struct {
	NumSamples   int `json:"num_samples"`
	NumNodes     int `json:"num_nodes"`
	NumEdges     int `json:"num_edges"`
	NumTrees     int `json:"num_trees"`
	NumSites     int `json:"num_sites"`
	NumMutations int `json:"num_mutations"`

	NodesWithZeroMutations int `json:"nodes_with_zero_muts"`
	SitesWithZeroMutations int `json:"sites_with_zero_muts"`

	MaxMutationsPerSite    int32   `json:"max_mutations_per_site"`
	MeanMutationsPerSite   float64 `json:"mean_mutations_per_site"`
	MedianMutationsPerSite float64 `json:"median_mutations_per_site"`
	MaxMutationsPerNode    int32   `json:"max_mutations_per_node"`
}

// SiteMutationCounts returns the number of mutations at each site.
func SiteMutationCounts(ts *treeseq.TreeSequence) []int32 {
	counts := make([]int32, ts.NumSites())
	for _, s := range ts.MutationsSite {
		counts[s]++
	}
	return counts
}

// SitesPerTree returns the number of sites falling inside each local tree
// interval, indexed by tree in traversal order.
func SitesPerTree(ts *treeseq.TreeSequence, stats *TreeStats) []int32 {
	counts := make([]int32, stats.NumTrees())
	for _, pos := range ts.SitesPosition {
		if t := stats.TreeAt(pos); t >= 0 {
			counts[t]++
		}
	}
	return counts
}

// NodeMutationCounts returns the number of mutations on each node.
func NodeMutationCounts(ts *treeseq.TreeSequence) []int32 {
	counts := make([]int32, ts.NumNodes())
	for _, n := range ts.MutationsNode {
		counts[n]++
	}
	return counts
}

// Summarize computes the table summary.
func Summarize(ts *treeseq.TreeSequence) Summary {
	s := Summary{
		NumSamples:   ts.NumSamples(),
		NumNodes:     ts.NumNodes(),
		NumEdges:     ts.NumEdges(),
		NumTrees:     ts.NumTrees(),
		NumSites:     ts.NumSites(),
		NumMutations: ts.NumMutations(),
	}

	siteCounts := SiteMutationCounts(ts)
	nodeCounts := NodeMutationCounts(ts)

	for _, c := range nodeCounts {
		if c == 0 {
			s.NodesWithZeroMutations++
		}
		if c > s.MaxMutationsPerNode {
			s.MaxMutationsPerNode = c
		}
	}

	var total int64
	for _, c := range siteCounts {
		if c == 0 {
			s.SitesWithZeroMutations++
		}
		if c > s.MaxMutationsPerSite {
			s.MaxMutationsPerSite = c
		}
		total += int64(c)
	}
	if len(siteCounts) > 0 {
		s.MeanMutationsPerSite = float64(total) / float64(len(siteCounts))
		s.MedianMutationsPerSite = medianInt32(siteCounts)
	}

	return s
}

// medianInt32 returns the median of values, averaging the two middle
// elements for even lengths. Sorts a copy.
func medianInt32(values []int32) float64 {
	sorted := make([]int32, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}
