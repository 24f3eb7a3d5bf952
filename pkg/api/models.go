package api

import "treescan/pkg/scan"

// TreeResponse is the JSON response for GET /api/v1/tree.
type TreeResponse struct {
	TreeIndex         int     `json:"tree_index"`
	Left              float64 `json:"left"`
	Right             float64 `json:"right"`
	NumEdges          int     `json:"num_edges"`
	TotalBranchLength float64 `json:"total_branch_length"`
	NumInternalNodes  int32   `json:"num_internal_nodes"`
	MaxArity          int32   `json:"max_arity"`
}

// WindowJSON is one aggregated window in a WindowsResponse.
type WindowJSON struct {
	Left              float64 `json:"left"`
	Right             float64 `json:"right"`
	MeanBranchLength  float64 `json:"mean_branch_length"`
	MeanInternalNodes float64 `json:"mean_internal_nodes"`
	MeanMaxArity      float64 `json:"mean_max_arity"`
}

// WindowsResponse is the JSON response for GET /api/v1/windows.
type WindowsResponse struct {
	NumWindows int          `json:"num_windows"`
	Windows    []WindowJSON `json:"windows"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	SequenceLength float64      `json:"sequence_length"`
	NumTrees       int          `json:"num_trees"`
	Summary        scan.Summary `json:"summary"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
