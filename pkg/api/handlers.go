package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"treescan/pkg/query"
	"treescan/pkg/scan"
)

// TreeQuerier answers single-position tree queries.
type TreeQuerier interface {
	TreeAt(x float64) (query.TreeResult, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	querier TreeQuerier
	stats   *scan.TreeStats
	resp    StatsResponse
}

// NewHandlers creates handlers over a point-query engine, the per-tree
// scan output, and the precomputed table summary.
func NewHandlers(querier TreeQuerier, stats *scan.TreeStats, resp StatsResponse) *Handlers {
	return &Handlers{
		querier: querier,
		stats:   stats,
		resp:    resp,
	}
}

// HandleTree handles GET /api/v1/tree?position=X.
func (h *Handlers) HandleTree(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.ParseFloat(r.URL.Query().Get("position"), 64)
	if err != nil || math.IsNaN(pos) || math.IsInf(pos, 0) {
		writeError(w, http.StatusBadRequest, "invalid_position", "position")
		return
	}

	result, err := h.querier.TreeAt(pos)
	if err != nil {
		if errors.Is(err, query.ErrOutOfRange) {
			writeError(w, http.StatusUnprocessableEntity, "position_out_of_range", "position")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TreeResponse{
		TreeIndex:         result.Index,
		Left:              result.Left,
		Right:             result.Right,
		NumEdges:          result.NumEdges,
		TotalBranchLength: result.TotalBranchLength,
		NumInternalNodes:  result.NumInternalNodes,
		MaxArity:          result.MaxArity,
	})
}

// maxWindows caps the windows query to keep response sizes bounded.
const maxWindows = 100_000

// HandleWindows handles GET /api/v1/windows?n=N.
func (h *Handlers) HandleWindows(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 || n > maxWindows {
		writeError(w, http.StatusBadRequest, "invalid_window_count", "n")
		return
	}

	ws, err := scan.Windows(h.stats, h.resp.SequenceLength, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp := WindowsResponse{NumWindows: n, Windows: make([]WindowJSON, n)}
	for i := 0; i < n; i++ {
		resp.Windows[i] = WindowJSON{
			Left:              ws.Left[i],
			Right:             ws.Right[i],
			MeanBranchLength:  ws.MeanBranchLength[i],
			MeanInternalNodes: ws.MeanInternalNodes[i],
			MeanMaxArity:      ws.MeanMaxArity[i],
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
