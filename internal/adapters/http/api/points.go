package api

import "net/http"

// PointsHandler serves per-quarter points totals.
type PointsHandler struct {
	deps Dependencies
}

// NewPointsHandler creates a new points handler.
func NewPointsHandler(deps Dependencies) *PointsHandler {
	return &PointsHandler{deps: deps}
}

// HandleGetPoints handles GET /points/{player_id} requests.
func (h *PointsHandler) HandleGetPoints(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_points"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	playerID, ok := playerFromPath(r.URL.Path, "/points/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sum, err := h.deps.CurrentPointsSummary(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
