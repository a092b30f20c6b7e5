package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/pitchside/internal/adapters/sequence"
	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// SpiderHandler serves radar charts.
type SpiderHandler struct {
	deps Dependencies
}

// NewSpiderHandler creates a new spider chart handler.
func NewSpiderHandler(deps Dependencies) *SpiderHandler {
	return &SpiderHandler{deps: deps}
}

// HandleGetSpider handles GET /spider/{player_id}?pillar=P&view=V requests.
func (h *SpiderHandler) HandleGetSpider(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_spider"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	playerID, ok := playerFromPath(r.URL.Path, "/spider/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	p, err := pillar.Parse(r.URL.Query().Get("pillar"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	chart, err := h.deps.Chart(r.Context(), r.URL.Query().Get("view"), playerID, p)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// writeServiceError maps service errors onto response statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, sequence.ErrStale):
		writeError(w, http.StatusConflict, "stale", WrapKind(op, ErrStale, err))
	case errors.Is(err, service.ErrInvalidPlayer):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// playerFromPath extracts the single path segment after prefix.
func playerFromPath(path, prefix string) (string, bool) {
	id := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
