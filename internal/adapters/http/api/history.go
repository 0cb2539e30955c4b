package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/types"
)

// HistoryHandler serves the wear log.
type HistoryHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler. maxLimit caps and
// defaults the limit query parameter.
func NewHistoryHandler(deps Dependencies, maxLimit int) *HistoryHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &HistoryHandler{deps: deps, maxLimit: maxLimit}
}

// HandleList handles GET /api/history?limit=N, newest first.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_history"
	limit := h.maxLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("limit must be a positive integer, got %q", s)))
			return
		}
		if n < limit {
			limit = n
		}
	}

	entries, err := h.deps.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRate handles POST /api/history/{id}/rating.
func (h *HistoryHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	const op = "api.rate_history"
	var req types.RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := h.deps.Rate(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// AnalyticsHandler serves the wardrobe summary.
type AnalyticsHandler struct {
	deps Dependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandleAnalytics handles GET /api/analytics.
func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Analytics(r.Context())
	if err != nil {
		writeServiceError(w, r, "api.analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
