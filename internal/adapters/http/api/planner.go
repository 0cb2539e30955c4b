package api

import "net/http"

// PlannerHandler serves outfit suggestions.
type PlannerHandler struct {
	deps Dependencies
}

// NewPlannerHandler creates a new planner handler.
func NewPlannerHandler(deps Dependencies) *PlannerHandler {
	return &PlannerHandler{deps: deps}
}

// HandleDaily handles POST /api/planner/daily.
func (h *PlannerHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	plan, err := h.deps.Daily(r.Context())
	if err != nil {
		writeServiceError(w, r, "api.plan_daily", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// HandleWeekly handles POST /api/planner/week.
func (h *PlannerHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	plan, err := h.deps.Weekly(r.Context())
	if err != nil {
		writeServiceError(w, r, "api.plan_week", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
