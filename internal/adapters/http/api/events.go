// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/fitcheck/internal/domain/types"
)

// WearHandler logs worn outfits.
type WearHandler struct {
	deps Dependencies
}

// NewWearHandler creates a new wear handler.
func NewWearHandler(deps Dependencies) *WearHandler {
	return &WearHandler{deps: deps}
}

// HandleSubmit handles POST /api/planner/wear. The wear is queued and
// applied by the worker pool; a repeated eventId is acknowledged as a
// duplicate.
func (h *WearHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_wear"
	var req types.WearRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := req.ToEvent()
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}

	ack, err := h.deps.SubmitWear(r.Context(), ev)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if ack.Duplicate {
		writeJSON(w, http.StatusOK, ack)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

// HandleRecord handles POST /api/history. The wear is applied before the
// response so the created entry can be returned.
func (h *WearHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_wear"
	var req types.WearRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := req.ToEvent()
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}

	entry, dup, err := h.deps.Wear(r.Context(), ev)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, types.WearAck{Status: types.StatusDuplicate, EventID: ev.EventID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
