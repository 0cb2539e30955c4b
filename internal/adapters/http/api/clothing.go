package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/types"
)

// ClothingHandler serves the wardrobe CRUD routes.
type ClothingHandler struct {
	deps Dependencies
}

// NewClothingHandler creates a new clothing handler.
func NewClothingHandler(deps Dependencies) *ClothingHandler {
	return &ClothingHandler{deps: deps}
}

// HandleList handles GET /api/clothing?type=&tag=&sort=.
func (h *ClothingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_clothing"
	q := r.URL.Query()

	var f model.ItemFilter
	if t := q.Get("type"); t != "" {
		slot, err := model.ParseSlot(t)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
			return
		}
		f.Slot = slot
	}
	f.Tag = q.Get("tag")
	order, err := model.ParseSortOrder(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	f.Sort = order

	items, err := h.deps.ListItems(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if items == nil {
		items = []model.ClothingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleCreate handles POST /api/clothing.
func (h *ClothingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_clothing"
	var req types.ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	item, err := req.ToItem()
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	created, err := h.deps.AddItem(r.Context(), item)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /api/clothing/{id}.
func (h *ClothingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_clothing"
	var patch model.ItemPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	updated, err := h.deps.UpdateItem(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/clothing/{id}.
func (h *ClothingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "api.delete_clothing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkWorn handles POST /api/clothing/{id}/wear.
func (h *ClothingHandler) HandleMarkWorn(w http.ResponseWriter, r *http.Request) {
	item, err := h.deps.MarkItemWorn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "api.mark_worn", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
