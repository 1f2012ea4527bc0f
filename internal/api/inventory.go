package api

import (
	"net/http"
)

// InventoryHandler handles categories, dashboard statistics and the activity feed.
type InventoryHandler struct {
	Inventory Inventory
	errs      *errorWriter
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Categories handles GET /api/inventory/categories.
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Inventory.Categories(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/inventory/categories.
func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	category, err := h.Inventory.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}

// Stats handles GET /api/inventory/stats and GET /api/dashboard/stats.
func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Inventory.Stats(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Activity handles GET /api/inventory/activity.
func (h *InventoryHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	entries, err := h.Inventory.Activity(r.Context(), limit)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}
