package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/erazemk/popis/internal/imaging"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
)

// Inventory is the lifecycle controller used by the HTTP layer.
// *inventory.Service implements it.
type Inventory interface {
	Create(ctx context.Context, in model.ItemInput, actor *int64) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, p inventory.ListParams) (*inventory.ItemPage, error)
	Update(ctx context.Context, id int64, p model.ItemPatch, actor *int64) (*model.Item, error)
	Delete(ctx context.Context, id int64, actor *int64) error

	Checkout(ctx context.Context, id int64, in model.CheckoutInput, actor *int64) (*model.Item, error)
	Checkin(ctx context.Context, id int64, in model.CheckinInput, actor *int64) (*model.Item, error)
	Dispose(ctx context.Context, id int64, in model.DisposeInput, actor *int64) (*model.Item, error)
	StartMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (*model.Item, error)
	EndMaintenance(ctx context.Context, id int64, in model.MaintenanceInput, actor *int64) (*model.Item, error)

	History(ctx context.Context, id int64) (*inventory.ItemHistory, error)
	Activity(ctx context.Context, limit int) ([]model.Activity, error)
	Categories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	Stats(ctx context.Context) (*model.Stats, error)

	SetPhoto(ctx context.Context, id int64, r io.Reader) error
	Photo(ctx context.Context, id int64) ([]byte, string, error)
}

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Inventory Inventory
	errs      *errorWriter
}

// List handles GET /api/inventory/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	q := r.URL.Query()
	result, err := h.Inventory.List(r.Context(), inventory.ListParams{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Create handles POST /api/inventory/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemInput
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	item, err := h.Inventory.Create(r.Context(), req, actor(r.Context()))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/inventory/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Inventory.Get(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/inventory/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req model.ItemPatch
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	item, err := h.Inventory.Update(r.Context(), id, req, actor(r.Context()))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Inventory.Delete(r.Context(), id, actor(r.Context())); err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// transition decodes an optional lifecycle request body, applies fn and
// writes respond(item).
func transition[T any](h *ItemsHandler, fn func(ctx context.Context, id int64, in T, actor *int64) (*model.Item, error), respond func(*model.Item) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item id")
			return
		}

		var in T
		if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, errEmptyBody) {
			badRequest(w, err)
			return
		}

		item, err := fn(r.Context(), id, in, actor(r.Context()))
		if err != nil {
			h.errs.write(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, respond(item))
	}
}

func itemBody(item *model.Item) any { return item }

// Checkout handles POST /api/inventory/items/{id}/checkout.
func (h *ItemsHandler) Checkout() http.HandlerFunc {
	return transition(h, h.Inventory.Checkout, itemBody)
}

// Checkin handles POST /api/inventory/items/{id}/checkin.
func (h *ItemsHandler) Checkin() http.HandlerFunc {
	return transition(h, h.Inventory.Checkin, itemBody)
}

// Maintenance handles POST /api/inventory/items/{id}/maintenance.
func (h *ItemsHandler) Maintenance() http.HandlerFunc {
	return transition(h, h.Inventory.StartMaintenance, itemBody)
}

// Release handles POST /api/inventory/items/{id}/release.
func (h *ItemsHandler) Release() http.HandlerFunc {
	return transition(h, h.Inventory.EndMaintenance, itemBody)
}

// Dispose handles PUT /api/inventory/items/{id}/dispose.
func (h *ItemsHandler) Dispose() http.HandlerFunc {
	return transition(h, h.Inventory.Dispose, func(item *model.Item) any {
		return map[string]any{"message": "item disposed", "item": item}
	})
}

// History handles GET /api/inventory/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	history, err := h.Inventory.History(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, history)
}

// UploadPhoto handles PUT /api/inventory/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	if err := h.Inventory.SetPhoto(r.Context(), id, file); err != nil {
		h.errs.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo updated"})
}

// GetPhoto handles GET /api/inventory/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := h.Inventory.Photo(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
