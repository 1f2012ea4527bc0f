package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger checks that the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the API index and health probe.
type SystemHandler struct {
	DB      Pinger
	Version string
	Log     *zap.SugaredLogger
}

// Index handles GET /.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"name":    "popis",
		"version": h.Version,
		"endpoints": map[string]string{
			"health":     "/health",
			"auth":       "/api/auth",
			"users":      "/api/users",
			"items":      "/api/inventory/items",
			"categories": "/api/inventory/categories",
			"activity":   "/api/inventory/activity",
			"stats":      "/api/dashboard/stats",
		},
	})
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		h.Log.Warnw("health check failed", "error", err)
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "unreachable",
		})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"database":  "ok",
		"timestamp": time.Now().UTC(),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
}
