// Package cacheadmin exposes operational cache endpoints: counters and a
// manual flush.
package cacheadmin

import (
	"log/slog"
	"net/http"
	"time"

	"wimbledon-api/internal/domain/entity"
	"wimbledon-api/internal/handler/http/respond"
	"wimbledon-api/internal/infra/cache"
)

// StatsResponse is the /api/cache/stats payload.
type StatsResponse struct {
	cache.Stats
	TTL TTLConfig `json:"ttl"`
}

// TTLConfig reports the configured TTL per key class, in seconds.
type TTLConfig struct {
	Result int `json:"result_seconds"`
	Years  int `json:"years_seconds"`
	Health int `json:"health_seconds"`
}

// ClearResponse is the /api/cache/clear payload.
type ClearResponse struct {
	Status      string `json:"status"`
	KeysCleared int    `json:"keys_cleared"`
	ClearedAt   string `json:"cleared_at"`
}

// Handler serves the cache admin routes.
type Handler struct {
	cache  cache.Cache
	logger *slog.Logger
}

// NewHandler creates the handler.
func NewHandler(c cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{cache: c, logger: logger}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cache/stats", h.Stats)
	mux.HandleFunc("POST /api/cache/clear", h.Clear)
}

// Stats handles GET /api/cache/stats. Connectivity is probed live rather
// than taken from the counter snapshot.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()
	stats.Connected = h.cache.Connected(r.Context())
	respond.JSON(w, http.StatusOK, StatsResponse{
		Stats: stats,
		TTL: TTLConfig{
			Result: int(cache.ResultTTL.Seconds()),
			Years:  int(cache.YearsTTL.Seconds()),
			Health: int(cache.HealthTTL.Seconds()),
		},
	})
}

// Clear handles POST /api/cache/clear. Clearing a disabled cache succeeds:
// there is nothing to flush.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.cache.Clear(r.Context())
	if err != nil {
		h.logger.Error("cache clear failed", slog.String("error", err.Error()))
		respond.Error(w, http.StatusInternalServerError,
			"failed to clear cache", entity.CodeInternalError)
		return
	}
	h.logger.Info("cache cleared", slog.Int("keys", cleared))
	respond.JSON(w, http.StatusOK, ClearResponse{
		Status:      "cleared",
		KeysCleared: cleared,
		ClearedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
