package http

import (
	"encoding/json"
	"net/http"
	"time"

	"wimbledon-api/internal/handler/http/respond"
	"wimbledon-api/internal/infra/cache"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status         string                `json:"status"`
	Timestamp      string                `json:"timestamp"`
	CacheConnected bool                  `json:"cache_connected"`
	Checks         map[string]CheckState `json:"checks"`
	Version        string                `json:"version"`
}

// CheckState is the status of one health check item.
type CheckState struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports process liveness and cache connectivity. The
// dataset is in memory and cannot fail at runtime, so a cache outage still
// returns 200: it degrades the service, it does not break it.
type HealthHandler struct {
	Cache   cache.Cache
	Version string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The connectivity probe is itself cached briefly so health polling
	// cannot hammer a struggling Redis.
	if payload, ok := h.Cache.Get(r.Context(), cache.HealthKey()); ok {
		var resp HealthResponse
		if err := json.Unmarshal(payload, &resp); err == nil {
			resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
			respond.JSON(w, http.StatusOK, resp)
			return
		}
	}

	connected := h.Cache.Connected(r.Context())
	resp := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		CacheConnected: connected,
		Checks: map[string]CheckState{
			"cache": cacheCheck(h.Cache.Stats(), connected),
		},
		Version: h.Version,
	}

	if payload, err := json.Marshal(resp); err == nil {
		h.Cache.Set(r.Context(), cache.HealthKey(), payload, cache.HealthTTL)
	}
	respond.JSON(w, http.StatusOK, resp)
}

func cacheCheck(stats cache.Stats, connected bool) CheckState {
	switch {
	case !stats.Enabled:
		return CheckState{Status: "disabled", Message: "no redis endpoint configured"}
	case connected:
		return CheckState{Status: "healthy"}
	default:
		return CheckState{Status: "unhealthy", Message: "redis unreachable, serving without cache"}
	}
}
