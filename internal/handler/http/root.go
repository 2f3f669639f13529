package http

import (
	"net/http"

	"wimbledon-api/internal/domain/entity"
	"wimbledon-api/internal/handler/http/respond"
)

// availableEndpoints is advertised by the welcome route and by the 404
// fallback so clients can discover the API without external docs.
var availableEndpoints = []string{
	"GET /health",
	"GET /api/docs",
	"GET /wimbledon?year=YYYY",
	"GET /api/wimbledon?year=YYYY",
	"GET /api/wimbledon/years",
	"GET /api/cache/stats",
	"POST /api/cache/clear",
	"GET /metrics",
}

// WelcomeResponse is the GET / payload.
type WelcomeResponse struct {
	Message            string   `json:"message"`
	Version            string   `json:"version"`
	Documentation      string   `json:"documentation"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

type notFoundBody struct {
	Error              string   `json:"error"`
	ErrorCode          string   `json:"error_code"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

// RootHandler serves the welcome payload on exactly "/" and acts as the
// 404 fallback for every unregistered path.
type RootHandler struct {
	Version string
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respond.JSON(w, http.StatusNotFound, notFoundBody{
			Error:              "endpoint not found",
			ErrorCode:          entity.CodeNotFound,
			AvailableEndpoints: availableEndpoints,
		})
		return
	}

	respond.JSON(w, http.StatusOK, WelcomeResponse{
		Message:            "Welcome to the Wimbledon API",
		Version:            h.Version,
		Documentation:      "/api/docs",
		AvailableEndpoints: availableEndpoints,
	})
}
