package http

import (
	"net/http"
	"sort"

	"wimbledon-api/internal/handler/http/respond"
	"wimbledon-api/pkg/ratelimit"
)

// EndpointDoc describes one route in the /api/docs payload.
type EndpointDoc struct {
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters,omitempty"`
	RateLimits  []string `json:"rate_limits"`
}

// DocsResponse is the /api/docs payload.
type DocsResponse struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
	Endpoints   []EndpointDoc `json:"endpoints"`
}

// DocsHandler serves static API documentation. The rate limits shown are
// read from the live configuration, so the docs cannot drift from the
// enforced policies.
type DocsHandler struct {
	Version   string
	RateLimit *ratelimit.Config
}

func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	endpoints := []EndpointDoc{
		{
			Path:        "/wimbledon",
			Method:      http.MethodGet,
			Description: "Final result for one year, bare result fields",
			Parameters:  []string{"year (required, 2014-2024)"},
		},
		{
			Path:        "/api/wimbledon",
			Method:      http.MethodGet,
			Description: "Final result for one year with response metadata",
			Parameters:  []string{"year (required, 2014-2024)"},
		},
		{
			Path:        "/api/wimbledon/years",
			Method:      http.MethodGet,
			Description: "All covered years in ascending order",
		},
		{
			Path:        "/health",
			Method:      http.MethodGet,
			Description: "Liveness and cache connectivity",
		},
		{
			Path:        "/api/cache/stats",
			Method:      http.MethodGet,
			Description: "Cache hit/miss counters and connectivity",
		},
		{
			Path:        "/api/cache/clear",
			Method:      http.MethodPost,
			Description: "Clear all cached responses",
		},
		{
			Path:        "/api/docs",
			Method:      http.MethodGet,
			Description: "This document",
		},
		{
			Path:        "/metrics",
			Method:      http.MethodGet,
			Description: "Prometheus metrics",
		},
	}

	for i := range endpoints {
		endpoints[i].RateLimits = h.limitsFor(endpoints[i].Path)
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].Path < endpoints[j].Path })

	respond.JSON(w, http.StatusOK, DocsResponse{
		Name:        "Wimbledon Men's Singles Finals API",
		Version:     h.Version,
		Description: "Read-only results of the Wimbledon Men's Singles Final, 2014-2024",
		Endpoints:   endpoints,
	})
}

func (h *DocsHandler) limitsFor(path string) []string {
	if h.RateLimit == nil || !h.RateLimit.Enabled {
		return []string{"disabled"}
	}
	policy := h.RateLimit.PolicyFor(path)
	limits := make([]string, 0, len(policy.Limits))
	for _, l := range policy.Limits {
		limits = append(limits, l.String())
	}
	return limits
}
