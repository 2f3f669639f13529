package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wimbledon-api/pkg/ratelimit"
)

func testRateLimitConfig() *ratelimit.Config {
	return &ratelimit.Config{
		Enabled: true,
		Default: ratelimit.Policy{
			Name: "default",
			Limits: []ratelimit.Limit{
				{Count: 200, Window: 24 * time.Hour},
				{Count: 50, Window: time.Hour},
			},
		},
		Routes: map[string]ratelimit.Policy{
			"/wimbledon": {
				Name:   "/wimbledon",
				Limits: []ratelimit.Limit{{Count: 30, Window: time.Minute}},
			},
		},
	}
}

func getDocs(t *testing.T, h *DocsHandler) DocsResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDocsListsAllRoutes(t *testing.T) {
	resp := getDocs(t, &DocsHandler{Version: "1.0.0", RateLimit: testRateLimitConfig()})

	assert.Equal(t, "1.0.0", resp.Version)

	var got []string
	for _, e := range resp.Endpoints {
		got = append(got, e.Path)
	}
	assert.True(t, sort.StringsAreSorted(got), "endpoints sorted by path: %v", got)
	assert.Equal(t, []string{
		"/api/cache/clear",
		"/api/cache/stats",
		"/api/docs",
		"/api/wimbledon",
		"/api/wimbledon/years",
		"/health",
		"/metrics",
		"/wimbledon",
	}, got)
}

func TestDocsReportsLiveLimits(t *testing.T) {
	resp := getDocs(t, &DocsHandler{Version: "1.0.0", RateLimit: testRateLimitConfig()})

	limits := map[string][]string{}
	for _, e := range resp.Endpoints {
		limits[e.Path] = e.RateLimits
	}

	assert.Equal(t, []string{"30 per minute"}, limits["/wimbledon"])
	// /health has no route policy, so the default applies.
	assert.Equal(t, []string{"200 per day", "50 per hour"}, limits["/health"])
}

func TestDocsDisabledRateLimits(t *testing.T) {
	resp := getDocs(t, &DocsHandler{Version: "1.0.0", RateLimit: &ratelimit.Config{Enabled: false}})

	for _, e := range resp.Endpoints {
		assert.Equal(t, []string{"disabled"}, e.RateLimits, "path %s", e.Path)
	}
}
