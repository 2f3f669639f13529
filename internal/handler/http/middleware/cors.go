package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"wimbledon-api/pkg/config"
)

// CORSConfig is the CORS policy for the API. The data served is public and
// read-only, so development allows every origin by default. Production
// serves no cross-origin requests until CORS_ALLOWED_ORIGINS names the
// deployed frontends.
type CORSConfig struct {
	// AllowedOrigins whitelists origins. ["*"] allows all.
	AllowedOrigins []string

	// AllowedMethods for preflight responses.
	AllowedMethods []string

	// AllowedHeaders for preflight responses.
	AllowedHeaders []string

	// MaxAge caps preflight caching, in seconds.
	MaxAge int
}

// LoadCORSConfig reads the CORS policy from the environment.
//
//   - CORS_ALLOWED_ORIGINS (default "*" in development, empty otherwise)
//   - CORS_ALLOWED_METHODS (default "GET,OPTIONS")
//   - CORS_ALLOWED_HEADERS (default "Content-Type,X-Request-ID")
//   - CORS_MAX_AGE seconds (default 86400)
func LoadCORSConfig(env string) CORSConfig {
	var defaultOrigins []string
	if env == config.EnvDevelopment {
		defaultOrigins = []string{"*"}
	}
	return CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", defaultOrigins),
		AllowedMethods: config.GetEnvStringList("CORS_ALLOWED_METHODS", []string{http.MethodGet, http.MethodOptions}),
		AllowedHeaders: config.GetEnvStringList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "X-Request-ID"}),
		MaxAge:         config.GetEnvInt("CORS_MAX_AGE", 86400),
	}
}

func (c CORSConfig) allowAll() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c CORSConfig) originAllowed(origin string) bool {
	if c.allowAll() {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// CORS handles cross-origin requests. Same-origin requests (no Origin
// header) pass through untouched. Preflights are answered with 204 without
// reaching the handlers.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.originAllowed(origin) {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := origin
			if cfg.allowAll() {
				allowOrigin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			if !cfg.allowAll() {
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
