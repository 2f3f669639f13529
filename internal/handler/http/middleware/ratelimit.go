package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"wimbledon-api/internal/handler/http/respond"
	"wimbledon-api/pkg/ratelimit"
)

// RateLimit enforces the per-route policies from cfg. Every response
// carries the X-RateLimit-* headers of the binding limit; a denial adds
// Retry-After and the 429 envelope.
//
// Failures inside the limiter fail open: serving an extra request is better
// than turning a limiter outage into an API outage.
type RateLimit struct {
	config    *ratelimit.Config
	limiter   *ratelimit.Limiter
	extractor IPExtractor
	logger    *slog.Logger
}

// NewRateLimit wires the middleware.
func NewRateLimit(cfg *ratelimit.Config, limiter *ratelimit.Limiter, extractor IPExtractor, logger *slog.Logger) *RateLimit {
	return &RateLimit{config: cfg, limiter: limiter, extractor: extractor, logger: logger}
}

// Middleware returns the http.Handler wrapper.
func (m *RateLimit) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip, err := m.extractor.ExtractIP(r)
			if err != nil {
				m.logger.Error("rate limiter failed to extract IP, allowing request",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			policy := m.config.PolicyFor(r.URL.Path)
			decision, err := m.limiter.Allow(r.Context(), ip, policy, r.URL.Path)
			if err != nil {
				m.logger.Error("rate limit check failed, allowing request",
					slog.String("error", err.Error()),
					slog.String("ip", ip),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, decision)

			if !decision.Allowed {
				m.logger.Info("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
					slog.String("scope", decision.Scope),
					slog.Int64("retry_after", decision.RetryAfterSeconds()))
				w.Header().Set("Retry-After", strconv.FormatInt(decision.RetryAfterSeconds(), 10))
				respond.RateLimited(w,
					fmt.Sprintf("rate limit exceeded: %d requests per window", decision.Limit),
					decision.RetryAfterSeconds())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, d *ratelimit.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAtUnix(), 10))
}
