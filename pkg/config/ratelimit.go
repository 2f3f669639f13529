package config

import (
	"log/slog"
	"time"

	"wimbledon-api/pkg/ratelimit"
)

// Built-in route policies. A policy file (RATELIMIT_POLICY_FILE) replaces
// these wholesale.
var defaultRoutePolicies = map[string][]ratelimit.Limit{
	"/wimbledon":           {{Count: 30, Window: time.Minute}},
	"/api/wimbledon":       {{Count: 30, Window: time.Minute}},
	"/api/wimbledon/years": {{Count: 10, Window: time.Minute}},
	"/api/cache/stats":     {{Count: 10, Window: time.Minute}},
	"/api/cache/clear":     {{Count: 5, Window: time.Minute}},
}

// LoadRateLimitConfig assembles the rate limiting configuration from the
// environment.
//
// Environment variables:
//   - RATELIMIT_ENABLED: enable limiting (default true)
//   - RATELIMIT_BACKEND: "memory" or "redis" (default memory)
//   - RATELIMIT_ALGORITHM: "sliding_window" or "token_bucket" (default sliding_window)
//   - RATELIMIT_DEFAULT: comma-separated quota list (default "200 per day,50 per hour")
//   - RATELIMIT_MAX_KEYS: in-memory key cap (default 10000)
//   - RATELIMIT_CLEANUP_INTERVAL: store cleanup cadence (default 5m)
//   - RATELIMIT_POLICY_FILE: YAML file of route policies, replaces built-ins
//
// Invalid values warn and fall back, they never abort startup.
func LoadRateLimitConfig() *ratelimit.Config {
	cfg := &ratelimit.Config{
		Enabled:         GetEnvBool("RATELIMIT_ENABLED", true),
		Backend:         GetEnvString("RATELIMIT_BACKEND", ratelimit.BackendMemory),
		Algorithm:       GetEnvString("RATELIMIT_ALGORITHM", ratelimit.AlgorithmSlidingWindow),
		MaxKeys:         GetEnvInt("RATELIMIT_MAX_KEYS", ratelimit.DefaultMaxKeys),
		CleanupInterval: GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}

	if cfg.MaxKeys <= 0 {
		slog.Warn("invalid RATELIMIT_MAX_KEYS, using default",
			slog.Int("value", cfg.MaxKeys),
			slog.Int("default", ratelimit.DefaultMaxKeys))
		cfg.MaxKeys = ratelimit.DefaultMaxKeys
	}
	if err := ValidatePositiveDuration(cfg.CleanupInterval); err != nil {
		slog.Warn("invalid RATELIMIT_CLEANUP_INTERVAL, using default",
			slog.String("value", cfg.CleanupInterval.String()),
			slog.String("default", "5m"))
		cfg.CleanupInterval = 5 * time.Minute
	}

	cfg.Default = loadDefaultPolicy()
	cfg.Routes = loadRoutePolicies(&cfg.Default)
	return cfg
}

func loadDefaultPolicy() ratelimit.Policy {
	fallback := ratelimit.Policy{
		Name: "default",
		Limits: []ratelimit.Limit{
			{Count: 200, Window: 24 * time.Hour},
			{Count: 50, Window: time.Hour},
		},
	}

	exprs := GetEnvStringList("RATELIMIT_DEFAULT", nil)
	if len(exprs) == 0 {
		return fallback
	}
	limits, err := ratelimit.ParseLimits(exprs)
	if err != nil {
		slog.Warn("invalid RATELIMIT_DEFAULT, using default policy",
			slog.String("error", err.Error()))
		return fallback
	}
	return ratelimit.Policy{Name: "default", Limits: limits}
}

// loadRoutePolicies returns the route policy table. A policy file replaces
// the built-ins, and its default section (when present) overrides def.
func loadRoutePolicies(def *ratelimit.Policy) map[string]ratelimit.Policy {
	if path := GetEnvString("RATELIMIT_POLICY_FILE", ""); path != "" {
		fileDefault, routes, err := ratelimit.LoadPolicyFile(path)
		if err != nil {
			slog.Warn("failed to load rate limit policy file, using built-in policies",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			if len(fileDefault.Limits) > 0 {
				*def = fileDefault
			}
			return routes
		}
	}

	routes := make(map[string]ratelimit.Policy, len(defaultRoutePolicies))
	for path, limits := range defaultRoutePolicies {
		routes[path] = ratelimit.Policy{Name: path, Limits: limits}
	}
	return routes
}
