// Command api serves the Wimbledon Men's Singles final results API.
//
// The process aborts on startup when the dataset or configuration is
// unusable. Redis is optional at runtime: a missing or unreachable backend
// degrades caching to noop and, for the redis rate limit backend, falls
// back to the in-memory store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"wimbledon-api/internal/handler/http/cacheadmin"
	finalhttp "wimbledon-api/internal/handler/http/final"
	"wimbledon-api/internal/handler/http/middleware"
	"wimbledon-api/internal/handler/http/requestid"
	"wimbledon-api/internal/infra/cache"
	"wimbledon-api/internal/infra/dataset"
	"wimbledon-api/internal/observability/logging"
	"wimbledon-api/internal/observability/tracing"
	finaluc "wimbledon-api/internal/usecase/final"
	"wimbledon-api/pkg/config"
	"wimbledon-api/pkg/ratelimit"

	hhttp "wimbledon-api/internal/handler/http"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	version := getVersion()
	srvCfg := config.LoadServer()
	if err := srvCfg.Validate(); err != nil {
		logger.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	store, err := dataset.Load(srvCfg.DataFile)
	if err != nil {
		logger.Error("failed to load dataset",
			slog.String("path", srvCfg.DataFile),
			slog.Any("error", err))
		os.Exit(1)
	}
	earliest, latest := store.Bounds()
	logger.Info("dataset loaded",
		slog.String("path", srvCfg.DataFile),
		slog.Int("years", store.Len()),
		slog.Int("earliest", earliest),
		slog.Int("latest", latest))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCache, redisClient := cache.Connect(ctx, cache.LoadConfig(), logger)

	components := setupServer(ctx, logger, srvCfg, store, resultCache, redisClient, version)

	runServer(ctx, cancel, logger, srvCfg, components, version)
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return finalhttp.APIVersion
}

// serverComponents holds what runServer needs beyond the handler.
type serverComponents struct {
	Handler         http.Handler
	Limiter         *ratelimit.Limiter
	CleanupInterval time.Duration
	Retention       time.Duration
}

// setupServer assembles services, routes and middleware.
func setupServer(
	ctx context.Context,
	logger *slog.Logger,
	srvCfg config.Server,
	store *dataset.Store,
	resultCache cache.Cache,
	redisClient *redis.Client,
	version string,
) *serverComponents {
	svc := finaluc.NewService(store, resultCache, logger)

	rlCfg := config.LoadRateLimitConfig()
	if err := rlCfg.Validate(); err != nil {
		logger.Error("invalid rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}

	proxyCfg, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("invalid trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	var extractor middleware.IPExtractor
	if proxyCfg.Enabled {
		extractor = middleware.NewTrustedProxyExtractor(proxyCfg)
		logger.Info("rate limiting: trusted proxy mode",
			slog.Int("trusted_proxies", len(proxyCfg.AllowedCIDRs)))
	} else {
		extractor = &middleware.RemoteAddrExtractor{}
		logger.Info("rate limiting: using RemoteAddr, proxy headers ignored")
	}

	components := &serverComponents{
		CleanupInterval: rlCfg.CleanupInterval,
		Retention:       rlCfg.MaxWindow(),
	}

	var limiter *ratelimit.Limiter
	if rlCfg.Enabled {
		var rlStore ratelimit.Store
		switch rlCfg.Backend {
		case ratelimit.BackendRedis:
			if redisClient != nil {
				rlStore = ratelimit.NewRedisStore(redisClient, "ratelimit:", rlCfg.MaxWindow())
			} else {
				logger.Warn("redis rate limit backend requested but redis is unavailable, using memory store")
				rlStore = ratelimit.NewMemoryStore(rlCfg.MaxKeys)
			}
		default:
			rlStore = ratelimit.NewMemoryStore(rlCfg.MaxKeys)
		}

		var algo ratelimit.Algorithm
		switch rlCfg.Algorithm {
		case ratelimit.AlgorithmTokenBucket:
			tb := ratelimit.NewTokenBucket(ratelimit.SystemClock{}, rlCfg.MaxWindow())
			tb.StartJanitor(ctx, rlCfg.CleanupInterval)
			algo = tb
		default:
			algo = ratelimit.NewSlidingWindow(ratelimit.SystemClock{})
		}

		metrics := ratelimit.NewPrometheusMetrics(prometheus.DefaultRegisterer)
		limiter = ratelimit.NewLimiter(rlStore, algo, metrics)
		components.Limiter = limiter

		logger.Info("rate limiting initialized",
			slog.String("backend", rlCfg.Backend),
			slog.String("algorithm", rlCfg.Algorithm),
			slog.String("default_policy", rlCfg.Default.String()),
			slog.Int("route_policies", len(rlCfg.Routes)),
			slog.Int("max_keys", rlCfg.MaxKeys))
	} else {
		logger.Warn("rate limiting is DISABLED, not recommended for production")
	}
	rateLimit := middleware.NewRateLimit(rlCfg, limiter, extractor, logger)

	mux := http.NewServeMux()
	finalhttp.NewHandler(svc, logger).Register(mux)
	cacheadmin.NewHandler(resultCache, logger).Register(mux)
	mux.Handle("GET /health", &hhttp.HealthHandler{Cache: resultCache, Version: version})
	mux.Handle("GET /api/docs", &hhttp.DocsHandler{Version: version, RateLimit: rlCfg})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("/", &hhttp.RootHandler{Version: version})

	components.Handler = applyMiddleware(logger, mux, rateLimit, srvCfg.Env)
	return components
}

// applyMiddleware builds the chain, outermost first:
// security headers, CORS, request ID, tracing, metrics, rate limit,
// recovery, logging, body limit. Security headers sit at the very top so
// responses short-circuited lower down, preflight 204s and rate limit
// 429s included, still carry them. Metrics and tracing sit outside the
// rate limiter so 429s land in http_requests_total and in spans, and
// tracing sits outside logging so every request line carries a trace ID.
func applyMiddleware(logger *slog.Logger, handler http.Handler, rateLimit *middleware.RateLimit, env string) http.Handler {
	corsCfg := middleware.LoadCORSConfig(env)
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsCfg.AllowedOrigins),
		slog.Any("allowed_methods", corsCfg.AllowedMethods),
		slog.Int("max_age", corsCfg.MaxAge))

	secCfg := middleware.LoadSecurityHeadersConfig(env)

	chain := handler
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = rateLimit.Middleware()(chain)
	chain = hhttp.Metrics(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsCfg)(chain)
	chain = middleware.SecurityHeaders(secCfg)(chain)
	return chain
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM.
func runServer(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *slog.Logger,
	srvCfg config.Server,
	components *serverComponents,
	version string,
) {
	if components.Limiter != nil {
		components.Limiter.StartCleanup(ctx, components.CleanupInterval, components.Retention)
		logger.Info("rate limit store cleanup started",
			slog.Duration("interval", components.CleanupInterval),
			slog.Duration("retention", components.Retention))
	}

	srv := &http.Server{
		Addr:              srvCfg.Addr(),
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("env", srvCfg.Env),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
