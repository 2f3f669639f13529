// Package final implements the lookup pipeline for Wimbledon finals:
// cache read, miss coalescing, dataset lookup and cache write-back.
package final

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"wimbledon-api/internal/domain/entity"
	"wimbledon-api/internal/infra/cache"
	"wimbledon-api/internal/observability/tracing"
)

// Store is the dataset the service reads from.
type Store interface {
	Get(year int) (entity.Result, error)
	Years() []int
	Bounds() (min, max int)
}

// Service serves final results through the cache. Concurrent misses for the
// same key are coalesced into a single dataset read and cache write.
type Service struct {
	store  Store
	cache  cache.Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService wires the lookup service.
func NewService(store Store, c cache.Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: c, logger: logger}
}

// Lookup returns the final for year. The year must already be validated
// against Bounds; an in-range year missing from the dataset surfaces as
// entity.ErrYearNotFound.
func (s *Service) Lookup(ctx context.Context, year int) (entity.Result, error) {
	ctx, span := tracing.Tracer().Start(ctx, "final.Lookup")
	defer span.End()
	span.SetAttributes(attribute.Int("wimbledon.year", year))

	key := cache.YearKey(year)
	if payload, ok := s.cache.Get(ctx, key); ok {
		var r entity.Result
		if err := json.Unmarshal(payload, &r); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return r, nil
		}
		s.logger.Warn("discarding corrupt cache entry", slog.String("key", key))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, _ := s.group.Do(key, func() (any, error) {
		r, err := s.store.Get(year)
		if err != nil {
			return entity.Result{}, err
		}
		s.writeBack(ctx, key, r, cache.ResultTTL)
		return r, nil
	})
	if err != nil {
		return entity.Result{}, err
	}
	return v.(entity.Result), nil
}

// Years returns every covered year in ascending order.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	ctx, span := tracing.Tracer().Start(ctx, "final.Years")
	defer span.End()

	key := cache.YearsKey()
	if payload, ok := s.cache.Get(ctx, key); ok {
		var years []int
		if err := json.Unmarshal(payload, &years); err == nil {
			return years, nil
		}
		s.logger.Warn("discarding corrupt cache entry", slog.String("key", key))
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		years := s.store.Years()
		s.writeBack(ctx, key, years, cache.YearsTTL)
		return years, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]int), nil
}

// Bounds returns the inclusive year range of the dataset.
func (s *Service) Bounds() (min, max int) {
	return s.store.Bounds()
}

func (s *Service) writeBack(ctx context.Context, key string, v any, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache write-back marshal failed",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	s.cache.Set(ctx, key, payload, ttl)
}
