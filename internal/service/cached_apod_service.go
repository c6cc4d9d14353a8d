package service

import (
	"context"
	"errors"
	"time"

	"apod/server/internal/cache"
	"apod/server/internal/logger"
	"apod/server/internal/metrics"
	"apod/server/internal/model"
)

const (
	cacheKeyAll        = "apod:all"
	cacheKeyLatest     = "apod:latest"
	cacheKeyDatePrefix = "apod:date:"
)

var (
	allPolicy    = cache.Policy{Sliding: 5 * time.Minute, Absolute: time.Hour}
	datePolicy   = cache.Policy{Absolute: time.Hour}
	latestPolicy = cache.Policy{Sliding: 5 * time.Minute}
)

// DateCacheKey is the cache fingerprint of a single-date lookup.
func DateCacheKey(date time.Time) string {
	return cacheKeyDatePrefix + model.FormatDate(date)
}

// CachedAPODService memoizes reads in front of APODService. Errors are never cached.
type CachedAPODService interface {
	List(ctx context.Context) ([]model.Entry, error)
	GetByDate(ctx context.Context, date time.Time) (model.Entry, error)
	GetLatest(ctx context.Context) (model.Entry, error)
	// ClearCache drops every memoized result and returns how many were held.
	ClearCache() int
}

type cachedAPODService struct {
	apod    APODService
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewCachedAPODService(apod APODService, c *cache.Cache, m *metrics.Metrics) CachedAPODService {
	return &cachedAPODService{apod: apod, cache: c, metrics: m}
}

func (s *cachedAPODService) List(ctx context.Context) ([]model.Entry, error) {
	if v, ok := s.lookup("all", cacheKeyAll); ok {
		return v.([]model.Entry), nil
	}

	entries, err := s.apod.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyAll, entries, allPolicy)
	return entries, nil
}

func (s *cachedAPODService) GetByDate(ctx context.Context, date time.Time) (model.Entry, error) {
	if err := s.apod.ValidateDate(date); err != nil {
		return model.Entry{}, err
	}

	key := DateCacheKey(date)
	if v, ok := s.lookup("date", key); ok {
		return v.(model.Entry), nil
	}

	entry, err := s.apod.Resolve(ctx, date)
	if err != nil {
		return model.Entry{}, err
	}
	s.cache.Set(key, entry, datePolicy)
	return entry, nil
}

// GetLatest serves the provider's latest record. When the provider is
// unavailable it falls back to the newest stored entry, uncached.
func (s *cachedAPODService) GetLatest(ctx context.Context) (model.Entry, error) {
	if v, ok := s.lookup("latest", cacheKeyLatest); ok {
		return v.(model.Entry), nil
	}

	entry, err := s.apod.ResolveLatest(ctx)
	if err == nil {
		s.cache.Set(cacheKeyLatest, entry, latestPolicy)
		return entry, nil
	}
	if !errors.Is(err, ErrUpstream) && !errors.Is(err, ErrNotFound) {
		return model.Entry{}, err
	}

	logger.Warn("latest from provider unavailable, serving newest stored entry", "module", "service", "action", "fetch", "resource", "apod", "result", "fallback", "error", err)
	return s.apod.NewestStored(ctx)
}

func (s *cachedAPODService) ClearCache() int {
	n := s.cache.Clear()
	logger.Info("cache cleared", "module", "service", "action", "clear", "resource", "cache", "result", "ok", "count", n)
	return n
}

func (s *cachedAPODService) lookup(class, key string) (any, bool) {
	v, ok := s.cache.Get(key)
	s.metrics.ObserveCacheLookup(class, ok)
	return v, ok
}
