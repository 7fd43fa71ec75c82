package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/logger"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
//
// Each resource carries an invalidation generation. A read that loaded from
// the database fills the cache through Fill, which drops the value when the
// resource was invalidated after the load started.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	prefix     string
	logger     *zap.Logger
	enabled    bool

	mu          sync.RWMutex
	generations map[string]uint64
}

// NewCacheService constructs a cache service. Keys are namespaced under prefix.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, prefix string, log *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if prefix == "" {
		prefix = "school"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CacheService{
		repo:        repo,
		metrics:     metrics,
		defaultTTL:  defaultTTL,
		prefix:      prefix,
		logger:      log,
		enabled:     enabled,
		generations: make(map[string]uint64),
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Key joins parts into a namespaced cache key, e.g. school:teachers:42.
func (s *CacheService) Key(parts ...string) string {
	prefix := "school"
	if s != nil {
		prefix = s.prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheLookup(key, false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		logger.FromContext(ctx, s.logger).Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheLookup(key, true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Generation returns the invalidation counter of resource.
func (s *CacheService) Generation(resource string) uint64 {
	if !s.Enabled() {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[resource]
}

// Fill caches a value loaded while resource was at generation. It is a no-op
// when an invalidation happened in between.
func (s *CacheService) Fill(ctx context.Context, resource string, generation uint64, key string, value interface{}) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generations[resource] != generation {
		return nil
	}
	return s.Set(ctx, key, value, 0)
}

// Invalidate removes every cached value under the given resources.
func (s *CacheService) Invalidate(ctx context.Context, resources ...string) error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	for _, resource := range resources {
		s.generations[resource]++
	}
	s.mu.Unlock()

	var firstErr error
	for _, resource := range resources {
		pattern := s.Key(resource, "*")
		if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
			logger.FromContext(ctx, s.logger).Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
