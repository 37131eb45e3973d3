package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"careerlens/internal/config"
	"careerlens/internal/logging"
	"careerlens/pkg/models"
)

const (
	redisKeyPrefix = "agg"

	// Hit accounting lives in a companion hash so recording a hit is a
	// single atomic HINCRBY instead of a read-modify-write of the entry
	// JSON. The prefix must not match the "agg:*" scan pattern.
	redisMetaPrefix = "agg-meta"
)

// RedisStore implements Store on top of go-redis. Entries are stored as JSON
// under "agg:{cache_type}:{cache_key}" with a server-side TTL, so the redis
// server handles expiry; ClearExpired only mops up entries whose embedded
// expiry is stale but whose key still exists. The entry JSON is immutable
// after Set; hit counters live in a companion hash with the same TTL.
type RedisStore struct {
	client *redis.Client
	cfg    *config.Config
	logger logging.Logger
}

// NewRedisStore creates a redis-backed store from the configured URL.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisStore{
		client: redis.NewClient(opts),
		cfg:    cfg,
		logger: logging.GetGlobalLogger().WithField("component", "redis_cache"),
	}, nil
}

func redisKey(cacheType, cacheKey string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, cacheType, cacheKey)
}

func metaKeyFor(entryKey string) string {
	return redisMetaPrefix + strings.TrimPrefix(entryKey, redisKeyPrefix)
}

// Get fetches the entry and records the hit atomically in the companion hash.
func (s *RedisStore) Get(ctx context.Context, cacheType string, params map[string]string) (*Entry, bool, error) {
	key := redisKey(cacheType, Key(cacheType, params))
	meta := metaKeyFor(key)

	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt entry is useless; drop it and report a miss.
		s.client.Del(ctx, key, meta)
		return nil, false, nil
	}

	now := time.Now()
	if entry.Expired(now) {
		s.client.Del(ctx, key, meta)
		return nil, false, nil
	}

	hits, err := s.client.HIncrBy(ctx, meta, "hits", 1).Result()
	if err != nil {
		s.logger.Warn("Failed to record cache hit", map[string]interface{}{
			"cache_key": entry.CacheKey,
			"error":     err.Error(),
		})
		hits = entry.HitCount + 1
	}
	s.client.HSet(ctx, meta, "last", now.Unix())

	entry.HitCount = hits
	entry.LastAccessed = now
	return &entry, true, nil
}

// Set upserts the entry with the TTL class of its cache type and resets its
// hit accounting.
func (s *RedisStore) Set(ctx context.Context, cacheType string, params map[string]string, candidates []models.Candidate, total int, provErrs []models.ProviderError) error {
	ttl := s.cfg.TTLFor(cacheType)
	now := time.Now()
	entry := newEntry(cacheType, params, candidates, total, provErrs, ttl, now)

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	key := redisKey(cacheType, entry.CacheKey)
	meta := metaKeyFor(key)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, raw, ttl)
	pipe.Del(ctx, meta)
	pipe.HSet(ctx, meta, "hits", 0, "last", now.Unix())
	pipe.Expire(ctx, meta, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	s.logger.Debug("Cache set", map[string]interface{}{
		"cache_type": cacheType,
		"cache_key":  entry.CacheKey,
		"candidates": len(candidates),
		"ttl":        entry.TTLSeconds,
	})
	return nil
}

// Invalidate deletes entries matching the type and params subset.
func (s *RedisStore) Invalidate(ctx context.Context, cacheType string, params map[string]string) (int, error) {
	// With both type and exact params the key is fully determined.
	if cacheType != "" && len(params) > 0 {
		key := redisKey(cacheType, Key(cacheType, params))
		n, err := s.client.Del(ctx, key).Result()
		s.client.Del(ctx, metaKeyFor(key))
		return int(n), err
	}

	pattern := redisKeyPrefix + ":*"
	if cacheType != "" {
		pattern = fmt.Sprintf("%s:%s:*", redisKeyPrefix, cacheType)
	}

	deleted := 0
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		if len(params) > 0 {
			entry, err := s.fetch(ctx, key)
			if err != nil || entry == nil || !matchesParams(entry, params) {
				continue
			}
		}

		if n, err := s.client.Del(ctx, key).Result(); err == nil {
			deleted += int(n)
		}
		s.client.Del(ctx, metaKeyFor(key))
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache invalidate scan: %w", err)
	}

	s.logger.Info("Cache invalidated", map[string]interface{}{
		"cache_type": cacheType,
		"deleted":    deleted,
	})
	return deleted, nil
}

// ClearExpired removes entries whose embedded expiry has passed. The redis
// server normally expires keys itself, so this usually returns 0.
func (s *RedisStore) ClearExpired(ctx context.Context) (int, error) {
	now := time.Now()
	deleted := 0

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		entry, err := s.fetch(ctx, key)
		if err != nil || entry == nil {
			continue
		}
		if entry.Expired(now) {
			if n, err := s.client.Del(ctx, key).Result(); err == nil {
				deleted += int(n)
			}
			s.client.Del(ctx, metaKeyFor(key))
		}
	}
	return deleted, iter.Err()
}

// Stats walks the cache keyspace and aggregates hit accounting.
func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	now := time.Now()
	stats := &Stats{}
	perType := make(map[string]*TypeStats)
	ttlSums := make(map[string]float64)

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		entry, err := s.fetch(ctx, key)
		if err != nil || entry == nil {
			continue
		}

		hits := entry.HitCount
		if n, err := s.client.HGet(ctx, metaKeyFor(key), "hits").Int64(); err == nil {
			hits = n
		}

		stats.TotalEntries++
		if entry.Expired(now) {
			stats.ExpiredEntries++
		} else {
			stats.ActiveEntries++
		}
		stats.TotalHits += hits

		ts, ok := perType[entry.CacheType]
		if !ok {
			ts = &TypeStats{CacheType: entry.CacheType}
			perType[entry.CacheType] = ts
		}
		ts.Entries++
		ts.Hits += hits
		ttlSums[entry.CacheType] += float64(entry.TTLSeconds)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache stats scan: %w", err)
	}

	stats.PerType = collectTypeStats(perType, ttlSums)
	stats.HitRate = hitRate(stats.TotalHits, stats.TotalEntries)
	return stats, nil
}

// Ping tests the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) fetch(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
