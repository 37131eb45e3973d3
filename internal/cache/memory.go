package cache

import (
	"context"
	"sync"
	"time"

	"careerlens/internal/config"
	"careerlens/internal/logging"
	"careerlens/pkg/models"
)

// MemoryStore is an in-process Store. It is the reference implementation
// used in tests and the fallback when no redis backend is configured.
// Expiry is enforced lazily on reads and by a periodic sweep.
type MemoryStore struct {
	cfg     *config.Config
	logger  logging.Logger
	mu      sync.RWMutex
	entries map[string]*Entry

	sweepTicker *time.Ticker
	stopSweep   chan struct{}
	stopOnce    sync.Once
}

// NewMemoryStore creates a memory store and starts its sweep loop.
func NewMemoryStore(cfg *config.Config) *MemoryStore {
	s := &MemoryStore{
		cfg:       cfg,
		logger:    logging.GetGlobalLogger().WithField("component", "memory_cache"),
		entries:   make(map[string]*Entry),
		stopSweep: make(chan struct{}),
	}

	interval := cfg.Cache.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	s.sweepTicker = time.NewTicker(interval)
	go s.sweepLoop()

	return s
}

func (s *MemoryStore) sweepLoop() {
	for {
		select {
		case <-s.sweepTicker.C:
			if n, _ := s.ClearExpired(context.Background()); n > 0 {
				s.logger.Debug("Swept expired cache entries", map[string]interface{}{
					"deleted": n,
				})
			}
		case <-s.stopSweep:
			return
		}
	}
}

// Get returns the entry for (cacheType, params), treating an expired entry
// as a miss and deleting it.
func (s *MemoryStore) Get(_ context.Context, cacheType string, params map[string]string) (*Entry, bool, error) {
	key := Key(cacheType, params)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.Expired(now) {
		delete(s.entries, key)
		return nil, false, nil
	}

	entry.HitCount++
	entry.LastAccessed = now

	// Copy so callers cannot mutate the stored entry.
	out := *entry
	return &out, true, nil
}

// Set upserts the entry under its derived key.
func (s *MemoryStore) Set(_ context.Context, cacheType string, params map[string]string, candidates []models.Candidate, total int, provErrs []models.ProviderError) error {
	entry := newEntry(cacheType, params, candidates, total, provErrs, s.cfg.TTLFor(cacheType), time.Now())

	s.mu.Lock()
	s.entries[entry.CacheKey] = entry
	s.mu.Unlock()

	s.logger.Debug("Cache set", map[string]interface{}{
		"cache_type": cacheType,
		"cache_key":  entry.CacheKey,
		"candidates": len(candidates),
		"ttl":        entry.TTLSeconds,
	})
	return nil
}

// Invalidate deletes entries matching the type and params subset.
func (s *MemoryStore) Invalidate(_ context.Context, cacheType string, params map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, entry := range s.entries {
		if cacheType != "" && entry.CacheType != cacheType {
			continue
		}
		if len(params) > 0 && !matchesParams(entry, params) {
			continue
		}
		delete(s.entries, key)
		deleted++
	}
	return deleted, nil
}

// ClearExpired removes every entry past its expiry.
func (s *MemoryStore) ClearExpired(_ context.Context) (int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Stats returns a snapshot of entry counts and hit accounting.
func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{TotalEntries: len(s.entries)}
	perType := make(map[string]*TypeStats)
	ttlSums := make(map[string]float64)

	for _, entry := range s.entries {
		if entry.Expired(now) {
			stats.ExpiredEntries++
		} else {
			stats.ActiveEntries++
		}
		stats.TotalHits += entry.HitCount

		ts, ok := perType[entry.CacheType]
		if !ok {
			ts = &TypeStats{CacheType: entry.CacheType}
			perType[entry.CacheType] = ts
		}
		ts.Entries++
		ts.Hits += entry.HitCount
		ttlSums[entry.CacheType] += float64(entry.TTLSeconds)
	}

	stats.PerType = collectTypeStats(perType, ttlSums)
	stats.HitRate = hitRate(stats.TotalHits, stats.TotalEntries)
	return stats, nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close stops the sweep loop.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		s.sweepTicker.Stop()
		close(s.stopSweep)
	})
	return nil
}
