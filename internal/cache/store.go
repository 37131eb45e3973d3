package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"careerlens/pkg/models"
)

// Entry is one cached aggregation result. The candidate list is always the
// full ranked list for the query signature, never a single page, so every
// page request for the same filters reuses one entry.
type Entry struct {
	CacheKey     string                 `json:"cache_key"`
	CacheType    string                 `json:"cache_type"`
	Params       map[string]string      `json:"params,omitempty"`
	Candidates   []models.Candidate     `json:"candidates"`
	Total        int                    `json:"total"`
	CreatedAt    time.Time              `json:"created_at"`
	ExpiresAt    time.Time              `json:"expires_at"`
	TTLSeconds   int                    `json:"ttl_seconds"`
	HitCount     int64                  `json:"hit_count"`
	LastAccessed time.Time              `json:"last_accessed"`
	Errors       []models.ProviderError `json:"errors,omitempty"`
}

// Expired reports whether the entry is past its expiry at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TypeStats is the per-cache-type slice of the overall statistics.
type TypeStats struct {
	CacheType string  `json:"cache_type"`
	Entries   int     `json:"entries"`
	Hits      int64   `json:"hits"`
	AvgTTL    float64 `json:"avg_ttl_seconds"`
}

// Stats is a snapshot of cache health.
type Stats struct {
	TotalEntries   int         `json:"total_entries"`
	ActiveEntries  int         `json:"active_entries"`
	ExpiredEntries int         `json:"expired_entries"`
	TotalHits      int64       `json:"total_hits"`
	HitRate        float64     `json:"hit_rate"`
	PerType        []TypeStats `json:"per_type"`
}

// Store is the cache contract shared by the redis and in-memory backends.
// Implementations must be safe for concurrent use; one cache key maps to at
// most one entry at a time (atomic upsert-by-key). An expired entry is never
// returned — a read of one counts as a miss.
type Store interface {
	// Get returns the entry for (cacheType, params) and records the hit.
	Get(ctx context.Context, cacheType string, params map[string]string) (*Entry, bool, error)

	// Set upserts the full ranked candidate list under the derived key,
	// with the TTL class attached to cacheType.
	Set(ctx context.Context, cacheType string, params map[string]string, candidates []models.Candidate, total int, provErrs []models.ProviderError) error

	// Invalidate deletes entries matching cacheType (all types when empty)
	// and the given params subset (any params when nil). Returns the number
	// of entries removed.
	Invalidate(ctx context.Context, cacheType string, params map[string]string) (int, error)

	// ClearExpired removes entries past their expiry and returns the count.
	ClearExpired(ctx context.Context) (int, error)

	// Stats returns a snapshot of entry counts and hit accounting.
	Stats(ctx context.Context) (*Stats, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Key derives the deterministic cache key for a cache type and its query
// parameters. Parameter keys are sorted and empty values dropped, so
// semantically identical queries hash identically regardless of argument
// order.
func Key(cacheType string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("type=")
	b.WriteString(cacheType)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// newEntry assembles an Entry for Set implementations.
func newEntry(cacheType string, params map[string]string, candidates []models.Candidate, total int, provErrs []models.ProviderError, ttl time.Duration, now time.Time) *Entry {
	return &Entry{
		CacheKey:     Key(cacheType, params),
		CacheType:    cacheType,
		Params:       params,
		Candidates:   candidates,
		Total:        total,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		TTLSeconds:   int(ttl / time.Second),
		HitCount:     0,
		LastAccessed: now,
		Errors:       provErrs,
	}
}

// matchesParams reports whether the entry's recorded params contain every
// key/value pair in want.
func matchesParams(entry *Entry, want map[string]string) bool {
	for k, v := range want {
		if entry.Params[k] != v {
			return false
		}
	}
	return true
}

// collectTypeStats orders the per-type breakdown deterministically by type name.
func collectTypeStats(perType map[string]*TypeStats, ttlSums map[string]float64) []TypeStats {
	names := make([]string, 0, len(perType))
	for name := range perType {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]TypeStats, 0, len(names))
	for _, name := range names {
		ts := *perType[name]
		if ts.Entries > 0 {
			ts.AvgTTL = ttlSums[name] / float64(ts.Entries)
		}
		out = append(out, ts)
	}
	return out
}

// hitRate approximates hits per lookup: hits / (hits + entries), where each
// entry stands for the one miss that created it.
func hitRate(hits int64, entries int) float64 {
	total := hits + int64(entries)
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
