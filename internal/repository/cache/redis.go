package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// Cache key prefixes
	KeyPrefixSnippets = "serp:"

	// Default TTL for cached items
	DefaultTTL = 1 * time.Hour

	// Queries are truncated to this many characters when building keys
	maxQueryKeyLength = 64

	// DefaultMaxLocalEntries bounds the in-memory fallback
	DefaultMaxLocalEntries = 1024
)

type localEntry struct {
	snippets  []string
	expiresAt time.Time
}

// Repository caches competitor snippets per (query, key fingerprint).
// Without a Redis client it keeps up to DefaultMaxLocalEntries entries in
// process memory, dropping expired and then soonest-expiring ones when full.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	local      map[string]localEntry
	maxEntries int
}

// NewRepository creates a snippet cache. client may be nil.
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{
		client:     client,
		ttl:        ttl,
		now:        time.Now,
		local:      make(map[string]localEntry),
		maxEntries: DefaultMaxLocalEntries,
	}
}

// SnippetKey builds the cache key for a search query made with apiKey.
// The key itself is never stored, only a short SHA-256 fingerprint of it.
func SnippetKey(query, apiKey string) string {
	runes := []rune(query)
	if len(runes) > maxQueryKeyLength {
		runes = runes[:maxQueryKeyLength]
	}
	return KeyPrefixSnippets + string(runes) + ":" + Fingerprint(apiKey)
}

// Fingerprint returns a short, non-reversible identifier for an API key
func Fingerprint(apiKey string) string {
	if apiKey == "" {
		return "default"
	}
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

// GetSnippets retrieves snippets from the cache. The boolean is false on a miss.
func (r *Repository) GetSnippets(ctx context.Context, key string) ([]string, bool, error) {
	if r.client == nil {
		return r.getLocal(key)
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Cache miss, not an error
		}
		return nil, false, err
	}

	var snippets []string
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snippets: %w", err)
	}

	return snippets, true, nil
}

// CacheSnippets stores snippets under key for the repository TTL
func (r *Repository) CacheSnippets(ctx context.Context, key string, snippets []string) error {
	if snippets == nil {
		snippets = []string{}
	}

	if r.client == nil {
		r.setLocal(key, snippets)
		return nil
	}

	data, err := json.Marshal(snippets)
	if err != nil {
		return fmt.Errorf("failed to marshal snippets: %w", err)
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// InvalidateSnippets removes a cached entry
func (r *Repository) InvalidateSnippets(ctx context.Context, key string) error {
	if r.client == nil {
		r.mu.Lock()
		delete(r.local, key)
		r.mu.Unlock()
		return nil
	}

	return r.client.Del(ctx, key).Err()
}

func (r *Repository) getLocal(key string) ([]string, bool, error) {
	r.mu.RLock()
	entry, ok := r.local[key]
	r.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if r.now().After(entry.expiresAt) {
		r.mu.Lock()
		delete(r.local, key)
		r.mu.Unlock()
		return nil, false, nil
	}

	snippets := make([]string, len(entry.snippets))
	copy(snippets, entry.snippets)
	return snippets, true, nil
}

func (r *Repository) setLocal(key string, snippets []string) {
	stored := make([]string, len(snippets))
	copy(stored, snippets)
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.local[key]; !exists && len(r.local) >= r.maxEntries {
		r.sweepLocked(now)
		if len(r.local) >= r.maxEntries {
			r.evictOldestLocked()
		}
	}
	r.local[key] = localEntry{snippets: stored, expiresAt: now.Add(r.ttl)}
}

// sweepLocked drops expired entries. r.mu must be held.
func (r *Repository) sweepLocked(now time.Time) {
	for k, entry := range r.local {
		if now.After(entry.expiresAt) {
			delete(r.local, k)
		}
	}
}

// evictOldestLocked drops the entry closest to expiry. r.mu must be held.
func (r *Repository) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, entry := range r.local {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = k, entry.expiresAt
		}
	}
	delete(r.local, oldestKey)
}
