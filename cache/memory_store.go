package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process Store. Values live in a size-bounded LRU; counters live in a
// separate map so that eviction never resets them.
type MemoryStore struct {
	entries *expirable.LRU[string, memoryEntry]

	mu       sync.Mutex
	counters map[string]int64

	now func() time.Time
}

// NewMemoryStore creates a store holding at most size values.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryStore{
		// Per-entry expiry is tracked in memoryEntry; the LRU itself never expires.
		entries:  expirable.NewLRU[string, memoryEntry](size, nil, 0),
		counters: make(map[string]int64),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	entry, ok := s.entries.Get(key)
	if !ok {
		return "", ErrMiss
	}
	if entry.expired(s.now()) {
		s.entries.Remove(key)
		return "", ErrMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries.Add(key, entry)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.entries.Remove(key)
		delete(s.counters, key)
	}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range s.entries.Keys() {
		if strings.HasPrefix(key, prefix) && s.entries.Remove(key) {
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[key]++
	return s.counters[key], nil
}

func (s *MemoryStore) GetInt(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	n, ok := s.counters[key]
	s.mu.Unlock()
	if ok {
		return n, nil
	}

	// Plain values written with Set can be read back as integers too, as in Redis.
	entry, found := s.entries.Get(key)
	if !found || entry.expired(s.now()) {
		return 0, nil
	}
	return strconv.ParseInt(entry.value, 10, 64)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	s.entries.Purge()
	return nil
}
