package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store. It tracks request
// timestamps per key, caps the number of keys and evicts the least recently
// used ones when the cap is reached, so a scan across many client IPs
// cannot grow memory without bound.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string]*memoryEntry
	order    *list.List // front = most recently used
	maxKeys  int
}

type memoryEntry struct {
	timestamps []time.Time
	elem       *list.Element // position in order, value is the key
}

// DefaultMaxKeys bounds the store when no explicit cap is configured.
const DefaultMaxKeys = 10000

// NewMemoryStore creates a MemoryStore capped at maxKeys keys.
func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &MemoryStore{
		requests: make(map[string]*memoryEntry),
		order:    list.New(),
		maxKeys:  maxKeys,
	}
}

// CheckAndAdd implements Store. The count and the append happen under one
// lock acquisition.
func (s *MemoryStore) CheckAndAdd(ctx context.Context, key string, now, cutoff time.Time, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.requests[key]
	current := 0
	if exists {
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				current++
			}
		}
	}

	if current >= limit {
		return false, current, nil
	}

	if !exists {
		if len(s.requests) >= s.maxKeys {
			s.evictLRU()
		}
		entry = &memoryEntry{timestamps: make([]time.Time, 0, 16)}
		entry.elem = s.order.PushFront(key)
		s.requests[key] = entry
	} else {
		s.order.MoveToFront(entry.elem)
	}
	entry.timestamps = append(entry.timestamps, now)

	return true, current + 1, nil
}

// Cleanup drops timestamps at or before cutoff and removes emptied keys.
func (s *MemoryStore) Cleanup(ctx context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.requests {
		kept := entry.timestamps[:0]
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			s.order.Remove(entry.elem)
			delete(s.requests, key)
			continue
		}
		entry.timestamps = kept
	}
	return nil
}

// KeyCount implements Store.
func (s *MemoryStore) KeyCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests), nil
}

// evictLRU removes a tenth of the keys, oldest access first. Evicting in
// batches keeps a full store from evicting on every new key. Caller holds
// the lock.
func (s *MemoryStore) evictLRU() {
	evict := s.maxKeys / 10
	if evict < 1 {
		evict = 1
	}
	for i := 0; i < evict; i++ {
		back := s.order.Back()
		if back == nil {
			return
		}
		key := back.Value.(string)
		s.order.Remove(back)
		delete(s.requests, key)
	}
}
