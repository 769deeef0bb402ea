package store

import (
	"time"

	"github.com/memocache/memocache/types"
)

/*
This file defines how entries are actually stored. This is deliberately a plain
map, not a concurrent one.

The store does NOT:
- check expiration (the engine asks the expiration strategy before trusting a hit)
- pick eviction victims (the engine asks the eviction policy)
- notify observers (the engine owns notification ordering)
- lock (the engine serializes every access; see engine.Engine)

Keeping the store dumb keeps every policy decision in one place, and keeps the
"is it there / is it stale / who gets evicted" sequence atomic under a single
lock instead of three clever data structures agreeing by luck.
*/

// Store maps derived keys to cache entries and knows its own capacity.
type Store struct {
	entries map[string]*types.CacheEntry
	maxSize int
}

func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*types.CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for key, if present. No expiration check happens here;
// a returned entry may well be stale.
func (s *Store) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.entries[key]
	return ent, ok
}

/*
Put inserts or replaces the entry for key.

The engine guarantees capacity was already made available, so Put never evicts.
Replacing a key starts a fresh entry: CreatedAt resets to now and the access
count goes back to zero, because the old value's history says nothing about the
new one.
*/
func (s *Store) Put(key string, value any, now time.Time) {
	s.entries[key] = &types.CacheEntry{
		Key:            key,
		Value:          value,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Remove deletes the entry for key and returns it so the engine can hand it to
// observers.
func (s *Store) Remove(key string) (*types.CacheEntry, bool) {
	ent, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	delete(s.entries, key)
	return ent, true
}

// Touch updates the hit bookkeeping for key: last access time and access count.
func (s *Store) Touch(key string, now time.Time) {
	if ent, ok := s.entries[key]; ok {
		ent.Touch(now)
	}
}

func (s *Store) Len() int { return len(s.entries) }

// IsFull reports whether inserting a NEW key would exceed capacity.
func (s *Store) IsFull() bool { return len(s.entries) >= s.maxSize }

func (s *Store) MaxSize() int { return s.maxSize }

// Entries returns a snapshot slice of every live entry, for victim scans and
// sweeps. Callers must treat the entries as read-only.
func (s *Store) Entries() []*types.CacheEntry {
	out := make([]*types.CacheEntry, 0, len(s.entries))
	for _, ent := range s.entries {
		out = append(out, ent)
	}
	return out
}

// Clear drops every entry at once.
func (s *Store) Clear() {
	s.entries = make(map[string]*types.CacheEntry)
}
