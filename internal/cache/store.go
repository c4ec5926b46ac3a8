// Package cache holds the process-wide resource cache.  Every view of the
// dashboard reads through it; mutations and pushed events write into it.
// The store is constructed once in main and injected, never reached through
// a package global.  Entries are raw JSON exactly as fetched from the
// upstream, so cached responses round-trip losslessly.
package cache

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"
)

// FetchFunc loads one cache entry from the upstream.  It must return the
// response body only on success; non-2xx statuses travel back as a
// *upstream.StatusError so handlers can relay them.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Entry is one cached value with the timestamp of its last successful fetch.
type Entry struct {
    Data      json.RawMessage `json:"data"`
    FetchedAt time.Time       `json:"fetchedAt"`
}

// Store is a keyed cache of JSON entries with a fixed staleness window.
// Within the window hits are served without a network call; past it, stale
// data is still returned immediately while one background refetch per key is
// kicked off (stale-while-revalidate).  Racing writes are last-write-wins,
// which is acceptable because list invalidation always forces an
// authoritative refetch afterwards.
type Store struct {
    ttl       time.Duration
    persister Persister
    now       func() time.Time

    mu       sync.Mutex
    entries  map[string]Entry
    inflight map[string]bool
}

// NewStore builds a Store with the given staleness window.  persister may be
// nil, in which case the cache lives in memory only.
func NewStore(ttl time.Duration, p Persister) *Store {
    return &Store{
        ttl:       ttl,
        persister: p,
        now:       time.Now,
        entries:   make(map[string]Entry),
        inflight:  make(map[string]bool),
    }
}

// Hydrate loads the persisted snapshot, if any.  Called once at startup so a
// restart serves previously-fetched data immediately; the entries keep their
// original FetchedAt stamps and therefore their original staleness.
func (s *Store) Hydrate(ctx context.Context) {
    if s.persister == nil {
        return
    }
    blob, err := s.persister.Load(ctx)
    if err != nil {
        log.Printf("cache: hydrate failed: %v", err)
        return
    }
    if len(blob) == 0 {
        return
    }
    entries := make(map[string]Entry)
    if err := json.Unmarshal(blob, &entries); err != nil {
        log.Printf("cache: discarding unreadable snapshot: %v", err)
        return
    }
    s.mu.Lock()
    s.entries = entries
    s.mu.Unlock()
}

// Fetch returns the entry for key, fetching it when absent.  A fresh hit
// never touches the network.  A stale hit is returned immediately and a
// single background revalidation is started for the key.
func (s *Store) Fetch(ctx context.Context, key string, fetch FetchFunc) (json.RawMessage, error) {
    s.mu.Lock()
    if e, ok := s.entries[key]; ok {
        if s.now().Sub(e.FetchedAt) < s.ttl {
            s.mu.Unlock()
            return e.Data, nil
        }
        if !s.inflight[key] {
            s.inflight[key] = true
            go s.revalidate(key, fetch)
        }
        s.mu.Unlock()
        return e.Data, nil
    }
    s.mu.Unlock()

    data, err := fetch(ctx)
    if err != nil {
        return nil, err
    }
    s.Put(key, data)
    return data, nil
}

// revalidate runs one background refetch for a stale key.  Errors only log:
// the consumer already got the stale copy, and the next access will try
// again.
func (s *Store) revalidate(key string, fetch FetchFunc) {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    data, err := fetch(ctx)

    s.mu.Lock()
    delete(s.inflight, key)
    s.mu.Unlock()

    if err != nil {
        log.Printf("cache: revalidate %q failed: %v", key, err)
        return
    }
    s.Put(key, data)
}

// Peek returns the cached entry without freshness checks or fetching.
func (s *Store) Peek(key string) (json.RawMessage, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.entries[key]
    return e.Data, ok
}

// Put writes an entry stamped with the current time and persists the store.
func (s *Store) Put(key string, data json.RawMessage) {
    s.mu.Lock()
    s.entries[key] = Entry{Data: data, FetchedAt: s.now()}
    s.mu.Unlock()
    s.persist()
}

// Invalidate removes entries so the next access issues a fresh fetch.
func (s *Store) Invalidate(keys ...string) {
    s.mu.Lock()
    for _, k := range keys {
        delete(s.entries, k)
    }
    s.mu.Unlock()
    s.persist()
}

// InvalidatePrefix removes every entry whose key starts with prefix.  Used
// for the per-date dashboard-stats family.
func (s *Store) InvalidatePrefix(prefix string) {
    s.mu.Lock()
    for k := range s.entries {
        if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
            delete(s.entries, k)
        }
    }
    s.mu.Unlock()
    s.persist()
}

// persist snapshots the whole store to durable storage.  Runs on every
// change; failures only log because the in-memory copy stays authoritative
// for this process.
func (s *Store) persist() {
    if s.persister == nil {
        return
    }
    s.mu.Lock()
    blob, err := json.Marshal(s.entries)
    s.mu.Unlock()
    if err != nil {
        log.Printf("cache: snapshot marshal failed: %v", err)
        return
    }
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := s.persister.Save(ctx, blob); err != nil {
        log.Printf("cache: snapshot save failed: %v", err)
    }
}
