package cache

import (
    "context"
    "encoding/json"
    "errors"
    "sync"
    "testing"
    "time"
)

// memPersister is an in-memory Persister used to exercise the snapshot
// round-trip without a Redis server.
type memPersister struct {
    mu   sync.Mutex
    blob []byte
}

func (p *memPersister) Save(_ context.Context, blob []byte) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.blob = append([]byte(nil), blob...)
    return nil
}

func (p *memPersister) Load(_ context.Context) ([]byte, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.blob, nil
}

func fixed(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestFreshHitSkipsNetwork(t *testing.T) {
    s := NewStore(5*time.Minute, nil)
    calls := 0
    fetch := func(context.Context) (json.RawMessage, error) {
        calls++
        return json.RawMessage(`[1]`), nil
    }

    for i := 0; i < 3; i++ {
        got, err := s.Fetch(context.Background(), "categories:list", fetch)
        if err != nil {
            t.Fatalf("Fetch: %v", err)
        }
        if string(got) != "[1]" {
            t.Fatalf("got %s", got)
        }
    }
    if calls != 1 {
        t.Fatalf("fetch calls = %d, repeat access within the window must be served from cache", calls)
    }
}

func TestStaleServedWhileRevalidating(t *testing.T) {
    s := NewStore(5*time.Minute, nil)
    base := time.Now()
    s.now = fixed(base)
    s.Put("orders:list", json.RawMessage(`["old"]`))

    fetched := make(chan struct{})
    fetch := func(context.Context) (json.RawMessage, error) {
        defer close(fetched)
        return json.RawMessage(`["new"]`), nil
    }

    // Past the window the stale entry is still returned immediately.
    s.now = fixed(base.Add(6 * time.Minute))
    got, err := s.Fetch(context.Background(), "orders:list", fetch)
    if err != nil {
        t.Fatalf("Fetch: %v", err)
    }
    if string(got) != `["old"]` {
        t.Fatalf("got %s, stale data must be served immediately", got)
    }

    select {
    case <-fetched:
    case <-time.After(time.Second):
        t.Fatal("background revalidation never ran")
    }
    // The refreshed value lands in the cache for the next access.
    deadline := time.Now().Add(time.Second)
    for {
        if raw, ok := s.Peek("orders:list"); ok && string(raw) == `["new"]` {
            break
        }
        if time.Now().After(deadline) {
            t.Fatal("revalidated value never stored")
        }
        time.Sleep(5 * time.Millisecond)
    }
}

func TestInvalidateForcesRefetch(t *testing.T) {
    s := NewStore(5*time.Minute, nil)
    calls := 0
    fetch := func(context.Context) (json.RawMessage, error) {
        calls++
        return json.RawMessage(`[]`), nil
    }

    if _, err := s.Fetch(context.Background(), "tables:list", fetch); err != nil {
        t.Fatalf("Fetch: %v", err)
    }
    s.Invalidate("tables:list")
    if _, err := s.Fetch(context.Background(), "tables:list", fetch); err != nil {
        t.Fatalf("Fetch: %v", err)
    }
    if calls != 2 {
        t.Fatalf("fetch calls = %d, invalidation must force a fresh fetch", calls)
    }
}

func TestFetchErrorPropagates(t *testing.T) {
    s := NewStore(5*time.Minute, nil)
    boom := errors.New("boom")
    _, err := s.Fetch(context.Background(), "k", func(context.Context) (json.RawMessage, error) {
        return nil, boom
    })
    if !errors.Is(err, boom) {
        t.Fatalf("err = %v, want fetch error", err)
    }
    if _, ok := s.Peek("k"); ok {
        t.Fatal("failed fetches must not be cached")
    }
}

func TestSnapshotRoundTrip(t *testing.T) {
    p := &memPersister{}
    s := NewStore(5*time.Minute, p)
    s.Put("categories:list", json.RawMessage(`[{"_id":"c1","name":"Mains"}]`))
    s.Put("categories:detail:c1", json.RawMessage(`{"_id":"c1","name":"Mains"}`))

    // A new store (fresh process) rehydrates the same entries.
    s2 := NewStore(5*time.Minute, p)
    s2.Hydrate(context.Background())
    raw, ok := s2.Peek("categories:list")
    if !ok || string(raw) != `[{"_id":"c1","name":"Mains"}]` {
        t.Fatalf("rehydrated list = %s, ok=%v", raw, ok)
    }
    if _, ok := s2.Peek("categories:detail:c1"); !ok {
        t.Fatal("rehydrated detail missing")
    }
}

func TestInvalidatePrefix(t *testing.T) {
    s := NewStore(5*time.Minute, nil)
    s.Put("dashboard:stats", json.RawMessage(`{}`))
    s.Put("dashboard:stats:2026-09-01", json.RawMessage(`{}`))
    s.Put("orders:list", json.RawMessage(`[]`))

    s.InvalidatePrefix("dashboard:stats")
    if _, ok := s.Peek("dashboard:stats"); ok {
        t.Fatal("all-time stats survived prefix invalidation")
    }
    if _, ok := s.Peek("dashboard:stats:2026-09-01"); ok {
        t.Fatal("dated stats survived prefix invalidation")
    }
    if _, ok := s.Peek("orders:list"); !ok {
        t.Fatal("unrelated key was dropped")
    }
}
