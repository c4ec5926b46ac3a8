package cache

import (
    "context"
    "encoding/json"
    "hash/fnv"
    "log"
    "net/http"
    "strconv"

    "github.com/storelink/dashboard-gateway/internal/model"
    "github.com/storelink/dashboard-gateway/internal/upstream"
)

// Cache key layout.  List and detail slots follow the entity name; the
// dashboard-stats family shares a prefix so a new order can drop every date
// window at once.
const statsPrefix = "dashboard:stats"

// Verified user profiles share a prefix so logout can drop every session's
// slot at once.
const userPrefix = "auth:user"

// UserKey returns the cache key for one session's verified profile.  The key
// is derived from the presented Cookie header so a cached profile can never
// answer for a different session.
func UserKey(cookie string) string {
    h := fnv.New64a()
    _, _ = h.Write([]byte(cookie))
    return userPrefix + ":" + strconv.FormatUint(h.Sum64(), 16)
}

func ListKey(entity string) string { return entity + ":list" }

func DetailKey(entity, id string) string { return entity + ":detail:" + id }

// StatsKey returns the cache key for a stats window; an empty date means
// the all-time window.
func StatsKey(date string) string {
    if date == "" {
        return statsPrefix
    }
    return statsPrefix + ":" + date
}

// Resources wraps the store with the per-entity read and invalidation rules
// of the dashboard.  Reads go through the staleness window; successful
// writes (performed by the proxy layer) are reported back here so the
// affected slots are rewritten or dropped.
type Resources struct {
    Store  *Store
    Client *upstream.Client
}

// fetch builds the FetchFunc for one upstream GET.  Only 2xx responses are
// cached; anything else comes back as a StatusError for the handler to
// relay.
func (r *Resources) fetch(path, cookie string) FetchFunc {
    return func(ctx context.Context) (json.RawMessage, error) {
        resp, err := r.Client.Do(ctx, http.MethodGet, path, nil, "", cookie)
        if err != nil {
            return nil, err
        }
        if !resp.OK() {
            return nil, &upstream.StatusError{Status: resp.Status, Body: resp.Body}
        }
        return resp.Body, nil
    }
}

// List serves the fetch-all query for an entity.
func (r *Resources) List(ctx context.Context, entity, path, cookie string) (json.RawMessage, error) {
    return r.Store.Fetch(ctx, ListKey(entity), r.fetch(path, cookie))
}

// Detail serves the fetch-by-id query for an entity.
func (r *Resources) Detail(ctx context.Context, entity, id, path, cookie string) (json.RawMessage, error) {
    return r.Store.Fetch(ctx, DetailKey(entity, id), r.fetch(path, cookie))
}

// ApplyCreate records a successful create: the list is invalidated so the
// next access refetches authoritatively.
func (r *Resources) ApplyCreate(entity string) {
    r.Store.Invalidate(ListKey(entity))
}

// ApplyUpdate records a successful update: the returned entity is written
// straight into the detail slot (no refetch needed) and the list is
// invalidated.
func (r *Resources) ApplyUpdate(entity, id string, body json.RawMessage) {
    r.Store.Put(DetailKey(entity, id), body)
    r.Store.Invalidate(ListKey(entity))
}

// ApplyDelete records a successful delete: the detail slot is removed and
// the list invalidated.
func (r *Resources) ApplyDelete(entity, id string) {
    r.Store.Invalidate(DetailKey(entity, id), ListKey(entity))
}

// User serves the verified profile for one session, cached with the same
// staleness window as any other resource but keyed by the presented cookie.
// A request with no cookie never touches the cache or the remembered
// background cookie: it gets the upstream's own verdict on exactly what was
// presented.
func (r *Resources) User(ctx context.Context, path, cookie string) (json.RawMessage, error) {
    if cookie == "" {
        resp, err := r.Client.Verify(ctx, cookie)
        if err != nil {
            return nil, err
        }
        if !resp.OK() {
            return nil, &upstream.StatusError{Status: resp.Status, Body: resp.Body}
        }
        return resp.Body, nil
    }
    return r.Store.Fetch(ctx, UserKey(cookie), r.fetch(path, cookie))
}

// DropUser clears every session's cached profile on logout.
func (r *Resources) DropUser() {
    r.Store.InvalidatePrefix(userPrefix)
}

// MergeNewOrder inserts a pushed order at the head of the cached orders
// list, but only if no entry with the same id is present.  Duplicate or
// out-of-order delivery from the transport is tolerated by this
// insert-if-absent rule.  The stats family is dropped so it is recomputed
// from the updated order set on next read.  Reports whether the order was
// actually inserted.
func (r *Resources) MergeNewOrder(o model.Order) bool {
    key := ListKey("orders")
    var orders []model.Order
    if raw, ok := r.Store.Peek(key); ok {
        if err := json.Unmarshal(raw, &orders); err != nil {
            log.Printf("cache: orders list unreadable, rebuilding from event: %v", err)
            orders = nil
        }
    }
    for _, existing := range orders {
        if existing.ID == o.ID {
            return false
        }
    }
    merged, err := json.Marshal(append([]model.Order{o}, orders...))
    if err != nil {
        log.Printf("cache: merge order %s failed: %v", o.ID, err)
        return false
    }
    r.Store.Put(key, merged)
    r.Store.InvalidatePrefix(statsPrefix)
    return true
}

// ApplyOrderStatus rewrites the cached orders list in place after a status
// update, keeping the live-orders view consistent without a refetch, and
// drops the stats family since revenue buckets may have moved.
func (r *Resources) ApplyOrderStatus(id, status string) {
    key := ListKey("orders")
    raw, ok := r.Store.Peek(key)
    if ok {
        var orders []model.Order
        if err := json.Unmarshal(raw, &orders); err == nil {
            for i := range orders {
                if orders[i].ID == id {
                    orders[i].Status = status
                }
            }
            if merged, err := json.Marshal(orders); err == nil {
                r.Store.Put(key, merged)
            }
        }
    }
    r.Store.InvalidatePrefix(statsPrefix)
}

// Stats serves the derived dashboard aggregate for a date window.  The
// computation reads the orders list through its own cache, so a fresh orders
// entry costs no network call.
func (r *Resources) Stats(ctx context.Context, date, ordersPath, cookie string) (json.RawMessage, error) {
    return r.Store.Fetch(ctx, StatsKey(date), func(ctx context.Context) (json.RawMessage, error) {
        raw, err := r.List(ctx, "orders", ordersPath, cookie)
        if err != nil {
            return nil, err
        }
        var orders []model.Order
        if err := json.Unmarshal(raw, &orders); err != nil {
            return nil, err
        }
        return json.Marshal(model.ComputeStats(orders, date))
    })
}
