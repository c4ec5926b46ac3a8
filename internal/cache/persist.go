package cache

import (
    "context"
    "errors"

    "github.com/redis/go-redis/v9"
)

// Persister stores and restores the serialized cache snapshot.  The format
// is a single JSON blob under a fixed key; it must round-trip every cached
// entity losslessly, which the raw-JSON entries guarantee by construction.
type Persister interface {
    Save(ctx context.Context, blob []byte) error
    Load(ctx context.Context) ([]byte, error)
}

// RedisPersister keeps the snapshot in Redis so it survives restarts.
type RedisPersister struct {
    rdb *redis.Client
    key string
}

// NewRedisPersister returns a persister bound to the given storage key, or
// nil when no Redis client is available so the store degrades to memory
// only.  The interface return keeps the nil usable in that comparison.
func NewRedisPersister(rdb *redis.Client, key string) Persister {
    if rdb == nil {
        return nil
    }
    return &RedisPersister{rdb: rdb, key: key}
}

func (p *RedisPersister) Save(ctx context.Context, blob []byte) error {
    return p.rdb.Set(ctx, p.key, blob, 0).Err()
}

func (p *RedisPersister) Load(ctx context.Context) ([]byte, error) {
    b, err := p.rdb.Get(ctx, p.key).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, nil
    }
    return b, err
}
