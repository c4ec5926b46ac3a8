// Package bridge carries server-pushed order events into the resource cache
// and out to connected dashboard browsers.  All cache mutation funnels
// through one goroutine fed by a channel, so pushed writes have the same
// atomicity as direct mutation calls regardless of which transport delivered
// the event.
package bridge

import (
    "context"
    "log"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/model"
)

// Bridge owns the serialized merge queue.  Producers (socket consumer, AMQP
// consumer, tests) call Submit; Run applies events one at a time.
type Bridge struct {
    resources *cache.Resources
    hub       *Hub
    events    chan model.Order
}

// New builds a Bridge.  hub may be nil when no browser fan-out is wanted.
func New(res *cache.Resources, hub *Hub) *Bridge {
    return &Bridge{
        resources: res,
        hub:       hub,
        events:    make(chan model.Order, 64),
    }
}

// Submit queues one pushed order for merging.  If the queue is full the
// event is dropped with a log line: there is no buffering guarantee, and a
// missed event is recovered by the orders list's next staleness-triggered
// refetch.
func (b *Bridge) Submit(o model.Order) {
    select {
    case b.events <- o:
    default:
        log.Printf("bridge: queue full, dropping order %s", o.ID)
    }
}

// Run applies queued events until the context is cancelled.  Each event is
// merged idempotently into the orders cache; only a first delivery is
// broadcast to browsers, so duplicates from the transport stay invisible.
func (b *Bridge) Run(ctx context.Context) {
    for {
        select {
        case <-ctx.Done():
            return
        case o := <-b.events:
            if !b.resources.MergeNewOrder(o) {
                continue
            }
            if b.hub != nil {
                b.hub.Broadcast(o)
            }
        }
    }
}
