package bridge

import (
    "context"
    "log"
    "time"

    "github.com/gorilla/websocket"
)

// StartSocketConsumer dials the upstream push endpoint and feeds newOrder
// events into the bridge.  It runs a reconnect loop with exponential backoff
// and returns only when the context is cancelled.  Events missed while
// disconnected are not replayed; the orders list recovers them on its next
// staleness-triggered refetch.
func StartSocketConsumer(ctx context.Context, url string, b *Bridge) {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return
        }
        conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
        if err != nil {
            log.Printf("bridge: dial push endpoint failed: %v; retrying in %s", err, backoff)
            select {
            case <-ctx.Done():
                return
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := readLoop(ctx, conn, b); err != nil {
            log.Printf("bridge: push connection lost: %v; reconnecting", err)
        }
        _ = conn.Close()
    }
}

func readLoop(ctx context.Context, conn *websocket.Conn, b *Bridge) error {
    // Close the socket when the context ends so ReadJSON unblocks.
    done := make(chan struct{})
    defer close(done)
    go func() {
        select {
        case <-ctx.Done():
            _ = conn.Close()
        case <-done:
        }
    }()

    for {
        var env Envelope
        if err := conn.ReadJSON(&env); err != nil {
            return err
        }
        if env.Event != eventNewOrder {
            continue
        }
        b.Submit(env.Data)
    }
}
