package bridge

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/storelink/dashboard-gateway/internal/model"
)

const orderQueueName = "orders.created"

// StartOrderConsumer connects to RabbitMQ, declares the orders.created queue
// (durable), and feeds each published order into the bridge.  Some upstream
// deployments publish order events to a broker instead of the push socket;
// both ingresses end in the same idempotent merge, so running both at once
// is harmless.  The function runs a reconnect loop and keeps running across
// broker restarts, rejecting unreadable messages so the gateway continues
// operating.
func StartOrderConsumer(url string, b *Bridge) {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("order-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, b); err != nil {
            log.Printf("order-consumer: consume loop ended: %v; reconnecting", err)
            _ = conn.Close()
            time.Sleep(2 * time.Second)
            continue
        }
        _ = conn.Close()
    }
}

func consumeLoop(conn *amqp.Connection, b *Bridge) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("order-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(orderQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(orderQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        var o model.Order
        if err := json.Unmarshal(d.Body, &o); err != nil {
            log.Printf("order-consumer: unreadable message: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        b.Submit(o)
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}
