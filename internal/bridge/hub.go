package bridge

import (
    "log"
    "net/http"
    "sync"

    "github.com/gorilla/websocket"
    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/model"
)

// Envelope is the frame exchanged on the push channel, both with the
// upstream and with browsers: the event name plus one order payload.
type Envelope struct {
    Event string      `json:"event"`
    Data  model.Order `json:"data"`
}

const eventNewOrder = "newOrder"

// Hub fans newOrder events out to every connected dashboard browser.  All
// bookkeeping runs through the register/unregister/broadcast channels in
// Run, so the client set is only touched from one goroutine.
type Hub struct {
    clients    map[*websocket.Conn]bool
    broadcast  chan model.Order
    register   chan *websocket.Conn
    unregister chan *websocket.Conn
    once       sync.Once
    done       chan struct{}
}

func NewHub() *Hub {
    return &Hub{
        clients:    make(map[*websocket.Conn]bool),
        broadcast:  make(chan model.Order, 16),
        register:   make(chan *websocket.Conn),
        unregister: make(chan *websocket.Conn),
        done:       make(chan struct{}),
    }
}

// Run services hub events until Close is called.
func (h *Hub) Run() {
    for {
        select {
        case <-h.done:
            for conn := range h.clients {
                _ = conn.Close()
            }
            return
        case conn := <-h.register:
            h.clients[conn] = true
        case conn := <-h.unregister:
            if h.clients[conn] {
                delete(h.clients, conn)
                _ = conn.Close()
            }
        case o := <-h.broadcast:
            env := Envelope{Event: eventNewOrder, Data: o}
            for conn := range h.clients {
                if err := conn.WriteJSON(env); err != nil {
                    log.Printf("hub: write failed, dropping client: %v", err)
                    delete(h.clients, conn)
                    _ = conn.Close()
                }
            }
        }
    }
}

// Broadcast queues one order for delivery to all connected browsers.
func (h *Hub) Broadcast(o model.Order) {
    select {
    case h.broadcast <- o:
    case <-h.done:
    }
}

// Close shuts the hub down and disconnects every client.
func (h *Hub) Close() {
    h.once.Do(func() { close(h.done) })
}

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    // The dashboard may be served from a different origin than the gateway.
    CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades a browser connection and keeps it registered until the
// peer goes away.  The read loop only exists to detect disconnection; the
// browser never sends application frames.
func (h *Hub) ServeWS(c echo.Context) error {
    conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
    if err != nil {
        return err
    }
    select {
    case h.register <- conn:
    case <-h.done:
        return conn.Close()
    }
    go func() {
        defer func() {
            select {
            case h.unregister <- conn:
            case <-h.done:
            }
        }()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()
    return nil
}
