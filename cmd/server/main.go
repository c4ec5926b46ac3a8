package main // Entry point package

import (
    "context"
    "log" // Logging library

    "github.com/joho/godotenv" // Loads .env files into the environment
    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/bridge"
    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/config"
    "github.com/storelink/dashboard-gateway/internal/gate"
    "github.com/storelink/dashboard-gateway/internal/handler"
    "github.com/storelink/dashboard-gateway/internal/proxy"
    "github.com/storelink/dashboard-gateway/internal/router"
    "github.com/storelink/dashboard-gateway/internal/upstream"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the environment directly
    cfg := config.Load()

    // The upstream client, cache store and resources are built once here and
    // injected everywhere; the cache is process-wide by design but never a
    // package global.
    client := upstream.New(cfg.APIBaseURL)

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; cache runs in memory only")
    }
    store := cache.NewStore(cfg.CacheTTL, cache.NewRedisPersister(rdb, cfg.CacheKey))
    store.Hydrate(context.Background())

    resources := &cache.Resources{Store: store, Client: client}
    fwd := &proxy.Forwarder{Client: client}
    sessionGate := &gate.Gate{Client: client, LoginPath: cfg.LoginPath}

    // Real-time plumbing: hub fans events out to browsers, the bridge
    // serializes cache merges, and one consumer per configured transport
    // feeds it.
    hub := bridge.NewHub()
    go hub.Run()
    br := bridge.New(resources, hub)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    go br.Run(ctx)
    if cfg.PushURL != "" {
        go bridge.StartSocketConsumer(ctx, cfg.PushURL, br)
    }
    if cfg.AMQPURL != "" {
        go bridge.StartOrderConsumer(cfg.AMQPURL, br)
    }

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterPages(e, handler.Pages{}, sessionGate)
    router.RegisterAuth(e, handler.NewAuth(fwd, resources))
    router.RegisterResources(e,
        handler.NewResource("categories", "/api/categories", fwd, resources),
        handler.NewResource("menu-items", "/api/menu-items", fwd, resources),
        handler.NewResource("tables", "/api/tables", fwd, resources),
        handler.NewTableSettings(fwd, resources),
        handler.NewOrders(fwd, resources),
        handler.NewStats(resources),
    )
    router.RegisterEvents(e, hub, sessionGate)

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
