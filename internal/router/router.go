package router // package router defines how HTTP routes are registered for the gateway

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/storelink/dashboard-gateway/internal/bridge"  // import the event bridge for the browser socket endpoint
    "github.com/storelink/dashboard-gateway/internal/gate"    // import the session gate applied to page navigations
    "github.com/storelink/dashboard-gateway/internal/handler" // import the handlers that implement the proxy and cache logic
)

// RegisterRoutes registers routes that do not require a session on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterPages registers the navigation entry points.  The login page is
// always reachable; every dashboard page is wrapped by the session gate,
// which redirects to login when the cookie is missing or fails
// verification.  The gate runs once per navigation, before the handler.
func RegisterPages(e *echo.Echo, p handler.Pages, g *gate.Gate) {
    e.GET("/login", p.Login)

    // All dashboard pages share the gate middleware.  Each of these routes
    // corresponds to one view of the admin UI.
    d := e.Group("/dashboard", g.Middleware())
    d.GET("", p.Dashboard)
    d.GET("/categories", p.Dashboard)
    d.GET("/menu", p.Dashboard)
    d.GET("/tables", p.Dashboard)
    d.GET("/live-orders", p.Dashboard)
}

// RegisterAuth registers the proxied identity endpoints under /api/auth.
// These carry cookies in both directions; the login route's error message is
// genericized by the proxy layer.
func RegisterAuth(e *echo.Echo, a *handler.Auth) {
    g := e.Group("/api/auth")
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)
    g.GET("/verify", a.Verify)
}

// RegisterResources registers the cached entity families and the order and
// stats endpoints under /api.  Reads are cache-backed; writes proxy upstream
// and apply the invalidation rules.
func RegisterResources(e *echo.Echo, categories, menuItems, tables *handler.Resource,
    settings *handler.TableSettings, orders *handler.Orders, stats *handler.Stats) {
    api := e.Group("/api")

    for _, r := range []*handler.Resource{categories, menuItems, tables} {
        g := api.Group("/" + r.Entity)
        g.GET("", r.List)
        g.POST("", r.Create)
        g.GET("/:id", r.Detail)
        g.PUT("/:id", r.Update)
        g.DELETE("/:id", r.Delete)
    }

    ts := api.Group("/table-settings")
    ts.GET("", settings.List)
    ts.POST("", settings.Create)
    ts.GET("/:storeId", settings.ByStore)
    ts.GET("/:storeId/sections", settings.Sections)
    ts.POST("/:storeId/sections", settings.AddSections)

    o := api.Group("/orders")
    o.GET("", orders.List)
    o.GET("/:id", orders.Detail)
    o.PUT("/:id/status", orders.UpdateStatus)

    api.GET("/dashboard/stats", stats.Get)
}

// RegisterEvents exposes the browser-facing push channel.  Connections are
// gated like page navigations: a browser without a valid session cannot
// subscribe to order events.
func RegisterEvents(e *echo.Echo, h *bridge.Hub, g *gate.Gate) {
    e.GET("/ws", h.ServeWS, g.Middleware())
}
