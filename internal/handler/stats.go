package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/proxy"
)

// Stats serves the derived dashboard aggregate.  The numbers are computed
// from the cached order set, never fetched from the upstream as their own
// resource.
type Stats struct {
    Res *cache.Resources
}

func NewStats(res *cache.Resources) *Stats {
    return &Stats{Res: res}
}

// Get answers GET /api/dashboard/stats?date=YYYY-MM-DD.  An empty date
// yields the all-time window.
func (h *Stats) Get(c echo.Context) error {
    date := c.QueryParam("date")
    raw, err := h.Res.Stats(c.Request().Context(), date, ordersBase, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: "/api/dashboard/stats"}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}
