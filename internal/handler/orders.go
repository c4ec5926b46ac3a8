package handler

import (
    "encoding/json"
    "io"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/proxy"
)

const ordersBase = "/api/orders"

// Orders serves the live/historical order views.  Orders are append-only
// from the gateway's perspective except for status transitions, so the only
// write here is the status update, which rewrites the cached list in place
// instead of refetching it.
type Orders struct {
    Fwd *proxy.Forwarder
    Res *cache.Resources
}

func NewOrders(fwd *proxy.Forwarder, res *cache.Resources) *Orders {
    return &Orders{Fwd: fwd, Res: res}
}

func (h *Orders) List(c echo.Context) error {
    raw, err := h.Res.List(c.Request().Context(), "orders", ordersBase, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: ordersBase}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

func (h *Orders) Detail(c echo.Context) error {
    id := c.Param("id")
    raw, err := h.Res.Detail(c.Request().Context(), "orders", id, ordersBase+"/"+id, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: ordersBase + "/:id"}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

// UpdateStatus proxies the status transition.  The body is read here rather
// than in the forwarder because the new status is needed afterwards to
// rewrite the cached list.
func (h *Orders) UpdateStatus(c echo.Context) error {
    id := c.Param("id")
    rt := proxy.Route{Method: http.MethodPut, Path: ordersBase + "/:id/status", ForwardBody: true}

    raw, err := io.ReadAll(c.Request().Body)
    if err != nil || len(raw) == 0 {
        raw = []byte("{}")
    }
    var req struct {
        Status string `json:"status"`
    }
    if json.Unmarshal(raw, &req) != nil {
        raw = []byte("{}")
    }

    resp, err := h.Fwd.Client.Do(c.Request().Context(), http.MethodPut, ordersBase+"/"+id+"/status",
        raw, "application/json", c.Request().Header.Get("Cookie"))
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.Res.ApplyOrderStatus(id, req.Status)
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, proxy.ResponseBody(resp))
}
