package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/proxy"
    "github.com/storelink/dashboard-gateway/internal/upstream"
)

// Resource bundles the handlers for one cached entity family (categories,
// menu items, tables).  Reads are served through the resource cache with its
// staleness window; writes are proxied upstream and, on success, apply the
// family's invalidation rules.
type Resource struct {
    Entity string // cache key family, e.g. "categories"
    Base   string // upstream collection path, e.g. "/api/categories"
    Fwd    *proxy.Forwarder
    Res    *cache.Resources
}

// NewResource wires one entity family.
func NewResource(entity, base string, fwd *proxy.Forwarder, res *cache.Resources) *Resource {
    return &Resource{Entity: entity, Base: base, Fwd: fwd, Res: res}
}

// List serves the fetch-all query from the cache.
func (h *Resource) List(c echo.Context) error {
    raw, err := h.Res.List(c.Request().Context(), h.Entity, h.Base, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: h.Base}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

// Detail serves the fetch-by-id query from the cache.
func (h *Resource) Detail(c echo.Context) error {
    id := c.Param("id")
    raw, err := h.Res.Detail(c.Request().Context(), h.Entity, id, h.Base+"/"+id, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: h.Base + "/:id"}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

// Create proxies the write and invalidates the list on success.
func (h *Resource) Create(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodPost, Path: h.Base, ForwardBody: true}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.Res.ApplyCreate(h.Entity)
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, proxy.ResponseBody(resp))
}

// Update proxies the write; on success the returned entity is written into
// the detail slot directly and the list is invalidated.
func (h *Resource) Update(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodPut, Path: h.Base + "/:id", ForwardBody: true}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.Res.ApplyUpdate(h.Entity, c.Param("id"), resp.Body)
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, proxy.ResponseBody(resp))
}

// Delete proxies the write; on success the detail slot is removed and the
// list invalidated.
func (h *Resource) Delete(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodDelete, Path: h.Base + "/:id"}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.Res.ApplyDelete(h.Entity, c.Param("id"))
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, proxy.ResponseBody(resp))
}

// writeFetchError maps cache-fetch failures onto the proxy error envelope:
// a StatusError relays the upstream status and body, anything else is a
// transport failure.
func writeFetchError(c echo.Context, rt proxy.Route, err error) error {
    var se *upstream.StatusError
    if errors.As(err, &se) {
        return proxy.WriteError(c, rt, &upstream.Response{Status: se.Status, Body: se.Body}, nil)
    }
    return proxy.WriteError(c, rt, nil, err)
}
