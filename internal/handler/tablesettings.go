package handler

import (
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/model"
    "github.com/storelink/dashboard-gateway/internal/proxy"
)

const tableSettingsBase = "/api/table-settings"

const tableSettingsEntity = "table-settings"

// TableSettings manages the per-store section configuration.  There is one
// settings document per store, cached under the store id; section writes
// come back with the full document, which lands straight in that slot.
type TableSettings struct {
    Fwd *proxy.Forwarder
    Res *cache.Resources
}

func NewTableSettings(fwd *proxy.Forwarder, res *cache.Resources) *TableSettings {
    return &TableSettings{Fwd: fwd, Res: res}
}

func (h *TableSettings) List(c echo.Context) error {
    raw, err := h.Res.List(c.Request().Context(), tableSettingsEntity, tableSettingsBase, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: tableSettingsBase}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

func (h *TableSettings) ByStore(c echo.Context) error {
    storeID := c.Param("storeId")
    raw, err := h.Res.Detail(c.Request().Context(), tableSettingsEntity, storeID,
        tableSettingsBase+"/"+storeID, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: tableSettingsBase + "/:storeId"}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

// Sections proxies the raw section list for a store.  Sections are a slice
// of the settings document, so this read is forwarded instead of cached: the
// cached document under the store id already covers the hot path.
func (h *TableSettings) Sections(c echo.Context) error {
    return h.Fwd.Handler(proxy.Route{Method: http.MethodGet, Path: tableSettingsBase + "/:storeId/sections"})(c)
}

// Create establishes the settings document for a store that has none yet
// (the "first section" flow on the tables page).
func (h *TableSettings) Create(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodPost, Path: tableSettingsBase, ForwardBody: true}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.applySettings(resp.Body)
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, resp.Body)
}

// AddSections appends sections to a store's settings.
func (h *TableSettings) AddSections(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodPost, Path: tableSettingsBase + "/:storeId/sections", ForwardBody: true}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.applySettings(resp.Body)
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, resp.Body)
}

// applySettings writes the returned document into the store's detail slot
// and invalidates the list.  Falls back to plain list invalidation when the
// body does not carry a store id.
func (h *TableSettings) applySettings(body []byte) {
    var ts model.TableSettings
    if err := json.Unmarshal(body, &ts); err == nil && ts.StoreID != "" {
        h.Res.ApplyUpdate(tableSettingsEntity, ts.StoreID, body)
        return
    }
    h.Res.ApplyCreate(tableSettingsEntity)
}
