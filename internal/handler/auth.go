package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/cache"
    "github.com/storelink/dashboard-gateway/internal/proxy"
)

// Upstream identity endpoints.
const (
    loginPath   = "/api/auth/login"
    logoutPath  = "/api/auth/logout"
    refreshPath = "/api/auth/refresh"
    verifyPath  = "/api/auth/verify"
)

// Auth proxies the identity endpoints.  Login deliberately reports only
// "Invalid credentials" on any failure (the proxy layer applies that rule to
// login routes) so responses cannot be used to enumerate accounts.
type Auth struct {
    Fwd *proxy.Forwarder
    Res *cache.Resources
}

func NewAuth(fwd *proxy.Forwarder, res *cache.Resources) *Auth {
    return &Auth{Fwd: fwd, Res: res}
}

// Login forwards credentials and relays the Set-Cookie tokens back to the
// browser.
func (h *Auth) Login(c echo.Context) error {
    return h.Fwd.Handler(proxy.Route{Method: http.MethodPost, Path: loginPath, ForwardBody: true})(c)
}

// Refresh exchanges the refresh cookie for new tokens.
func (h *Auth) Refresh(c echo.Context) error {
    return h.Fwd.Handler(proxy.Route{Method: http.MethodPost, Path: refreshPath})(c)
}

// Logout forwards the call and drops the cached profile so a following
// login cannot see the previous user's data.
func (h *Auth) Logout(c echo.Context) error {
    rt := proxy.Route{Method: http.MethodPost, Path: logoutPath}
    resp, err := h.Fwd.Forward(c, rt)
    if err != nil {
        return proxy.WriteError(c, rt, nil, err)
    }
    if !resp.OK() {
        return proxy.WriteError(c, rt, resp, nil)
    }
    h.Res.DropUser()
    proxy.RelayCookies(c, resp)
    return c.JSONBlob(resp.Status, proxy.ResponseBody(resp))
}

// Verify serves the profile through the cache; views poll it freely without
// hammering the identity service.
func (h *Auth) Verify(c echo.Context) error {
    raw, err := h.Res.User(c.Request().Context(), verifyPath, c.Request().Header.Get("Cookie"))
    if err != nil {
        return writeFetchError(c, proxy.Route{Method: http.MethodGet, Path: verifyPath}, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}
