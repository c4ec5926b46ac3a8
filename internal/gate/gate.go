// Package gate decides, once per navigation, whether a visitor may reach a
// dashboard page.  The decision is a value the router consumes, not a side
// effect buried in a data-fetch path: handlers stay free of redirect logic.
package gate

import (
    "context"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/upstream"
)

// SessionCookie is the name of the cookie whose presence gates navigation.
// Its value is opaque to the gateway; validity is confirmed only by the
// upstream verify call, never by inspecting the value.
const SessionCookie = "Authentication"

// Decision is the outcome of one gate check.  When Allow is false, Redirect
// names the route the visitor is sent to.
type Decision struct {
    Allow    bool
    Redirect string
}

// Gate verifies sessions against the upstream identity service.
type Gate struct {
    Client    *upstream.Client
    LoginPath string
}

// Check runs the session decision for one navigation:
//   - navigations to the login route always pass, with no verification call;
//   - a missing session cookie redirects to login without a network call;
//   - otherwise the cookie is verified upstream, and anything but a 2xx
//     (including transport failure) redirects to login.
// The check is synchronous; a slow verify call delays the navigation rather
// than racing it.
func (g *Gate) Check(ctx context.Context, r *http.Request) Decision {
    if r.URL.Path == g.LoginPath {
        return Decision{Allow: true}
    }
    if _, err := r.Cookie(SessionCookie); err != nil {
        return Decision{Redirect: g.LoginPath}
    }
    resp, err := g.Client.Verify(ctx, r.Header.Get("Cookie"))
    if err != nil {
        log.Printf("gate: verify failed: %v", err)
        return Decision{Redirect: g.LoginPath}
    }
    if !resp.OK() {
        return Decision{Redirect: g.LoginPath}
    }
    return Decision{Allow: true}
}

// Middleware adapts Check to Echo.  Page routes wrap themselves with this;
// API routes are left alone because their callers handle 401s through the
// refresh interceptor instead of redirects.
func (g *Gate) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            d := g.Check(c.Request().Context(), c.Request())
            if !d.Allow {
                return c.Redirect(http.StatusSeeOther, d.Redirect)
            }
            return next(c)
        }
    }
}
