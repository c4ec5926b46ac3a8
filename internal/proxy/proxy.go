// Package proxy translates browser-originated requests for the declared
// resource paths into upstream API calls and relays the result, including
// authentication artifacts, in both directions.
package proxy

import (
    "encoding/json"
    "errors"
    "io"
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/storelink/dashboard-gateway/internal/upstream"
)

// Route declares one proxied endpoint: the upstream path template with
// :param placeholders, the HTTP method, and whether the request body is
// forwarded.
type Route struct {
    Method      string
    Path        string
    ForwardBody bool
}

// SubstituteParams replaces every :name token in the template with the
// matching value.  A declared parameter with no resolved value leaves the
// literal token in place; that is the documented contract of this layer, so
// the function only logs the condition instead of failing.
func SubstituteParams(template string, names, values []string) string {
    out := template
    for i, name := range names {
        if i < len(values) {
            out = strings.ReplaceAll(out, ":"+name, values[i])
        }
    }
    if strings.Contains(out, ":") {
        log.Printf("proxy: unresolved path parameter in %q", out)
    }
    return out
}

// Forwarder issues proxied requests through the shared upstream client.
type Forwarder struct {
    Client *upstream.Client
}

// Forward resolves the route against the inbound request and issues it
// upstream.  The inbound Cookie header is relayed verbatim.  When the route
// forwards a body and the method is not a read, multipart payloads are
// passed through untouched (the boundary lives in the content type) and
// anything else is parsed as JSON, defaulting to an empty object when the
// body does not parse.
func (f *Forwarder) Forward(c echo.Context, rt Route) (*upstream.Response, error) {
    path := SubstituteParams(rt.Path, c.ParamNames(), c.ParamValues())
    cookie := c.Request().Header.Get("Cookie")

    var body []byte
    var contentType string
    if rt.ForwardBody && rt.Method != http.MethodGet {
        inbound := c.Request().Header.Get("Content-Type")
        raw, err := io.ReadAll(c.Request().Body)
        if err != nil {
            raw = nil
        }
        if strings.Contains(inbound, "multipart/form-data") {
            body = raw
            contentType = inbound
        } else {
            var js json.RawMessage
            if json.Unmarshal(raw, &js) != nil || len(raw) == 0 {
                js = json.RawMessage("{}")
            }
            body = js
            contentType = "application/json"
        }
    }

    return f.Client.Do(c.Request().Context(), rt.Method, path, body, contentType, cookie)
}

// Handler wraps Forward into an Echo handler that relays the upstream body,
// status and every Set-Cookie header.  Upstream failures become the
// structured {error, details, status} envelope; this handler never returns
// an error past its own boundary.
func (f *Forwarder) Handler(rt Route) echo.HandlerFunc {
    return func(c echo.Context) error {
        resp, err := f.Forward(c, rt)
        if err != nil {
            return WriteError(c, rt, resp, err)
        }
        if !resp.OK() {
            return WriteError(c, rt, resp, nil)
        }
        RelayCookies(c, resp)
        return c.JSONBlob(resp.Status, ResponseBody(resp))
    }
}

// RelayCookies copies every upstream Set-Cookie header onto the outbound
// response, preserving multiplicity: a login reply may set both access and
// refresh tokens.
func RelayCookies(c echo.Context, resp *upstream.Response) {
    for _, sc := range resp.Header.Values("Set-Cookie") {
        c.Response().Header().Add("Set-Cookie", sc)
    }
}

// WriteError answers with the upstream status (500 when none is available)
// and a structured error payload.  Login failures always read "Invalid
// credentials" no matter what the upstream said, so responses cannot reveal
// which part of the credential was wrong.  Upstream bodies go to the
// server-side log only; the client sees them solely in the details field.
func WriteError(c echo.Context, rt Route, resp *upstream.Response, err error) error {
    status := http.StatusInternalServerError
    var details any = "No additional details available"
    if resp != nil {
        status = resp.Status
        if d := decodeDetails(resp.Body); d != nil {
            details = d
        }
    } else if err != nil {
        if errors.Is(err, upstream.ErrSessionExpired) {
            status = http.StatusUnauthorized
            details = "session expired"
        }
        log.Printf("proxy: %s %s failed: %v", rt.Method, rt.Path, err)
    }

    msg := rt.Method + " request to " + rt.Path + " failed"
    if rt.Method == http.MethodPost && strings.Contains(rt.Path, "login") {
        msg = "Invalid credentials"
    }
    return c.JSON(status, echo.Map{
        "error":   msg,
        "details": details,
        "status":  status,
    })
}

// decodeDetails keeps the upstream error body when it is JSON, otherwise
// returns it as a plain string.
func decodeDetails(body []byte) any {
    if len(body) == 0 {
        return nil
    }
    var js any
    if err := json.Unmarshal(body, &js); err == nil {
        return js
    }
    return string(body)
}

// ResponseBody guards against upstream replies with empty bodies, which
// would otherwise render as an invalid JSON response.
func ResponseBody(resp *upstream.Response) []byte {
    if len(resp.Body) == 0 {
        return []byte("{}")
    }
    return resp.Body
}
