// Package upstream wraps the external restaurant API behind a single
// configured HTTP client.  The client relays browser cookies and applies the
// one 401-refresh-retry recovery the dashboard depends on.  Non-2xx statuses
// are returned as data, not as Go errors; only transport failures and an
// unrecoverable session produce errors.
package upstream

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "sync"
    "time"
)

// ErrSessionExpired is returned when a request came back 401 and the single
// refresh attempt also failed.  Callers must treat it as terminal for the
// current navigation or action and send the visitor back to the login page;
// the failed request is never retried past this point.
var ErrSessionExpired = errors.New("upstream: session expired")

// StatusError carries a non-2xx upstream status through code paths (such as
// cache fetches) that only succeed on 2xx.  The body is kept so the caller
// can relay upstream details.
type StatusError struct {
    Status int
    Body   []byte
}

func (e *StatusError) Error() string {
    return fmt.Sprintf("upstream: status %d", e.Status)
}

// Response is the upstream reply handed back to callers.  Header is retained
// so proxy handlers can relay every Set-Cookie value with its multiplicity
// preserved.
type Response struct {
    Status int
    Header http.Header
    Body   []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

const (
    refreshPath = "/api/auth/refresh"
    loginPath   = "/api/auth/login"
    verifyPath  = "/api/auth/verify"
)

// Client is the single configured HTTP client for the upstream API.  It is
// safe for concurrent use.  Bodies are buffered so the one retry after a
// refresh can replay them.
type Client struct {
    base string
    http *http.Client

    mu         sync.Mutex
    lastCookie string // last browser Cookie header seen; used by background refetches
}

// New builds a Client for the given API base URL.  The client carries no
// cookie jar: every cookie an outbound request needs is set explicitly, so
// a jar would only append a second copy of the session cookie after a
// refresh, with server-dependent precedence between the two.
func New(baseURL string) *Client {
    return &Client{
        base: strings.TrimRight(baseURL, "/"),
        http: &http.Client{Timeout: 30 * time.Second},
    }
}

// Do issues one request against the upstream API.  cookie is the inbound
// browser Cookie header, relayed verbatim; when empty, the last cookie the
// client has seen is used so background revalidations stay authenticated.
// On a 401 the client refreshes the session once and replays the request;
// a failed refresh yields ErrSessionExpired.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType, cookie string) (*Response, error) {
    cookie = c.rememberCookie(cookie)

    resp, err := c.send(ctx, method, path, body, contentType, cookie)
    if err != nil {
        return nil, err
    }
    if resp.Status != http.StatusUnauthorized || path == refreshPath || path == loginPath {
        return resp, nil
    }

    // One refresh, then one replay. A second 401 is terminal.
    refreshed, err := c.send(ctx, http.MethodPost, refreshPath, nil, "", cookie)
    if err != nil || !refreshed.OK() {
        if err != nil {
            log.Printf("upstream: refresh failed: %v", err)
        } else {
            log.Printf("upstream: refresh rejected with status %d", refreshed.Status)
        }
        return nil, ErrSessionExpired
    }
    retryCookie := mergeCookies(cookie, refreshed.Header.Values("Set-Cookie"))
    c.rememberCookie(retryCookie)
    return c.send(ctx, method, path, body, contentType, retryCookie)
}

// Verify confirms the session cookie against the upstream identity service.
// It bypasses the refresh interceptor: the session gate wants the verdict
// for the cookie as presented.
func (c *Client) Verify(ctx context.Context, cookie string) (*Response, error) {
    return c.send(ctx, http.MethodGet, verifyPath, nil, "", cookie)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType, cookie string) (*Response, error) {
    var rd io.Reader
    if body != nil {
        rd = bytes.NewReader(body)
    }
    req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
    if err != nil {
        return nil, err
    }
    if cookie != "" {
        req.Header.Set("Cookie", cookie)
    }
    if contentType != "" {
        req.Header.Set("Content-Type", contentType)
    }
    res, err := c.http.Do(req)
    if err != nil {
        return nil, err
    }
    defer res.Body.Close()
    b, err := io.ReadAll(res.Body)
    if err != nil {
        return nil, err
    }
    return &Response{Status: res.StatusCode, Header: res.Header, Body: b}, nil
}

func (c *Client) rememberCookie(cookie string) string {
    c.mu.Lock()
    defer c.mu.Unlock()
    if cookie == "" {
        return c.lastCookie
    }
    c.lastCookie = cookie
    return cookie
}

// mergeCookies applies Set-Cookie values from a refresh response onto the
// original Cookie header, so the replayed request carries the new tokens
// instead of the ones that just failed.
func mergeCookies(orig string, setCookies []string) string {
    names := make([]string, 0, 4)
    values := make(map[string]string, 4)
    add := func(name, value string) {
        if _, seen := values[name]; !seen {
            names = append(names, name)
        }
        values[name] = value
    }
    for _, part := range strings.Split(orig, ";") {
        part = strings.TrimSpace(part)
        if part == "" {
            continue
        }
        if i := strings.Index(part, "="); i > 0 {
            add(part[:i], part[i+1:])
        }
    }
    for _, sc := range setCookies {
        // Only the name=value pair matters here; attributes are for the browser.
        pair := strings.TrimSpace(strings.Split(sc, ";")[0])
        if i := strings.Index(pair, "="); i > 0 {
            add(pair[:i], pair[i+1:])
        }
    }
    parts := make([]string, 0, len(names))
    for _, n := range names {
        parts = append(parts, n+"="+values[n])
    }
    return strings.Join(parts, "; ")
}
