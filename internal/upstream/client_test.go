package upstream

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
)

// A request that fails with 401 followed by a successful refresh must be
// retried exactly once and produce the same response a directly-authorized
// call would have.
func TestRefreshRetry(t *testing.T) {
    var dataCalls, refreshCalls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case "/api/auth/refresh":
            refreshCalls++
            http.SetCookie(w, &http.Cookie{Name: "Authentication", Value: "fresh"})
            w.WriteHeader(http.StatusOK)
        case "/api/orders":
            dataCalls++
            if c, err := r.Cookie("Authentication"); err != nil || c.Value != "fresh" {
                w.WriteHeader(http.StatusUnauthorized)
                return
            }
            w.Write([]byte(`[{"_id":"o1"}]`))
        default:
            t.Errorf("unexpected path %s", r.URL.Path)
        }
    }))
    defer srv.Close()

    c := New(srv.URL)
    resp, err := c.Do(context.Background(), http.MethodGet, "/api/orders", nil, "", "Authentication=stale")
    if err != nil {
        t.Fatalf("Do: %v", err)
    }
    if resp.Status != http.StatusOK {
        t.Fatalf("status = %d, want 200", resp.Status)
    }
    if string(resp.Body) != `[{"_id":"o1"}]` {
        t.Fatalf("body = %s", resp.Body)
    }
    if refreshCalls != 1 {
        t.Fatalf("refresh calls = %d, want 1", refreshCalls)
    }
    if dataCalls != 2 {
        t.Fatalf("data calls = %d, want original plus one retry", dataCalls)
    }
}

// When the refresh itself is rejected the client must give up with
// ErrSessionExpired and never retry the original request.
func TestRefreshFailureIsTerminal(t *testing.T) {
    var dataCalls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case "/api/auth/refresh":
            w.WriteHeader(http.StatusUnauthorized)
        case "/api/orders":
            dataCalls++
            w.WriteHeader(http.StatusUnauthorized)
        }
    }))
    defer srv.Close()

    c := New(srv.URL)
    _, err := c.Do(context.Background(), http.MethodGet, "/api/orders", nil, "", "Authentication=stale")
    if err != ErrSessionExpired {
        t.Fatalf("err = %v, want ErrSessionExpired", err)
    }
    if dataCalls != 1 {
        t.Fatalf("data calls = %d, original must not be retried after failed refresh", dataCalls)
    }
}

// A 401 from the login path itself must not trigger the interceptor.
func TestLoginBypassesRefresh(t *testing.T) {
    var refreshCalls int
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/api/auth/refresh" {
            refreshCalls++
        }
        w.WriteHeader(http.StatusUnauthorized)
    }))
    defer srv.Close()

    c := New(srv.URL)
    resp, err := c.Do(context.Background(), http.MethodPost, "/api/auth/login", []byte(`{}`), "application/json", "")
    if err != nil {
        t.Fatalf("Do: %v", err)
    }
    if resp.Status != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401 passed through", resp.Status)
    }
    if refreshCalls != 0 {
        t.Fatalf("refresh calls = %d, want 0", refreshCalls)
    }
}

// Background revalidations carry the last cookie the client has seen.
func TestRemembersLastCookie(t *testing.T) {
    var got string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        got = r.Header.Get("Cookie")
        w.Write([]byte("{}"))
    }))
    defer srv.Close()

    c := New(srv.URL)
    if _, err := c.Do(context.Background(), http.MethodGet, "/api/categories", nil, "", "Authentication=abc"); err != nil {
        t.Fatalf("Do: %v", err)
    }
    if _, err := c.Do(context.Background(), http.MethodGet, "/api/categories", nil, "", ""); err != nil {
        t.Fatalf("Do: %v", err)
    }
    if got != "Authentication=abc" {
        t.Fatalf("cookie on background call = %q", got)
    }
}

// Outbound requests carry exactly the cookies the caller set, even after a
// response has handed tokens back: nothing may append a second copy of the
// session cookie alongside the relayed one.
func TestOutboundCookieNotDuplicated(t *testing.T) {
    var got []*http.Cookie
    calls := 0
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        calls++
        if calls == 1 {
            http.SetCookie(w, &http.Cookie{Name: "Authentication", Value: "minted", Path: "/"})
        } else {
            got = r.Cookies()
        }
        w.Write([]byte(`{}`))
    }))
    defer srv.Close()

    c := New(srv.URL)
    if _, err := c.Do(context.Background(), http.MethodGet, "/api/tables", nil, "", "Authentication=browser"); err != nil {
        t.Fatalf("Do: %v", err)
    }
    if _, err := c.Do(context.Background(), http.MethodGet, "/api/tables", nil, "", "Authentication=browser"); err != nil {
        t.Fatalf("Do: %v", err)
    }

    seen := 0
    for _, ck := range got {
        if ck.Name == "Authentication" {
            seen++
            if ck.Value != "browser" {
                t.Fatalf("Authentication = %q, want the relayed browser value", ck.Value)
            }
        }
    }
    if seen != 1 {
        t.Fatalf("Authentication cookie sent %d times, want exactly once", seen)
    }
}

func TestMergeCookies(t *testing.T) {
    merged := mergeCookies("Authentication=old; Refresh=keep", []string{
        "Authentication=new; Path=/; HttpOnly",
    })
    if !strings.Contains(merged, "Authentication=new") {
        t.Fatalf("merged = %q, refreshed token missing", merged)
    }
    if strings.Contains(merged, "Authentication=old") {
        t.Fatalf("merged = %q, stale token kept", merged)
    }
    if !strings.Contains(merged, "Refresh=keep") {
        t.Fatalf("merged = %q, untouched cookie dropped", merged)
    }
}
