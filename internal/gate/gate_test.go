package gate

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/storelink/dashboard-gateway/internal/upstream"
)

func newGate(verifyStatus int) (*Gate, *httptest.Server, *int) {
    calls := new(int)
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/api/auth/verify" {
            *calls++
            w.WriteHeader(verifyStatus)
            return
        }
        w.WriteHeader(http.StatusNotFound)
    }))
    return &Gate{Client: upstream.New(srv.URL), LoginPath: "/login"}, srv, calls
}

func TestLoginAlwaysAllowed(t *testing.T) {
    g, srv, calls := newGate(http.StatusUnauthorized)
    defer srv.Close()

    r := httptest.NewRequest(http.MethodGet, "/login", nil)
    d := g.Check(context.Background(), r)
    if !d.Allow {
        t.Fatal("login navigation must always be allowed")
    }
    if *calls != 0 {
        t.Fatalf("verify calls = %d, login must not verify", *calls)
    }
}

func TestMissingCookieRedirects(t *testing.T) {
    g, srv, calls := newGate(http.StatusOK)
    defer srv.Close()

    r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
    d := g.Check(context.Background(), r)
    if d.Allow || d.Redirect != "/login" {
        t.Fatalf("decision = %+v, want redirect to /login", d)
    }
    if *calls != 0 {
        t.Fatalf("verify calls = %d, missing cookie must short-circuit", *calls)
    }
}

func TestVerifiedSessionAllows(t *testing.T) {
    g, srv, calls := newGate(http.StatusOK)
    defer srv.Close()

    r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
    r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
    d := g.Check(context.Background(), r)
    if !d.Allow {
        t.Fatalf("decision = %+v, want allow", d)
    }
    if *calls != 1 {
        t.Fatalf("verify calls = %d, want exactly one per navigation", *calls)
    }
}

func TestFailedVerificationRedirects(t *testing.T) {
    g, srv, _ := newGate(http.StatusForbidden)
    defer srv.Close()

    r := httptest.NewRequest(http.MethodGet, "/dashboard/tables", nil)
    r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad"})
    d := g.Check(context.Background(), r)
    if d.Allow || d.Redirect != "/login" {
        t.Fatalf("decision = %+v, want redirect to /login", d)
    }
}
