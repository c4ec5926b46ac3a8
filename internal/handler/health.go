package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the gateway is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.  It does not
// touch the upstream API or the cache, so it stays green while the
// upstream is down.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
