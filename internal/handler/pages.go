package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Pages serves the navigation entry points the session gate protects.  The
// actual dashboard UI is a separate front-end bundle; the gateway only
// answers with a minimal shell so that navigations exist for the gate to
// decide on.  Everything visual is out of scope here.
type Pages struct{}

const pageShell = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Store Dashboard</title></head>
<body><div id="root"></div><script src="/assets/app.js"></script></body>
</html>
`

// Login renders the login shell.  The gate always lets this route through.
func (Pages) Login(c echo.Context) error {
    return c.HTML(http.StatusOK, pageShell)
}

// Dashboard renders the shell for every gated dashboard page.
func (Pages) Dashboard(c echo.Context) error {
    return c.HTML(http.StatusOK, pageShell)
}
