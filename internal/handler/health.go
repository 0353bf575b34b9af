package handler // declare the package name; contains HTTP handlers

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// HealthHandler serves the unauthenticated service-info endpoints used by
// load balancers and the dashboard frontend.
type HealthHandler struct {
    Env     string
    started time.Time
}

func NewHealthHandler(env string) *HealthHandler {
    return &HealthHandler{Env: env, started: time.Now().UTC()}
}

// Health reports liveness along with environment and uptime, so a glance at
// the endpoint tells an operator which deployment answered and for how long
// it has been up.
func (h *HealthHandler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":      "healthy",
        "timestamp":   time.Now().UTC().Format(time.RFC3339),
        "environment": h.Env,
        "uptime":      time.Since(h.started).Round(time.Second).String(),
    })
}

// APIIndex returns a machine-readable map of the mounted route groups.
func (h *HealthHandler) APIIndex(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Customer Service Dashboard API",
        "version": "1.0.0",
        "endpoints": echo.Map{
            "health": "/health",
            "api":    "/api",
            "auth":   "/api/auth",
            "admin":  "/api/admin",
        },
    })
}
