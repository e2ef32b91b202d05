package handler // declare the package name; contains HTTP handlers

import (
	"context"      // bounds the dependency pings
	"database/sql" // database handle to ping
	"net/http"     // net/http provides status codes and response helpers
	"time"         // ping timeout

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and, on /readyz, whether the database
// (and Redis, when configured) answer.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// Health is a simple liveness endpoint used by load balancers.  It returns
// a plain text "ok" with 200.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready pings the dependencies and returns 503 if any of them fails.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := echo.Map{}
	status := http.StatusOK
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}
	return c.JSON(status, checks)
}
