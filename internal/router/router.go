package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/mikey2020/docs-cabinet-cp2/internal/handler" // handlers that call into the services
	"github.com/mikey2020/docs-cabinet-cp2/internal/metrics" // Prometheus scrape endpoint
)

// Middlewares are the per-group middleware the API routes need.  Auth is
// required; the rest may be nil when Redis is not configured.  Cache wraps
// reads and Invalidate wraps document writes.
type Middlewares struct {
	Auth       echo.MiddlewareFunc
	RateLimit  echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
}

func (m Middlewares) chain(extra echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := []echo.MiddlewareFunc{m.Auth}
	if m.RateLimit != nil {
		out = append(out, m.RateLimit)
	}
	if extra != nil {
		out = append(out, extra)
	}
	return out
}

// RegisterRoutes registers the unauthenticated operational endpoints:
// liveness, readiness and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/readyz", h.Ready)
	e.GET("/metrics", metrics.Handler())
}

// RegisterUsers registers signup and login, which need no token, and the
// admin listing of a user's documents, which does.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, d *handler.DocumentHandler, mw Middlewares) {
	open := e.Group("/api/users")
	if mw.RateLimit != nil {
		open.Use(mw.RateLimit)
	}
	open.POST("", u.Signup)
	open.POST("/login", u.Login)

	// GET /api/users/ and /api/users/:id reach the handler too so that
	// non-admins get 403 before any path validation.
	g := e.Group("/api/users", mw.chain(mw.Cache)...)
	g.GET("/", d.UserDocuments)
	g.GET("/:id", d.UserDocuments)
	g.GET("/:id/:resource", d.UserDocuments)
}

// RegisterDocuments registers the document lifecycle routes.  Every route
// requires a valid token.  GETs may be cached per user; a successful write
// invalidates every cached read.
func RegisterDocuments(e *echo.Echo, d *handler.DocumentHandler, mw Middlewares) {
	reads := e.Group("/api/documents", mw.chain(mw.Cache)...)
	reads.GET("", d.List)
	reads.GET("/:id", d.Get)

	writes := e.Group("/api/documents", mw.chain(mw.Invalidate)...)
	writes.POST("", d.Create)
	writes.PUT("/:id", d.Update)
	writes.DELETE("/:id", d.Delete)
	// Without an id the handlers answer DocumentIdNotSuppliedError.
	writes.PUT("", d.Update)
	writes.PUT("/", d.Update)
	writes.DELETE("", d.Delete)
	writes.DELETE("/", d.Delete)
}
