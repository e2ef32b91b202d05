package middleware

// identity.go holds the context keys the auth middleware fills in and the
// helpers that read them back.  Handlers use PrincipalFrom; the cache and
// rate limiter key on userID, which is "guest" for anonymous requests.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

const (
	principalKey = "principal"
	userIDKey    = "user_id"
)

// SetPrincipal attaches p to the request context.
func SetPrincipal(c echo.Context, p model.Principal) {
	c.Set(principalKey, p)
	c.Set(userIDKey, strconv.FormatInt(p.ID, 10))
}

// PrincipalFrom returns the principal stored by JWTAuth, if any.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// userID returns the authenticated user's id as a string, or "guest".
func userID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "guest"
}
