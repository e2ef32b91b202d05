package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/utils"
)

// JWTAuth returns an Echo middleware that verifies the access token and
// stores the decoded principal in the request context, where handlers read
// it with PrincipalFrom.  The token is taken from the given header (the
// docs cabinet header by default) or, failing that, from an
// "Authorization: Bearer" header.  Requests without a valid token are
// answered with 401 InvalidTokenError and never reach the handler.
func JWTAuth(secret, header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFrom(c, header)
			if raw == "" {
				return writeError(c, access.New(access.KindInvalidToken, ""))
			}
			p, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return writeError(c, access.New(access.KindInvalidToken, "Your session is invalid or has expired. Please sign in again."))
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context, header string) string {
	h := c.Request().Header
	if header != "" {
		if v := strings.TrimSpace(h.Get(header)); v != "" {
			return v
		}
	}
	auth := h.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// writeError sends the {message, error} body used for every API failure.
func writeError(c echo.Context, e *access.Error) error {
	return c.JSON(e.Kind.Status(), echo.Map{"message": e.Message, "error": e.Kind.String()})
}
