package handler // handler defines http handlers

import (
	"errors"   // errors unwraps service failures
	"io"       // io bounds request body reads
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mikey2020/docs-cabinet-cp2/internal/access"
	"github.com/mikey2020/docs-cabinet-cp2/internal/middleware"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
)

// respondError is the single place where failures become HTTP responses.
// Known kinds are written as {message, error} with their mapped status;
// anything else is logged and answered with a bare 500.
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	var ae *access.Error
	if errors.As(err, &ae) {
		return c.JSON(ae.Kind.Status(), echo.Map{"message": ae.Message, "error": ae.Kind.String()})
	}
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"message": "Something went wrong. Please try again.",
		"error":   "InternalServerError",
	})
}

// principal returns the requester decoded by the auth middleware.  Routes
// using it are always behind JWTAuth, so a miss is a wiring fault.
func principal(c echo.Context) (model.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return model.Principal{}, access.New(access.KindInvalidToken, "")
	}
	return p, nil
}

// readBody reads the whole request body, refusing anything over limit bytes
// instead of handing a truncated body to the parser.
func readBody(c echo.Context, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, limit+1))
	if err != nil {
		return nil, access.New(access.KindInvalidRequestBody, "")
	}
	if int64(len(body)) > limit {
		return nil, access.New(access.KindRequestBodyTooLarge, "")
	}
	return body, nil
}
