package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
	"github.com/mikey2020/docs-cabinet-cp2/internal/middleware"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/utils"
)

const (
	secret = "middleware-secret"
	header = "x-docs-cabinet-authentication"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": p.ID, "roleId": p.RoleID})
	}, middleware.JWTAuth(secret, header))
	return e
}

func token(t *testing.T, p model.Principal, key string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.NewAccessToken(key, p, ttl)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	valid := token(t, model.Principal{ID: 7, RoleID: 2}, secret, time.Hour)

	cases := []struct {
		name   string
		set    func(r *http.Request)
		status int
	}{
		{"custom header", func(r *http.Request) { r.Header.Set(header, valid) }, http.StatusOK},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, http.StatusOK},
		{"missing token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(r *http.Request) { r.Header.Set(header, "not-a-jwt") }, http.StatusUnauthorized},
		{"wrong key", func(r *http.Request) {
			r.Header.Set(header, token(t, model.Principal{ID: 7}, "other", time.Hour))
		}, http.StatusUnauthorized},
		{"expired", func(r *http.Request) {
			r.Header.Set(header, token(t, model.Principal{ID: 7}, secret, -time.Minute))
		}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.set(req)
			rec := httptest.NewRecorder()
			newEcho().ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tc.status == http.StatusOK {
				require.EqualValues(t, 7, body["id"])
				return
			}
			require.Equal(t, "InvalidTokenError", body["error"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	e := echo.New()
	e.Use(middleware.RequestLogger(zerolog.New(buf)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.Equal(t, "info", first["level"])
	require.EqualValues(t, 204, first["status"])
	require.Equal(t, "guest", first["user_id"])
	require.Equal(t, "error", second["level"])
	require.EqualValues(t, 502, second["status"])
}

func TestRedisMiddleware_PassThroughWithoutRedis(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, zerolog.Nop()))
	e.Use(middleware.NewResponseCache(config.CacheConfig{Enabled: true}, nil, zerolog.Nop()).Reads())
	calls := 0
	e.GET("/x", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "fresh")
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("X-Cache"))
	}
	require.Equal(t, 3, calls)
}
