package router_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
	"github.com/mikey2020/docs-cabinet-cp2/internal/middleware"
	"github.com/mikey2020/docs-cabinet-cp2/internal/model"
	"github.com/mikey2020/docs-cabinet-cp2/internal/router"
)

func withResponseCache(t *testing.T) func(*router.Middlewares) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cache := middleware.NewResponseCache(config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}, rdb, zerolog.Nop())
	return func(mw *router.Middlewares) {
		mw.Cache = cache.Reads()
		mw.Invalidate = cache.Writes()
	}
}

func TestCachedReads_FollowWrites(t *testing.T) {
	t.Parallel()
	s := newServer(t, withResponseCache(t))
	s.docs.Put(model.Document{ID: 1, Title: "notes", Access: model.AccessPublic, CreatedBy: 5})
	owner := tokenFor(t, 5, 0)
	reader := tokenFor(t, 9, 0)

	for i := 0; i < 2; i++ {
		code, resp := s.do(t, http.MethodGet, "/api/documents/1", reader, "")
		require.Equal(t, http.StatusOK, code)
		require.Len(t, resp.Documents, 1)
	}
	code, resp := s.do(t, http.MethodGet, "/api/documents", reader, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Documents, 1)

	code, _ = s.do(t, http.MethodPut, "/api/documents/1", owner, `{"access":"private"}`)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/documents/1", reader, "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "ForbiddenOperationError", resp.Error)
	code, resp = s.do(t, http.MethodGet, "/api/documents", reader, "")
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, resp.Documents)

	code, resp = s.do(t, http.MethodGet, "/api/documents/1", owner, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, model.AccessPrivate, resp.Documents[0].Access)

	code, _ = s.do(t, http.MethodDelete, "/api/documents/1", owner, "")
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/documents/1", owner, "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "NoDocumentsFoundError", resp.Error)
	require.Empty(t, resp.Documents)
}

func TestCachedReads_FailedWriteKeepsEntries(t *testing.T) {
	t.Parallel()
	s := newServer(t, withResponseCache(t))
	s.docs.Put(model.Document{ID: 1, Title: "kept", Access: model.AccessPublic, CreatedBy: 5})
	reader := tokenFor(t, 9, 0)

	code, _ := s.do(t, http.MethodGet, "/api/documents/1", reader, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, "/api/documents/1", reader, "")
	require.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(t, http.MethodGet, "/api/documents/1", reader, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "kept", resp.Documents[0].Title)
}
