package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JoyalGJ/PG-Management/internal/config"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache_HitThenInvalidate(t *testing.T) {
	_, rdb := setupRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "test:cache", MaxBodyBytes: 1 << 10}

	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb, zap.NewNop()))
	calls := 0
	e.GET("/v1/rooms", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	})
	e.POST("/v1/rooms", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	first := do(e, http.MethodGet, "/v1/rooms")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(e, http.MethodGet, "/v1/rooms")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	other := do(e, http.MethodGet, "/v1/rooms?x=1")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/v1/rooms").Code)
	after := do(e, http.MethodGet, "/v1/rooms")
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)
}

func TestRedisCache_SkipsErrors(t *testing.T) {
	_, rdb := setupRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "test:cache"}

	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb, nil))
	e.GET("/v1/rooms/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	})

	do(e, http.MethodGet, "/v1/rooms/9")
	rec := do(e, http.MethodGet, "/v1/rooms/9")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedisCache_DisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, nil))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := do(e, http.MethodGet, "/")
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestTokenBucket_Blocks(t *testing.T) {
	_, rdb := setupRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "test:rl"}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, nil))
	e.GET("/v1/ledger", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/ledger").Code)
	rec := do(e, http.MethodGet, "/v1/ledger")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	blocked := do(e, http.MethodGet, "/v1/ledger")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}

func TestTokenBucket_RedisDownPassesThrough(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Close()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "test:rl"}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, nil))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/").Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestID(), RequestLogger(zap.New(core)))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := do(e, http.MethodGet, "/healthz")
	id := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, id, 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entry.ContextMap()["status"])
}
