package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// An unreachable Redis must not lock anyone out: the limiter fails open and
// the request proceeds.
func TestLimitFailsOpenWhenRedisUnavailable(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	rdb := redis.NewClient(&redis.Options{
		Addr:       "127.0.0.1:1",
		MaxRetries: -1,
	})
	t.Cleanup(func() { rdb.Close() })

	mw := NewRateLimitMiddleware(&server.Server{Redis: rdb})

	called := false
	handler := mw.Limit("verify-otp", 1, time.Minute)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
