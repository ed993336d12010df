package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// incrWithExpire bumps the window counter and sets its TTL in one atomic
// script, so a counter can never be stranded without an expiry.
var incrWithExpire = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count`)

// RateLimitMiddleware enforces per-user request limits on sensitive
// endpoints using a Redis fixed window.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit allows at most max requests per window for each (name, user) pair.
// Unauthenticated requests fall back to the client IP. Counting is an atomic
// INCR+EXPIRE script so the first hit of each window always gets a TTL; if
// Redis is down the request is allowed through rather than failing closed.
func (r *RateLimitMiddleware) Limit(name string, max int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := GetUserID(c)
			if subject == "" {
				subject = c.RealIP()
			}

			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", name, subject)

			count, err := incrWithExpire.Run(ctx, r.server.Redis, []string{key}, int(window/time.Second)).Int64()
			if err != nil {
				GetLogger(c).Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
				return next(c)
			}

			if count > int64(max) {
				r.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Too many attempts, try again later", false)
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit records a custom telemetry event when a limit trips.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
