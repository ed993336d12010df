package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/rohithvarma444/amEx-sub001/internal/logger"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

const (
	// UserIDKey is the Echo context key auth middleware stores the Clerk
	// subject under.
	UserIDKey = "user_id"

	// LoggerKey is the key for the request-scoped logger, in both Echo
	// context and the Go request context.
	LoggerKey = "logger"
)

// ContextEnhancer builds a request-scoped logger carrying request_id, method,
// path, ip, plus trace and user metadata when available, and stores it in
// both Echo context and the Go request context.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the middleware. It must run after RequestID; user
// fields appear only when auth middleware already ran for the route.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if userID := GetUserID(c); userID != "" {
				contextLogger = contextLogger.With().Str("user_id", userID).Logger()
			}

			c.Set(LoggerKey, &contextLogger)

			// Also store in the Go request context so non-Echo code can log
			// with the request fields.
			ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger) //nolint:staticcheck
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID reads the authenticated user's id from Echo context, or "" for
// unauthenticated routes.
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from Echo context. If
// EnhanceContext didn't run it returns a no-op logger instead of nil.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	nop := zerolog.Nop()
	return &nop
}
