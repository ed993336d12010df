// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups, mapping
// specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/handler"
	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// NewRouter builds the Echo instance: global middleware in order, the error
// funnel, system routes, and the versioned API routes.
//
// Middleware order matters: RequestID before ContextEnhancer so the logger
// carries the id; the New Relic middleware before EnhanceTracing so a
// transaction exists to attribute.
func NewRouter(s *server.Server, mw *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(mw.Global.Recover())
	e.Use(middleware.RequestID())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.Secure())

	registerSystemRoutes(s, e, h)
	registerAPIRoutes(s, e, mw, h)

	return e
}
