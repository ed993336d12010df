package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/handler"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// registerSystemRoutes registers endpoints that are not business logic:
// health, docs UI, and the static assets for docs and uploaded images.
func registerSystemRoutes(s *server.Server, r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// Serves openapi.json and openapi.html for the docs UI.
	r.Static("/static", "static")

	// Uploaded post images; upload URLs point here.
	r.Static("/uploads", s.Config.Storage.UploadDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
