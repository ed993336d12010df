package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// OpenAPIHandler serves the API docs UI: a static HTML page that loads the
// viewer from a CDN and reads the OpenAPI JSON from the static folder.
type OpenAPIHandler struct {
	Handler
}

// NewOpenAPIHandler constructs an OpenAPIHandler.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI reads static/openapi.html and serves it. Caching is
// disabled so docs updates appear immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	templateBytes, err := os.ReadFile("static/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	return c.HTML(http.StatusOK, string(templateBytes))
}
