package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// CategoryHandler serves category endpoints.
type CategoryHandler struct {
	Handler
	services *service.Services
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(s *server.Server, services *service.Services) *CategoryHandler {
	return &CategoryHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// CreateCategoryRequest creates a category. Admin-gated.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=300"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// Validate implements validation.Validatable.
func (r *CreateCategoryRequest) Validate() error {
	return validation.Struct(r)
}

// Create adds a category.
func (h *CategoryHandler) Create(c echo.Context, req *CreateCategoryRequest) (*model.Category, error) {
	return h.services.Category.Create(c.Request().Context(), req.Name, req.Description, req.ImageURL)
}

// List returns all categories.
func (h *CategoryHandler) List(c echo.Context, req *EmptyRequest) ([]*model.Category, error) {
	return h.services.Category.List(c.Request().Context())
}
