package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// InterestHandler serves interest endpoints, nested under posts.
type InterestHandler struct {
	Handler
	services *service.Services
}

// NewInterestHandler constructs an InterestHandler.
func NewInterestHandler(s *server.Server, services *service.Services) *InterestHandler {
	return &InterestHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// CreateInterestRequest registers interest in a post.
type CreateInterestRequest struct {
	PostID  string `param:"id" validate:"required,uuid"`
	Message string `json:"message" validate:"max=500"`
}

// Validate implements validation.Validatable.
func (r *CreateInterestRequest) Validate() error {
	return validation.Struct(r)
}

// Create registers the caller's interest in the post.
func (h *InterestHandler) Create(c echo.Context, req *CreateInterestRequest) (*model.Interest, error) {
	return h.services.Interest.Create(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.PostID),
		req.Message,
	)
}

// ListInterestsRequest addresses a post's interest list.
type ListInterestsRequest struct {
	PostID string `param:"id" validate:"required,uuid"`
}

// Validate implements validation.Validatable.
func (r *ListInterestsRequest) Validate() error {
	return validation.Struct(r)
}

// List returns the post's interests with user profiles. Owner only.
func (h *InterestHandler) List(c echo.Context, req *ListInterestsRequest) ([]*model.Interest, error) {
	return h.services.Interest.ListForPost(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.PostID),
	)
}
