package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// UserHandler serves account sync and profile endpoints.
type UserHandler struct {
	Handler
	services *service.Services
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(s *server.Server, services *service.Services) *UserHandler {
	return &UserHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// EmptyRequest is the payload type for endpoints that take no input beyond
// the authenticated caller.
type EmptyRequest struct{}

// Validate implements validation.Validatable.
func (r *EmptyRequest) Validate() error { return nil }

// Sync mirrors the caller's Clerk profile into the local users table. The
// frontend calls it right after sign-in.
func (h *UserHandler) Sync(c echo.Context, req *EmptyRequest) (*model.User, error) {
	return h.services.User.Sync(c.Request().Context(), middleware.GetUserID(c))
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context, req *EmptyRequest) (*model.User, error) {
	return h.services.User.Me(c.Request().Context(), middleware.GetUserID(c))
}

// UpdateProfileRequest updates the locally managed profile fields. Omitted
// fields keep their current values.
type UpdateProfileRequest struct {
	UpiID     *string `json:"upi_id" validate:"omitempty,min=3,max=100"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=60"`
	LastName  *string `json:"last_name" validate:"omitempty,max=60"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
}

// Validate implements validation.Validatable.
func (r *UpdateProfileRequest) Validate() error {
	if r.UpiID == nil && r.FirstName == nil && r.LastName == nil && r.ImageURL == nil {
		return validation.CustomValidationErrors{
			{Field: "upi_id", Message: "at least one field must be provided"},
		}
	}
	return validation.Struct(r)
}

// UpdateProfile patches the caller's profile. Setting a UPI id is required
// before they can receive payments.
func (h *UserHandler) UpdateProfile(c echo.Context, req *UpdateProfileRequest) (*model.User, error) {
	return h.services.User.UpdateProfile(c.Request().Context(), middleware.GetUserID(c), repository.ProfileUpdate{
		UpiID:     req.UpiID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	})
}
