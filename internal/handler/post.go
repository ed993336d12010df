package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// PostHandler serves listing and request endpoints.
type PostHandler struct {
	Handler
	services *service.Services
}

// NewPostHandler constructs a PostHandler.
func NewPostHandler(s *server.Server, services *service.Services) *PostHandler {
	return &PostHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// CreatePostRequest creates a listing or request post.
type CreatePostRequest struct {
	Type        string           `json:"type" validate:"required,oneof=LISTING REQUEST"`
	Title       string           `json:"title" validate:"required,min=3,max=120"`
	Caption     string           `json:"caption" validate:"max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Price       *decimal.Decimal `json:"price"`
	PriceUnit   string           `json:"price_unit" validate:"max=20"`
	ImageURLs   []string         `json:"image_urls" validate:"omitempty,dive,url"`
	Location    string           `json:"location" validate:"max=120"`
	Urgency     *string          `json:"urgency" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// Validate implements validation.Validatable.
func (r *CreatePostRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.Price != nil && r.Price.IsNegative() {
		return validation.CustomValidationErrors{
			{Field: "price", Message: "must not be negative"},
		}
	}

	return nil
}

// Create makes a new post owned by the caller.
func (h *PostHandler) Create(c echo.Context, req *CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		Type:        model.PostType(req.Type),
		Title:       req.Title,
		Caption:     req.Caption,
		Description: req.Description,
		Price:       req.Price,
		PriceUnit:   req.PriceUnit,
		ImageURLs:   req.ImageURLs,
		Location:    req.Location,
		UserID:      middleware.GetUserID(c),
	}

	if req.Urgency != nil {
		u := model.Urgency(*req.Urgency)
		post.Urgency = &u
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err == nil {
			post.CategoryID = &id
		}
	}

	return h.services.Post.Create(c.Request().Context(), post)
}

// PostIDRequest addresses one post by path parameter.
type PostIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

// Validate implements validation.Validatable.
func (r *PostIDRequest) Validate() error {
	return validation.Struct(r)
}

// Get returns one post.
func (h *PostHandler) Get(c echo.Context, req *PostIDRequest) (*model.Post, error) {
	return h.services.Post.Get(c.Request().Context(), uuid.MustParse(req.ID))
}

// ListPostsRequest filters and pages the browse feeds.
type ListPostsRequest struct {
	CategoryID *string `query:"category_id" validate:"omitempty,uuid"`
	Limit      int     `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int     `query:"offset" validate:"omitempty,min=0"`
}

// Validate implements validation.Validatable.
func (r *ListPostsRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ListPostsRequest) window() (categoryID *uuid.UUID, limit, offset int) {
	limit = r.Limit
	if limit <= 0 {
		limit = 20
	}
	if r.CategoryID != nil {
		if id, err := uuid.Parse(*r.CategoryID); err == nil {
			categoryID = &id
		}
	}
	return categoryID, limit, r.Offset
}

// ListListings returns active listings, newest first.
func (h *PostHandler) ListListings(c echo.Context, req *ListPostsRequest) ([]*model.Post, error) {
	categoryID, limit, offset := req.window()
	return h.services.Post.ListListings(c.Request().Context(), categoryID, limit, offset)
}

// ListRequests returns active requests, newest first.
func (h *PostHandler) ListRequests(c echo.Context, req *ListPostsRequest) ([]*model.Post, error) {
	categoryID, limit, offset := req.window()
	return h.services.Post.ListRequests(c.Request().Context(), categoryID, limit, offset)
}

// ListMine returns all of the caller's posts, any status.
func (h *PostHandler) ListMine(c echo.Context, req *EmptyRequest) ([]*model.Post, error) {
	return h.services.Post.ListMine(c.Request().Context(), middleware.GetUserID(c))
}

// Delete retires the caller's post.
func (h *PostHandler) Delete(c echo.Context, req *PostIDRequest) error {
	return h.services.Post.Delete(c.Request().Context(), middleware.GetUserID(c), uuid.MustParse(req.ID))
}
