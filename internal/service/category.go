package service

import (
	"context"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// CategoryService manages post categories. Creation is an admin-gated dev
// operation; everything else is read-only.
type CategoryService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(s *server.Server, repos *repository.Repositories) *CategoryService {
	return &CategoryService{server: s, repos: repos}
}

// Create adds a category. Duplicate names surface as a unique violation and
// come back to the client as a 400.
func (s *CategoryService) Create(ctx context.Context, name, description, imageURL string) (*model.Category, error) {
	return s.repos.Categories.Create(ctx, name, description, imageURL)
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	return s.repos.Categories.List(ctx)
}
