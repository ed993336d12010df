package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// PostService manages listings and requests.
type PostService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewPostService constructs a PostService.
func NewPostService(s *server.Server, repos *repository.Repositories) *PostService {
	return &PostService{server: s, repos: repos}
}

// Create validates type-specific rules and inserts the post. Urgency only
// applies to requests; the database check mirrors this, but failing before
// the insert gives the client a field-level error.
func (s *PostService) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if post.Urgency != nil && post.Type != model.PostTypeRequest {
		return nil, errs.NewBadRequestError("Urgency only applies to requests", false, nil,
			[]errs.FieldError{{Field: "urgency", Error: "urgency is only valid for REQUEST posts"}}, nil)
	}

	if post.ImageURLs == nil {
		post.ImageURLs = []string{}
	}

	return s.repos.Posts.Create(ctx, post)
}

// Get returns one post by id.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.repos.Posts.GetByID(ctx, id)
}

// ListListings returns active listings, newest first.
func (s *PostService) ListListings(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*model.Post, error) {
	return s.repos.Posts.ListByType(ctx, model.PostTypeListing, categoryID, limit, offset)
}

// ListRequests returns active requests, newest first.
func (s *PostService) ListRequests(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*model.Post, error) {
	return s.repos.Posts.ListByType(ctx, model.PostTypeRequest, categoryID, limit, offset)
}

// ListMine returns all of the caller's posts regardless of status.
func (s *PostService) ListMine(ctx context.Context, userID string) ([]*model.Post, error) {
	return s.repos.Posts.ListByUser(ctx, userID)
}

// Delete retires the caller's post. Posts are referenced by interests, deals,
// and chats, so retirement marks the post fulfilled rather than deleting the
// row; fulfilled posts drop out of the browse feeds.
func (s *PostService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	post, err := s.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errs.NewNotFoundError("Post not found", false, nil)
	}

	return s.repos.Posts.MarkFulfilled(ctx, id)
}
