package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// InterestService manages expressions of interest in posts.
type InterestService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewInterestService constructs an InterestService.
func NewInterestService(s *server.Server, repos *repository.Repositories) *InterestService {
	return &InterestService{server: s, repos: repos}
}

// Create registers the caller's interest in a post. Owners cannot register
// interest in their own posts, and fulfilled posts take no new interest.
// Duplicates are closed out by unique_interests_post_user. The post owner is
// notified by email.
func (s *InterestService) Create(ctx context.Context, userID string, postID uuid.UUID, message string) (*model.Interest, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID == userID {
		return nil, errs.NewBadRequestError("You cannot register interest in your own post", false, nil, nil, nil)
	}
	if post.Status != model.PostStatusActive {
		return nil, errs.NewBadRequestError("This post is no longer active", false, nil, nil, nil)
	}

	interest, err := s.repos.Interests.Create(ctx, postID, userID, message)
	if err != nil {
		return nil, err
	}

	s.enqueueInterestEmail(ctx, post, userID)

	return interest, nil
}

// ListForPost returns a post's interests with user profiles. Owner only.
func (s *InterestService) ListForPost(ctx context.Context, callerID string, postID uuid.UUID) ([]*model.Interest, error) {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != callerID {
		return nil, errs.NewForbiddenError("Only the post owner can view interests", false)
	}

	return s.repos.Interests.ListByPost(ctx, postID)
}

func (s *InterestService) enqueueInterestEmail(ctx context.Context, post *model.Post, interestedUserID string) {
	owner, err := s.repos.Users.GetByID(ctx, post.UserID)
	if err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", post.UserID).Msg("failed to load post owner for interest email")
		return
	}
	interested, err := s.repos.Users.GetByID(ctx, interestedUserID)
	if err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", interestedUserID).Msg("failed to load interested user for interest email")
		return
	}

	task, err := job.NewInterestEmailTask(job.InterestEmailPayload{
		To:             owner.Email,
		OwnerFirstName: owner.FirstName,
		InterestedName: interested.FirstName + " " + interested.LastName,
		PostTitle:      post.Title,
	})
	if err != nil {
		s.server.Logger.Error().Err(err).Msg("failed to build interest email task")
		return
	}
	if _, err := s.server.Job.Client.Enqueue(task); err != nil {
		s.server.Logger.Error().Err(err).Msg("failed to enqueue interest email")
	}
}
