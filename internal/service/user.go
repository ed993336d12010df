package service

import (
	"context"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// UserService manages local user records mirrored from Clerk.
type UserService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewUserService constructs a UserService.
func NewUserService(s *server.Server, repos *repository.Repositories) *UserService {
	return &UserService{server: s, repos: repos}
}

// Sync pulls the caller's profile from Clerk and upserts the local row.
// Clerk owns email, names, and avatar; sync refreshes them. First sync
// enqueues the welcome email.
func (s *UserService) Sync(ctx context.Context, userID string) (*model.User, error) {
	clerkUser, err := clerkuser.Get(ctx, userID)
	if err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch user from clerk")
		return nil, errs.NewUnauthorizedError("Could not verify account", false)
	}

	email := primaryEmail(clerkUser)
	if email == "" {
		return nil, errs.NewBadRequestError("Account has no email address", false, nil, nil, nil)
	}

	user, inserted, err := s.repos.Users.Upsert(ctx, &model.User{
		ID:        userID,
		Email:     email,
		FirstName: stringValue(clerkUser.FirstName),
		LastName:  stringValue(clerkUser.LastName),
		ImageURL:  stringValue(clerkUser.ImageURL),
	})
	if err != nil {
		return nil, err
	}

	if inserted {
		s.enqueueWelcomeEmail(user)
	}

	return user, nil
}

// Me returns the caller's local profile.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.repos.Users.GetByID(ctx, userID)
}

// UpdateProfile applies the profile fields the caller provided.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd repository.ProfileUpdate) (*model.User, error) {
	return s.repos.Users.UpdateProfile(ctx, userID, upd)
}

func (s *UserService) enqueueWelcomeEmail(user *model.User) {
	task, err := job.NewWelcomeEmailTask(user.Email, user.FirstName)
	if err != nil {
		s.server.Logger.Error().Err(err).Msg("failed to build welcome email task")
		return
	}
	if _, err := s.server.Job.Client.Enqueue(task); err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to enqueue welcome email")
	}
}

func primaryEmail(u *clerk.User) string {
	if u.PrimaryEmailAddressID != nil {
		for _, addr := range u.EmailAddresses {
			if addr.ID == *u.PrimaryEmailAddressID {
				return addr.EmailAddress
			}
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
