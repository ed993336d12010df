package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/utils"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// dealStore is the slice of the deal repository the service depends on,
// narrowed to an interface so the workflow rules stay testable without a
// database.
type dealStore interface {
	Create(ctx context.Context, ownerID string, postID uuid.UUID, selectedUserID, otpCode string, otpExpiresAt time.Time) (*model.Deal, *model.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Deal, error)
	MarkOTPVerified(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	CompletePayment(ctx context.Context, id uuid.UUID, amountPaid *decimal.Decimal, buyerUpiID string) (*model.Deal, *model.Post, error)
	Decline(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// postGetter covers the cross-entity post lookups the deal and chat services
// make.
type postGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
}

// userGetter resolves recipients for notification emails.
type userGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// taskEnqueuer is the asynq client surface used to queue emails.
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DealService manages the deal workflow: select an interested user, verify
// the handoff with a one-time code, confirm payment.
type DealService struct {
	server *server.Server
	deals  dealStore
	posts  postGetter
	users  userGetter
	tasks  taskEnqueuer
}

// NewDealService constructs a DealService.
func NewDealService(s *server.Server, repos *repository.Repositories) *DealService {
	return &DealService{
		server: s,
		deals:  repos.Deals,
		posts:  repos.Posts,
		users:  repos.Users,
		tasks:  s.Job.Client,
	}
}

// Create makes the deal for a post, selecting one interested user. The
// generated handoff code is returned only to the post owner, who reads it to
// the selected user at the physical handoff. The selected user is notified
// by email.
func (s *DealService) Create(ctx context.Context, ownerID string, postID uuid.UUID, selectedUserID string) (*model.Deal, string, error) {
	otp, err := utils.GenerateOTP(utils.OTPLength)
	if err != nil {
		return nil, "", err
	}
	expiresAt := time.Now().Add(time.Duration(s.server.Config.Deal.OTPTTLMinutes) * time.Minute)

	deal, post, err := s.deals.Create(ctx, ownerID, postID, selectedUserID, otp, expiresAt)
	if err != nil {
		return nil, "", s.mapDealError(err)
	}

	s.enqueueDealEmail(ctx, job.NewDealCreatedEmailTask, deal.SelectedUserID, post.Title)

	return deal, otp, nil
}

// Get returns a deal to one of its parties. The handoff code rides along
// only for the owner of a still-pending deal, so a lost code can be re-read.
func (s *DealService) Get(ctx context.Context, callerID string, dealID uuid.UUID) (*model.Deal, string, error) {
	deal, post, err := s.getWithPost(ctx, dealID)
	if err != nil {
		return nil, "", err
	}

	if callerID != post.UserID && callerID != deal.SelectedUserID {
		return nil, "", errs.NewForbiddenError("You are not a party to this deal", false)
	}

	otp := ""
	if callerID == post.UserID && deal.Status == model.DealStatusPending && !deal.OTPUsed {
		otp = deal.OTPCode
	}

	return deal, otp, nil
}

// ListMine returns the caller's deals on both sides of the table.
func (s *DealService) ListMine(ctx context.Context, userID string) ([]*model.Deal, error) {
	return s.deals.ListForUser(ctx, userID)
}

// VerifyOTP is called by the selected user at the handoff, with the code the
// owner reads out. Success moves the deal PENDING -> ACTIVE and burns the
// code; a failed attempt never does. The comparison is constant time; brute
// force is additionally slowed by the route's rate limit.
func (s *DealService) VerifyOTP(ctx context.Context, callerID string, dealID uuid.UUID, code string) (*model.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if callerID != deal.SelectedUserID {
		return nil, errs.NewForbiddenError("Only the selected user can verify the handoff", false)
	}
	if deal.Status != model.DealStatusPending || deal.OTPUsed {
		return nil, errs.NewBadRequestError("This deal is not awaiting handoff verification", false, nil, nil, nil)
	}
	if utils.OTPExpired(deal.OTPExpiresAt, time.Now()) {
		errCode := "OTP_EXPIRED"
		return nil, errs.NewBadRequestError("The handoff code has expired", true, &errCode, nil, nil)
	}

	if subtle.ConstantTimeCompare([]byte(deal.OTPCode), []byte(code)) != 1 {
		errCode := "INVALID_OTP"
		return nil, errs.NewBadRequestError("Incorrect handoff code", true, &errCode, nil, nil)
	}

	verified, err := s.deals.MarkOTPVerified(ctx, dealID)
	if err != nil {
		return nil, s.mapDealError(err)
	}
	return verified, nil
}

// CompletePayment is called by the post owner once the UPI transfer has
// arrived. It moves the deal ACTIVE -> COMPLETED, records the payment
// details, marks the post fulfilled, and sends the confirmation to both
// parties.
func (s *DealService) CompletePayment(ctx context.Context, callerID string, dealID uuid.UUID, amountPaid *decimal.Decimal, buyerUpiID string) (*model.Deal, error) {
	deal, post, err := s.getWithPost(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if callerID != post.UserID {
		return nil, errs.NewForbiddenError("Only the post owner can confirm payment", false)
	}

	completed, post, err := s.deals.CompletePayment(ctx, dealID, amountPaid, buyerUpiID)
	if err != nil {
		return nil, s.mapDealError(err)
	}

	s.enqueueDealEmail(ctx, job.NewDealCompletedEmailTask, post.UserID, post.Title)
	s.enqueueDealEmail(ctx, job.NewDealCompletedEmailTask, deal.SelectedUserID, post.Title)

	return completed, nil
}

// Decline lets the selected user back out of a pending deal.
func (s *DealService) Decline(ctx context.Context, callerID string, dealID uuid.UUID) (*model.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if callerID != deal.SelectedUserID {
		return nil, errs.NewForbiddenError("Only the selected user can decline the deal", false)
	}

	declined, err := s.deals.Decline(ctx, dealID)
	if err != nil {
		return nil, s.mapDealError(err)
	}
	return declined, nil
}

// Delete lets the post owner cancel a pending deal entirely, reopening the
// post for a different selection. Verified or finished deals cannot be
// cancelled.
func (s *DealService) Delete(ctx context.Context, callerID string, dealID uuid.UUID) error {
	_, post, err := s.getWithPost(ctx, dealID)
	if err != nil {
		return err
	}

	if callerID != post.UserID {
		return errs.NewForbiddenError("Only the post owner can cancel the deal", false)
	}

	return s.mapDealError(s.deals.Delete(ctx, dealID))
}

func (s *DealService) getWithPost(ctx context.Context, dealID uuid.UUID) (*model.Deal, *model.Post, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.posts.GetByID(ctx, deal.PostID)
	if err != nil {
		return nil, nil, err
	}
	return deal, post, nil
}

// mapDealError translates repository sentinels into client-facing errors.
// Anything unrecognized passes through to the sqlerr funnel.
func (s *DealService) mapDealError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPostNotOwned):
		return errs.NewNotFoundError("Post not found", false, nil)
	case errors.Is(err, repository.ErrPostNotActive):
		return errs.NewBadRequestError("This post is no longer active", false, nil, nil, nil)
	case errors.Is(err, repository.ErrNoInterest):
		return errs.NewBadRequestError("The selected user has not registered interest in this post", false, nil, nil, nil)
	case errors.Is(err, repository.ErrDealExists):
		code := "DEAL_ALREADY_EXISTS"
		return errs.NewBadRequestError("A deal already exists for this post", true, &code, nil, nil)
	case errors.Is(err, repository.ErrOTPNotVerified):
		return errs.NewBadRequestError("The handoff must be verified before payment", false, nil, nil, nil)
	case errors.Is(err, repository.ErrInvalidTransition):
		return errs.NewBadRequestError("The deal is not in a state that allows this", false, nil, nil, nil)
	default:
		return err
	}
}

func (s *DealService) enqueueDealEmail(ctx context.Context, build func(job.DealEmailPayload) (*asynq.Task, error), userID, postTitle string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to load user for deal email")
		return
	}

	task, err := build(job.DealEmailPayload{
		To:        user.Email,
		FirstName: user.FirstName,
		PostTitle: postTitle,
	})
	if err != nil {
		s.server.Logger.Error().Err(err).Msg("failed to build deal email task")
		return
	}
	if _, err := s.tasks.Enqueue(task); err != nil {
		s.server.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to enqueue deal email")
	}
}
