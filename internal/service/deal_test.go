package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

type dealRepoStub struct {
	deal *model.Deal
	post *model.Post

	markCalls     int
	completeCalls int
	declineCalls  int
	deleteCalls   int
}

func (s *dealRepoStub) Create(_ context.Context, _ string, _ uuid.UUID, _, _ string, _ time.Time) (*model.Deal, *model.Post, error) {
	return s.deal, s.post, nil
}

func (s *dealRepoStub) GetByID(_ context.Context, _ uuid.UUID) (*model.Deal, error) {
	return s.deal, nil
}

func (s *dealRepoStub) ListForUser(_ context.Context, _ string) ([]*model.Deal, error) {
	return []*model.Deal{s.deal}, nil
}

func (s *dealRepoStub) MarkOTPVerified(_ context.Context, _ uuid.UUID) (*model.Deal, error) {
	s.markCalls++
	verified := *s.deal
	verified.Status = model.DealStatusActive
	verified.OTPUsed = true
	return &verified, nil
}

func (s *dealRepoStub) CompletePayment(_ context.Context, _ uuid.UUID, _ *decimal.Decimal, _ string) (*model.Deal, *model.Post, error) {
	s.completeCalls++
	completed := *s.deal
	completed.Status = model.DealStatusCompleted
	completed.PaymentStatus = model.PaymentStatusReceived
	return &completed, s.post, nil
}

func (s *dealRepoStub) Decline(_ context.Context, _ uuid.UUID) (*model.Deal, error) {
	s.declineCalls++
	declined := *s.deal
	declined.Status = model.DealStatusDeclined
	return &declined, nil
}

func (s *dealRepoStub) Delete(_ context.Context, _ uuid.UUID) error {
	s.deleteCalls++
	return nil
}

type postRepoStub struct{ post *model.Post }

func (s *postRepoStub) GetByID(_ context.Context, _ uuid.UUID) (*model.Post, error) {
	return s.post, nil
}

type userRepoStub struct{ users map[string]*model.User }

func (s *userRepoStub) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

type taskRecorder struct{ tasks []*asynq.Task }

func (r *taskRecorder) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{}, nil
}

const (
	ownerID    = "user_owner"
	selectedID = "user_selected"
)

func pendingDealFixture() (*model.Deal, *model.Post) {
	postID := uuid.New()
	deal := &model.Deal{
		ID:             uuid.New(),
		PostID:         postID,
		SelectedUserID: selectedID,
		Status:         model.DealStatusPending,
		OTPCode:        "123456",
		OTPExpiresAt:   time.Now().Add(10 * time.Minute),
		PaymentStatus:  model.PaymentStatusPending,
	}
	post := &model.Post{
		ID:     postID,
		Title:  "Calculus textbook",
		UserID: ownerID,
		Status: model.PostStatusActive,
	}
	return deal, post
}

func newTestDealService(repo *dealRepoStub) (*DealService, *taskRecorder) {
	log := zerolog.Nop()
	rec := &taskRecorder{}
	svc := &DealService{
		server: &server.Server{Logger: &log},
		deals:  repo,
		posts:  &postRepoStub{post: repo.post},
		users: &userRepoStub{users: map[string]*model.User{
			ownerID:    {ID: ownerID, Email: "owner@campus.edu", FirstName: "Owner"},
			selectedID: {ID: selectedID, Email: "selected@campus.edu", FirstName: "Selected"},
		}},
		tasks: rec,
	}
	return svc, rec
}

func requireHTTPStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	require.Error(t, err)
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, status, httpErr.Status)
	return httpErr
}

func TestVerifyOTPRejectsNonSelectedUser(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	_, err := svc.VerifyOTP(context.Background(), ownerID, deal.ID, "123456")

	requireHTTPStatus(t, err, http.StatusForbidden)
	assert.Zero(t, repo.markCalls)
	assert.False(t, deal.OTPUsed)
}

func TestVerifyOTPWrongCodeLeavesOTPUnused(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	_, err := svc.VerifyOTP(context.Background(), selectedID, deal.ID, "654321")

	httpErr := requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "INVALID_OTP", httpErr.Code)
	assert.Zero(t, repo.markCalls)
	assert.False(t, deal.OTPUsed)
	assert.Equal(t, model.DealStatusPending, deal.Status)
}

func TestVerifyOTPExpiredCodeLeavesOTPUnused(t *testing.T) {
	deal, post := pendingDealFixture()
	deal.OTPExpiresAt = time.Now().Add(-time.Minute)
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	// Even the correct code must be rejected once the expiry has passed.
	_, err := svc.VerifyOTP(context.Background(), selectedID, deal.ID, "123456")

	httpErr := requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "OTP_EXPIRED", httpErr.Code)
	assert.Zero(t, repo.markCalls)
	assert.False(t, deal.OTPUsed)
}

func TestVerifyOTPRejectsNonPendingDeal(t *testing.T) {
	deal, post := pendingDealFixture()
	deal.Status = model.DealStatusActive
	deal.OTPUsed = true
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	_, err := svc.VerifyOTP(context.Background(), selectedID, deal.ID, "123456")

	requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.Zero(t, repo.markCalls)
}

func TestVerifyOTPSuccessActivatesDeal(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	verified, err := svc.VerifyOTP(context.Background(), selectedID, deal.ID, "123456")

	require.NoError(t, err)
	assert.Equal(t, 1, repo.markCalls)
	assert.Equal(t, model.DealStatusActive, verified.Status)
	assert.True(t, verified.OTPUsed)
}

func TestCompletePaymentNotifiesBothParties(t *testing.T) {
	deal, post := pendingDealFixture()
	deal.Status = model.DealStatusActive
	deal.OTPUsed = true
	repo := &dealRepoStub{deal: deal, post: post}
	svc, rec := newTestDealService(repo)

	completed, err := svc.CompletePayment(context.Background(), ownerID, deal.ID, nil, "selected@upi")

	require.NoError(t, err)
	assert.Equal(t, 1, repo.completeCalls)
	assert.Equal(t, model.DealStatusCompleted, completed.Status)

	require.Len(t, rec.tasks, 2)
	recipients := make([]string, 0, 2)
	for _, task := range rec.tasks {
		assert.Equal(t, job.TaskDealCompleted, task.Type())

		var payload job.DealEmailPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		assert.Equal(t, post.Title, payload.PostTitle)
		recipients = append(recipients, payload.To)
	}
	assert.ElementsMatch(t, []string{"owner@campus.edu", "selected@campus.edu"}, recipients)
}

func TestCompletePaymentRejectsNonOwner(t *testing.T) {
	deal, post := pendingDealFixture()
	deal.Status = model.DealStatusActive
	deal.OTPUsed = true
	repo := &dealRepoStub{deal: deal, post: post}
	svc, rec := newTestDealService(repo)

	_, err := svc.CompletePayment(context.Background(), selectedID, deal.ID, nil, "")

	requireHTTPStatus(t, err, http.StatusForbidden)
	assert.Zero(t, repo.completeCalls)
	assert.Empty(t, rec.tasks)
}

func TestDeclineRejectsOwner(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	_, err := svc.Decline(context.Background(), ownerID, deal.ID)

	requireHTTPStatus(t, err, http.StatusForbidden)
	assert.Zero(t, repo.declineCalls)
}

func TestDeleteRejectsSelectedUser(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	err := svc.Delete(context.Background(), selectedID, deal.ID)

	requireHTTPStatus(t, err, http.StatusForbidden)
	assert.Zero(t, repo.deleteCalls)
}

func TestGetExposesOTPToOwnerOnly(t *testing.T) {
	deal, post := pendingDealFixture()
	repo := &dealRepoStub{deal: deal, post: post}
	svc, _ := newTestDealService(repo)

	_, otp, err := svc.Get(context.Background(), ownerID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "123456", otp)

	_, otp, err = svc.Get(context.Background(), selectedID, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, otp)

	_, _, err = svc.Get(context.Background(), "user_stranger", deal.ID)
	requireHTTPStatus(t, err, http.StatusForbidden)
}
