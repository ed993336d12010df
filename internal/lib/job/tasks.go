package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names stored in Redis; Asynq routes on these strings.
const (
	TaskWelcome       = "email:welcome"
	TaskInterest      = "email:interest"
	TaskDealCreated   = "email:deal_created"
	TaskDealCompleted = "email:deal_completed"
	TaskDealSweep     = "deal:sweep"
)

// WelcomeEmailPayload is the payload for the welcome email task.
type WelcomeEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
}

// NewWelcomeEmailTask builds the welcome email task.
func NewWelcomeEmailTask(to, firstName string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:        to,
		FirstName: firstName,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// InterestEmailPayload notifies a post owner about a new interest.
type InterestEmailPayload struct {
	To             string `json:"to"`
	OwnerFirstName string `json:"owner_first_name"`
	InterestedName string `json:"interested_name"`
	PostTitle      string `json:"post_title"`
}

// NewInterestEmailTask builds the interest notification task.
func NewInterestEmailTask(p InterestEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskInterest,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// DealEmailPayload is shared by the deal-created and deal-completed tasks.
type DealEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
	PostTitle string `json:"post_title"`
}

// NewDealCreatedEmailTask builds the selected-user notification task. Deal
// mail rides the critical queue: the selected user is waiting on it.
func NewDealCreatedEmailTask(p DealEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDealCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewDealCompletedEmailTask builds the completion confirmation task.
func NewDealCompletedEmailTask(p DealEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDealCompleted,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewDealSweepTask builds the periodic stale-deal sweep task.
func NewDealSweepTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskDealSweep,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue("low"),
		asynq.Timeout(2*time.Minute),
	), nil
}
