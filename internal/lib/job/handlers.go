package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("processing welcome email task")

	if err := j.email.SendWelcomeEmail(p.To, p.FirstName); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("failed to send welcome email")
		return err
	}

	return nil
}

func (j *JobService) handleInterestEmailTask(ctx context.Context, t *asynq.Task) error {
	var p InterestEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal interest email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "interest").
		Str("to", p.To).
		Msg("processing interest email task")

	if err := j.email.SendInterestEmail(p.To, p.OwnerFirstName, p.InterestedName, p.PostTitle); err != nil {
		j.logger.Error().
			Str("type", "interest").
			Str("to", p.To).
			Err(err).
			Msg("failed to send interest email")
		return err
	}

	return nil
}

func (j *JobService) handleDealCreatedEmailTask(ctx context.Context, t *asynq.Task) error {
	var p DealEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal deal created email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "deal_created").
		Str("to", p.To).
		Msg("processing deal created email task")

	if err := j.email.SendDealCreatedEmail(p.To, p.FirstName, p.PostTitle); err != nil {
		j.logger.Error().
			Str("type", "deal_created").
			Str("to", p.To).
			Err(err).
			Msg("failed to send deal created email")
		return err
	}

	return nil
}

func (j *JobService) handleDealCompletedEmailTask(ctx context.Context, t *asynq.Task) error {
	var p DealEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal deal completed email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "deal_completed").
		Str("to", p.To).
		Msg("processing deal completed email task")

	if err := j.email.SendDealCompletedEmail(p.To, p.FirstName, p.PostTitle); err != nil {
		j.logger.Error().
			Str("type", "deal_completed").
			Str("to", p.To).
			Err(err).
			Msg("failed to send deal completed email")
		return err
	}

	return nil
}

// handleDealSweepTask declines pending deals whose OTP expired long enough
// ago that the handoff clearly never happened. The cutoff is configured in
// days; the sweep never touches ACTIVE deals (OTP already verified).
func (j *JobService) handleDealSweepTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().AddDate(0, 0, -j.cfg.Deal.SweepAfterDays)

	tag, err := j.pool.Exec(ctx, `
		UPDATE deals
		SET status = 'DECLINED', updated_at = now()
		WHERE status = 'PENDING' AND otp_used = false AND otp_expires_at < $1`,
		cutoff,
	)
	if err != nil {
		j.logger.Error().Err(err).Msg("deal sweep failed")
		return err
	}

	if tag.RowsAffected() > 0 {
		j.logger.Info().
			Int64("declined", tag.RowsAffected()).
			Time("cutoff", cutoff).
			Msg("deal sweep declined stale pending deals")
	}

	return nil
}
