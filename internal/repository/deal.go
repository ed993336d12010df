package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// DealRepository persists deals. The state-changing methods run inside
// transactions with row locks so concurrent requests cannot double-create or
// double-complete a deal.
type DealRepository struct {
	pool *pgxpool.Pool
}

const dealColumns = `id, post_id, selected_user_id, status, otp_code, otp_used, otp_expires_at,
	payment_status, buyer_upi_id, amount_paid, completed_at, created_at, updated_at`

func scanDeal(row pgx.Row) (*model.Deal, error) {
	var (
		d      model.Deal
		amount decimal.NullDecimal
	)

	err := row.Scan(
		&d.ID, &d.PostID, &d.SelectedUserID, &d.Status, &d.OTPCode, &d.OTPUsed,
		&d.OTPExpiresAt, &d.PaymentStatus, &d.BuyerUpiID, &amount, &d.CompletedAt,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:deals: %w", err)
		}
		return nil, err
	}

	if amount.Valid {
		d.AmountPaid = &amount.Decimal
	}
	return &d, nil
}

// Create makes the deal for a post, selecting one interested user. It locks
// the post row for the duration so two concurrent selections serialize; the
// loser then fails the existence check (or, if it races past, the
// deals_post_id_key constraint).
//
// The post is returned alongside the deal because callers notify by title.
func (r *DealRepository) Create(ctx context.Context, ownerID string, postID uuid.UUID, selectedUserID, otpCode string, otpExpiresAt time.Time) (*model.Deal, *model.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	post, err := scanPost(tx.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, postID))
	if err != nil {
		return nil, nil, err
	}

	if post.UserID != ownerID {
		return nil, nil, ErrPostNotOwned
	}
	if post.Status != model.PostStatusActive {
		return nil, nil, ErrPostNotActive
	}

	var hasInterest bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interests WHERE post_id = $1 AND user_id = $2)`,
		postID, selectedUserID,
	).Scan(&hasInterest)
	if err != nil {
		return nil, nil, err
	}
	if !hasInterest {
		return nil, nil, ErrNoInterest
	}

	var dealExists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deals WHERE post_id = $1)`, postID,
	).Scan(&dealExists)
	if err != nil {
		return nil, nil, err
	}
	if dealExists {
		return nil, nil, ErrDealExists
	}

	deal, err := scanDeal(tx.QueryRow(ctx, `
		INSERT INTO deals (post_id, selected_user_id, otp_code, otp_expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+dealColumns,
		postID, selectedUserID, otpCode, otpExpiresAt,
	))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return deal, post, nil
}

// GetByID fetches one deal.
func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	return scanDeal(row)
}

// ListForUser returns deals the user is party to, either as post owner or as
// the selected user, newest first.
func (r *DealRepository) ListForUser(ctx context.Context, userID string) ([]*model.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.post_id, d.selected_user_id, d.status, d.otp_code, d.otp_used,
			d.otp_expires_at, d.payment_status, d.buyer_upi_id, d.amount_paid,
			d.completed_at, d.created_at, d.updated_at
		FROM deals d
		JOIN posts p ON p.id = d.post_id
		WHERE d.selected_user_id = $1 OR p.user_id = $1
		ORDER BY d.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]*model.Deal, 0)
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// MarkOTPVerified moves a deal PENDING -> ACTIVE and burns the code. The
// conditions are in the WHERE clause, so a concurrent duplicate verify
// updates zero rows and reports ErrInvalidTransition.
func (r *DealRepository) MarkOTPVerified(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE deals
		SET status = $2, otp_used = true, updated_at = now()
		WHERE id = $1 AND status = $3 AND otp_used = false
		RETURNING `+dealColumns,
		id, model.DealStatusActive, model.DealStatusPending,
	)

	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return deal, nil
}

// CompletePayment moves a deal ACTIVE -> COMPLETED, records the payment
// details, and marks the post fulfilled, all in one transaction. The post is
// returned so callers can notify by title.
func (r *DealRepository) CompletePayment(ctx context.Context, id uuid.UUID, amountPaid *decimal.Decimal, buyerUpiID string) (*model.Deal, *model.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	deal, err := scanDeal(tx.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}

	if !deal.OTPUsed {
		return nil, nil, ErrOTPNotVerified
	}
	if !deal.Status.CanTransition(model.DealStatusCompleted) {
		return nil, nil, ErrInvalidTransition
	}

	var amount decimal.NullDecimal
	if amountPaid != nil {
		amount = decimal.NullDecimal{Decimal: *amountPaid, Valid: true}
	}

	deal, err = scanDeal(tx.QueryRow(ctx, `
		UPDATE deals
		SET status = $2, payment_status = $3, amount_paid = $4, buyer_upi_id = $5,
			completed_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+dealColumns,
		id, model.DealStatusCompleted, model.PaymentStatusReceived, amount, buyerUpiID,
	))
	if err != nil {
		return nil, nil, err
	}

	post, err := scanPost(tx.QueryRow(ctx, `
		UPDATE posts SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns,
		deal.PostID, model.PostStatusFulfilled,
	))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return deal, post, nil
}

// Decline moves a deal PENDING -> DECLINED.
func (r *DealRepository) Decline(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE deals
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING `+dealColumns,
		id, model.DealStatusDeclined, model.DealStatusPending,
	)

	deal, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return deal, nil
}

// Delete removes a pending deal entirely, reopening the post for selection.
func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM deals WHERE id = $1 AND status = $2`, id, model.DealStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
