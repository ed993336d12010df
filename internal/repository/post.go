package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// PostRepository persists posts (listings and requests).
type PostRepository struct {
	pool *pgxpool.Pool
}

const postColumns = `id, type, title, caption, description, price, price_unit, image_urls,
	location, urgency, status, user_id, category_id, created_at, updated_at`

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		p       model.Post
		price   decimal.NullDecimal
		urgency *string
	)

	err := row.Scan(
		&p.ID, &p.Type, &p.Title, &p.Caption, &p.Description, &price, &p.PriceUnit,
		&p.ImageURLs, &p.Location, &urgency, &p.Status, &p.UserID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:posts: %w", err)
		}
		return nil, err
	}

	if price.Valid {
		p.Price = &price.Decimal
	}
	if urgency != nil {
		u := model.Urgency(*urgency)
		p.Urgency = &u
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*model.Post, error) {
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts a post owned by userID.
func (r *PostRepository) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	var urgency *string
	if p.Urgency != nil {
		s := string(*p.Urgency)
		urgency = &s
	}

	var price decimal.NullDecimal
	if p.Price != nil {
		price = decimal.NullDecimal{Decimal: *p.Price, Valid: true}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (type, title, caption, description, price, price_unit,
			image_urls, location, urgency, user_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+postColumns,
		p.Type, p.Title, p.Caption, p.Description, price, p.PriceUnit,
		p.ImageURLs, p.Location, urgency, p.UserID, p.CategoryID,
	)
	return scanPost(row)
}

// GetByID fetches one post.
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

// ListByType returns active posts of the given type, newest first, optionally
// restricted to one category.
func (r *PostRepository) ListByType(ctx context.Context, postType model.PostType, categoryID *uuid.UUID, limit, offset int) ([]*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE type = $1 AND status = $2`
	args := []any{postType, model.PostStatusActive}

	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListByUser returns all of one user's posts regardless of status, newest
// first.
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// MarkFulfilled flips a post out of the browse feeds. Idempotent.
func (r *PostRepository) MarkFulfilled(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET status = $2, updated_at = now() WHERE id = $1`,
		id, model.PostStatusFulfilled,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:posts: %w", pgx.ErrNoRows)
	}
	return nil
}
