package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// InterestRepository persists expressions of interest in posts.
type InterestRepository struct {
	pool *pgxpool.Pool
}

// Create inserts an interest. Duplicates hit unique_interests_post_user and
// come back as a unique violation.
func (r *InterestRepository) Create(ctx context.Context, postID uuid.UUID, userID, message string) (*model.Interest, error) {
	var i model.Interest
	err := r.pool.QueryRow(ctx, `
		INSERT INTO interests (post_id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, message, created_at`,
		postID, userID, message,
	).Scan(&i.ID, &i.PostID, &i.UserID, &i.Message, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListByPost returns a post's interests with the interested users' profiles,
// oldest first so owners see them in arrival order.
func (r *InterestRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*model.Interest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.post_id, i.user_id, i.message, i.created_at,
			u.id, u.email, u.first_name, u.last_name, u.upi_id, u.image_url, u.created_at, u.updated_at
		FROM interests i
		JOIN users u ON u.id = i.user_id
		WHERE i.post_id = $1
		ORDER BY i.created_at`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interests := make([]*model.Interest, 0)
	for rows.Next() {
		var (
			i model.Interest
			u model.User
		)
		err := rows.Scan(
			&i.ID, &i.PostID, &i.UserID, &i.Message, &i.CreatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.UpiID, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		i.User = &u
		interests = append(interests, &i)
	}
	return interests, rows.Err()
}
