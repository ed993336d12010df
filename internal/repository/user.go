package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// UserRepository persists users. The primary key is the Clerk user id, so
// sync is an upsert keyed on it.
type UserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, first_name, last_name, upi_id, image_url, created_at, updated_at`

func scanUser(row pgx.Row, extra ...any) (*model.User, error) {
	var u model.User
	dest := []any{&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.UpiID, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:users: %w", err)
		}
		return nil, err
	}
	return &u, nil
}

// Upsert inserts the user or refreshes the Clerk-owned fields on conflict.
// The returned bool is true when the row was newly inserted.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) (*model.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			image_url = EXCLUDED.image_url,
			updated_at = now()
		RETURNING `+userColumns+`, (xmax = 0) AS inserted`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ImageURL,
	)

	var inserted bool
	user, err := scanUser(row, &inserted)
	if err != nil {
		return nil, false, err
	}
	return user, inserted, nil
}

// GetByID fetches a user by their Clerk id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// ProfileUpdate carries the optional profile fields a user can change. Nil
// fields are left untouched.
type ProfileUpdate struct {
	UpiID     *string
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// UpdateProfile applies the non-nil fields of upd. Clerk-owned fields set
// here are still refreshed on the next sync.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*model.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("upi_id", upd.UpiID)
	add("first_name", upd.FirstName)
	add("last_name", upd.LastName)
	add("image_url", upd.ImageURL)

	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), userColumns),
		args...,
	)
	return scanUser(row)
}
