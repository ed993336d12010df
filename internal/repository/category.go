package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// CategoryRepository persists post categories.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

const categoryColumns = `id, name, description, image_url, created_at`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:categories: %w", err)
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a category. Duplicate names hit categories_name_key.
func (r *CategoryRepository) Create(ctx context.Context, name, description, imageURL string) (*model.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, image_url)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, description, imageURL,
	)
	return scanCategory(row)
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
