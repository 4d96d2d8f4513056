package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresCategoryRepository struct {
	db database.DB
}

func NewPostgresCategoryRepository(db database.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c skill.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, parent_id) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.ParentID,
	)
	return err
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Category, error) {
	var c skill.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, parent_id, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.Category{}, skill.ErrCategoryNotFound
		}
		return skill.Category{}, err
	}
	return c, nil
}

// ListAll returns parents before children so callers can assemble the
// category tree in a single pass.
func (r *PostgresCategoryRepository) ListAll(ctx context.Context) ([]skill.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, parent_id, created_at FROM categories
		 ORDER BY parent_id NULLS FIRST, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Category, 0)
	for rows.Next() {
		var c skill.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
