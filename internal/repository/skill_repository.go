package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `s.id, s.title, s.description, s.owner_id, u.name, s.category_id, s.created_at`

func (r *PostgresSkillRepository) Create(ctx context.Context, s skill.Skill) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, title, description, owner_id, category_id) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Title, s.Description, s.OwnerID, s.CategoryID,
	)
	return err
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+skillColumns+` FROM skills s JOIN users u ON u.id = s.owner_id WHERE s.id = $1`,
		id,
	)
	return scanSkill(row)
}

func (r *PostgresSkillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+skillColumns+` FROM skills s JOIN users u ON u.id = s.owner_id
		 WHERE s.owner_id = $1 ORDER BY s.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) List(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		rows database.Rows
		err  error
	)
	if filter.CategoryID != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+skillColumns+` FROM skills s JOIN users u ON u.id = s.owner_id
			 WHERE s.category_id = $1 ORDER BY s.created_at DESC LIMIT $2 OFFSET $3`,
			*filter.CategoryID, limit, offset,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+skillColumns+` FROM skills s JOIN users u ON u.id = s.owner_id
			 ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset,
		)
	}
	if err != nil {
		return nil, err
	}
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) Update(ctx context.Context, s skill.Skill) error {
	n, err := r.db.Exec(ctx,
		`UPDATE skills SET title = $2, description = $3, category_id = $4 WHERE id = $1`,
		s.ID, s.Title, s.Description, s.CategoryID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return skill.ErrNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return skill.ErrNotFound
	}
	return nil
}

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.OwnerID, &s.OwnerName, &s.CategoryID, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, skill.ErrNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func collectSkills(rows database.Rows) ([]skill.Skill, error) {
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.OwnerID, &s.OwnerName, &s.CategoryID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
