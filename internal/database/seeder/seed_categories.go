package seeder

import (
	"context"
	"fmt"

	"skillswap/internal/database"
)

// CategoriesSeeder installs the starter catalog taxonomy. Inserts are
// keyed on the unique category name, so re-running is a no-op.
type CategoriesSeeder struct{}

func (CategoriesSeeder) Name() string { return "categories" }

func (CategoriesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "categories", "id", "name", "parent_id", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	roots := []string{
		"Technology",
		"Languages",
		"Music",
		"Arts & Crafts",
		"Sports & Fitness",
		"Cooking",
	}
	children := []struct {
		Name   string
		Parent string
	}{
		{Name: "Programming", Parent: "Technology"},
		{Name: "Web Development", Parent: "Technology"},
		{Name: "Data Science", Parent: "Technology"},
		{Name: "English", Parent: "Languages"},
		{Name: "Spanish", Parent: "Languages"},
		{Name: "Guitar", Parent: "Music"},
		{Name: "Piano", Parent: "Music"},
		{Name: "Photography", Parent: "Arts & Crafts"},
		{Name: "Drawing", Parent: "Arts & Crafts"},
		{Name: "Yoga", Parent: "Sports & Fitness"},
		{Name: "Baking", Parent: "Cooking"},
	}

	for _, name := range roots {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO categories (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return err
		}
	}

	for _, c := range children {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO categories (id, name, parent_id)
			 VALUES (gen_random_uuid(), $1, (SELECT id FROM categories WHERE name = $2))
			 ON CONFLICT (name) DO NOTHING`,
			c.Name,
			c.Parent,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
