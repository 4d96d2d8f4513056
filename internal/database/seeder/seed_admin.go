package seeder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"skillswap/internal/database"

	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder creates the initial admin account from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. When either variable is unset the seed is skipped,
// so production deployments opt in explicitly.
type AdminSeeder struct{}

func (AdminSeeder) Name() string { return "admin_user" }

func (AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	name := strings.TrimSpace(os.Getenv("SEED_ADMIN_NAME"))
	if name == "" {
		name = "Administrator"
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, role)
		 VALUES (gen_random_uuid(), $1, $2, $3, 'admin')
		 ON CONFLICT (email) DO UPDATE SET role = 'admin'`,
		name,
		email,
		string(hash),
	)
	return err
}
