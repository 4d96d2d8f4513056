package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin treats any value other than RoleAdmin as a regular user,
// including an empty role on a token that predates the role claim.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
