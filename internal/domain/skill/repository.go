package skill

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("skill not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Repository lookups always hydrate OwnerID and OwnerName; the lifecycle
// engine depends on ownership being resolvable from a single GetByID call.
type Repository interface {
	Create(ctx context.Context, s Skill) error
	GetByID(ctx context.Context, id uuid.UUID) (Skill, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Skill, error)
	List(ctx context.Context, filter ListFilter) ([]Skill, error)
	Update(ctx context.Context, s Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListFilter struct {
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

type CategoryRepository interface {
	Create(ctx context.Context, c Category) error
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	ListAll(ctx context.Context) ([]Category, error)
}
