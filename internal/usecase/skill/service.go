package skill

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("skill not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNotOwner         = errors.New("not the owner of this skill")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)

const (
	categoryCacheKey = "catalog:categories"
	categoryCacheTTL = 10 * time.Minute
)

// Cache is the slice of the redis wrapper this service needs. A nil cache
// is a valid configuration; everything degrades to direct queries.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type CreateSkillInput struct {
	Title       string
	Description string
	CategoryID  uuid.UUID
}

type UpdateSkillInput struct {
	Title       *string
	Description *string
	CategoryID  *uuid.UUID
}

// CategoryNode is a category with its child categories attached.
type CategoryNode struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Children []CategoryNode `json:"children"`
}

type Service struct {
	skills     skill.Repository
	categories skill.CategoryRepository
	cache      Cache
}

func NewService(skills skill.Repository, categories skill.CategoryRepository, cache Cache) *Service {
	return &Service{skills: skills, categories: categories, cache: cache}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateSkillInput) (skill.Skill, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return skill.Skill{}, ErrInvalidInput
	}

	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, skill.ErrCategoryNotFound) {
			return skill.Skill{}, ErrCategoryNotFound
		}
		return skill.Skill{}, ErrInternal
	}

	sk := skill.Skill{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     ownerID,
		CategoryID:  in.CategoryID,
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		return skill.Skill{}, ErrInternal
	}

	created, err := s.skills.GetByID(ctx, sk.ID)
	if err != nil {
		return skill.Skill{}, ErrInternal
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	sk, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return skill.Skill{}, ErrNotFound
		}
		return skill.Skill{}, ErrInternal
	}
	return sk, nil
}

func (s *Service) List(ctx context.Context, filter skill.ListFilter) ([]skill.Skill, error) {
	items, err := s.skills.List(ctx, filter)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]skill.Skill, error) {
	items, err := s.skills.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// Update lets the owner or an admin change a skill's fields.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID, in UpdateSkillInput) (skill.Skill, error) {
	sk, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return skill.Skill{}, ErrNotFound
		}
		return skill.Skill{}, ErrInternal
	}

	if sk.OwnerID != actorID && !actorRole.IsAdmin() {
		return skill.Skill{}, ErrNotOwner
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return skill.Skill{}, ErrInvalidInput
		}
		sk.Title = title
	}
	if in.Description != nil {
		sk.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, skill.ErrCategoryNotFound) {
				return skill.Skill{}, ErrCategoryNotFound
			}
			return skill.Skill{}, ErrInternal
		}
		sk.CategoryID = *in.CategoryID
	}

	if err := s.skills.Update(ctx, sk); err != nil {
		return skill.Skill{}, ErrInternal
	}
	return sk, nil
}

func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) error {
	sk, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, skill.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	if sk.OwnerID != actorID && !actorRole.IsAdmin() {
		return ErrNotOwner
	}

	if err := s.skills.Delete(ctx, id); err != nil {
		return ErrInternal
	}
	return nil
}

// ListCategories serves the category tree from cache when possible; the
// tree changes rarely and is read on every catalog page.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryNode, error) {
	if s.cache != nil {
		var cached []CategoryNode
		if hit, err := s.cache.GetJSON(ctx, categoryCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	cats, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	tree := buildCategoryTree(cats)

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, categoryCacheKey, tree, categoryCacheTTL)
	}
	return tree, nil
}

// CreateCategory is admin-only and invalidates the cached tree.
func (s *Service) CreateCategory(ctx context.Context, actorRole user.Role, name string, parentID *uuid.UUID) (skill.Category, error) {
	if !actorRole.IsAdmin() {
		return skill.Category{}, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return skill.Category{}, ErrInvalidInput
	}

	if parentID != nil {
		if _, err := s.categories.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, skill.ErrCategoryNotFound) {
				return skill.Category{}, ErrCategoryNotFound
			}
			return skill.Category{}, ErrInternal
		}
	}

	c := skill.Category{ID: uuid.New(), Name: name, ParentID: parentID}
	if err := s.categories.Create(ctx, c); err != nil {
		return skill.Category{}, ErrInternal
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, categoryCacheKey)
	}
	return c, nil
}

func buildCategoryTree(cats []skill.Category) []CategoryNode {
	children := map[uuid.UUID][]skill.Category{}
	var roots []skill.Category
	for _, c := range cats {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	tree := make([]CategoryNode, 0, len(roots))
	for _, root := range roots {
		node := CategoryNode{ID: root.ID, Name: root.Name, Children: []CategoryNode{}}
		for _, child := range children[root.ID] {
			node.Children = append(node.Children, CategoryNode{ID: child.ID, Name: child.Name, Children: []CategoryNode{}})
		}
		tree = append(tree, node)
	}
	return tree
}
