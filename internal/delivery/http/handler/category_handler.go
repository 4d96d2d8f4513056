package handler

import (
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	ucskill "skillswap/internal/usecase/skill"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	uc *ucskill.Service
}

type createCategoryRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func NewCategoryHandler(uc *ucskill.Service) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// RegisterPublicRoutes exposes the category tree without authentication.
func (h *CategoryHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/categories", h.List)
}

func (h *CategoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/categories", h.Create)
}

func (h *CategoryHandler) List(c fiber.Ctx) error {
	tree, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, tree)
}

func (h *CategoryHandler) Create(c fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateCategory(c.Context(), middleware.RoleFromCtx(c), req.Name, req.ParentID)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, created)
}
