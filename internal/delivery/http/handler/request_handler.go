package handler

import (
	"errors"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/domain/request"
	"skillswap/internal/pkg/response"
	requestuc "skillswap/internal/usecase/request"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RequestHandler struct {
	uc *requestuc.Service
}

type createRequestRequest struct {
	OfferedSkillID   uuid.UUID `json:"offered_skill_id"`
	RequestedSkillID uuid.UUID `json:"requested_skill_id"`
}

type updateRequestRequest struct {
	Status *string `json:"status"`
	IsRead *bool   `json:"is_read"`
}

func NewRequestHandler(uc *requestuc.Service) *RequestHandler {
	return &RequestHandler{uc: uc}
}

func (h *RequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/requests")
	grp.Post("/", h.Create)
	grp.Get("/incoming", h.Incoming)
	grp.Get("/outgoing", h.Outgoing)
	grp.Patch("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}

func (h *RequestHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.OfferedSkillID == uuid.Nil || req.RequestedSkillID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Both skill ids are required", nil, nil)
	}

	created, err := h.uc.Create(c.Context(), userID, req.OfferedSkillID, req.RequestedSkillID)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, toRequestResponse(created))
}

func (h *RequestHandler) Incoming(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.Incoming(c.Context(), userID)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toRequestResponses(items))
}

func (h *RequestHandler) Outgoing(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.Outgoing(c.Context(), userID)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toRequestResponses(items))
}

func (h *RequestHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req updateRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	patch := requestuc.Patch{IsRead: req.IsRead}
	if req.Status != nil {
		status := request.Status(*req.Status)
		patch.Status = &status
	}

	actor := requestuc.Actor{ID: userID, Role: middleware.RoleFromCtx(c)}
	updated, err := h.uc.Update(c.Context(), id, patch, actor)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toRequestResponse(updated))
}

func (h *RequestHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	removed, err := h.uc.Remove(c.Context(), userID, id)
	if err != nil {
		return mapRequestUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toRequestResponse(removed))
}

func mapRequestUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, requestuc.ErrUserNotFound),
		errors.Is(err, requestuc.ErrSkillNotFound),
		errors.Is(err, requestuc.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, requestuc.ErrNotSkillOwner),
		errors.Is(err, requestuc.ErrNotReceiver):
		return middleware.NewAppError(fiber.StatusUnauthorized, err.Error(), nil, err)
	case errors.Is(err, requestuc.ErrNotSender):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case errors.Is(err, requestuc.ErrCorruptRequest),
		errors.Is(err, requestuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, request.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func toRequestResponse(r request.ExchangeRequest) dto.ExchangeRequestResponse {
	resp := dto.ExchangeRequestResponse{
		ID:             r.ID,
		OfferedSkill:   dto.SkillRefResponse{ID: r.OfferedSkill.ID, Title: r.OfferedSkill.Title},
		RequestedSkill: dto.SkillRefResponse{ID: r.RequestedSkill.ID, Title: r.RequestedSkill.Title},
		Status:         string(r.Status),
		IsRead:         r.IsRead,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Sender != nil {
		resp.Sender = &dto.ParticipantResponse{ID: r.Sender.ID, Name: r.Sender.Name}
	}
	if r.Receiver != nil {
		resp.Receiver = &dto.ParticipantResponse{ID: r.Receiver.ID, Name: r.Receiver.Name}
	}
	return resp
}

func toRequestResponses(items []request.ExchangeRequest) []dto.ExchangeRequestResponse {
	out := make([]dto.ExchangeRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRequestResponse(r))
	}
	return out
}
