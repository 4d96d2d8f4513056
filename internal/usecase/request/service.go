package request

import (
	"context"
	"errors"
	"fmt"

	"skillswap/internal/domain/request"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrRequestNotFound = errors.New("exchange request not found")
	ErrNotSkillOwner   = errors.New("cannot offer a skill you do not own")
	ErrNotReceiver     = errors.New("only the receiver may update this request")
	ErrNotSender       = errors.New("only the sender may delete this request")
	ErrCorruptRequest  = errors.New("exchange request has no sender")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
)

// Actor is the authenticated identity performing a lifecycle operation,
// as decoded from the access token.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// Patch carries the mutable fields of an update; nil means "not supplied".
type Patch struct {
	Status *request.Status
	IsRead *bool
}

// Dispatcher is the notification boundary. Implementations must not block
// and must never return delivery failures into the lifecycle flow.
type Dispatcher interface {
	NotifyNewRequest(r request.ExchangeRequest)
	NotifyUpdateRequest(r request.ExchangeRequest)
}

type Service struct {
	requests request.Repository
	skills   skill.Repository
	users    user.Repository
	notifier Dispatcher
}

func NewService(requests request.Repository, skills skill.Repository, users user.Repository, notifier Dispatcher) *Service {
	return &Service{requests: requests, skills: skills, users: users, notifier: notifier}
}

// Create validates a new exchange proposal and persists it with status
// PENDING. The receiver is derived from the requested skill's owner;
// ownership of the offered skill is checked once, here, and never again.
func (s *Service) Create(ctx context.Context, senderID, offeredSkillID, requestedSkillID uuid.UUID) (request.ExchangeRequest, error) {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return request.ExchangeRequest{}, fmt.Errorf("%w: sender %s", ErrUserNotFound, senderID)
		}
		return request.ExchangeRequest{}, ErrInternal
	}

	offered, offeredErr := s.skills.GetByID(ctx, offeredSkillID)
	requested, requestedErr := s.skills.GetByID(ctx, requestedSkillID)
	if err := missingSkillsError(offeredErr, requestedErr); err != nil {
		return request.ExchangeRequest{}, err
	}

	if offered.OwnerID != sender.ID {
		return request.ExchangeRequest{}, ErrNotSkillOwner
	}

	req := request.ExchangeRequest{
		ID:       uuid.New(),
		Sender:   &request.Participant{ID: sender.ID, Name: sender.Name},
		Receiver: &request.Participant{ID: requested.OwnerID, Name: requested.OwnerName},
		OfferedSkill: request.SkillRef{
			ID: offered.ID, Title: offered.Title, OwnerID: offered.OwnerID,
		},
		RequestedSkill: request.SkillRef{
			ID: requested.ID, Title: requested.Title, OwnerID: requested.OwnerID,
		},
		Status: request.StatusPending,
		IsRead: false,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return request.ExchangeRequest{}, ErrInternal
	}

	created, err := s.requests.GetByID(ctx, req.ID)
	if err != nil {
		return request.ExchangeRequest{}, ErrInternal
	}

	s.notifier.NotifyNewRequest(created)
	return created, nil
}

// Incoming lists active requests addressed to the user, newest first.
func (s *Service) Incoming(ctx context.Context, userID uuid.UUID) ([]request.ExchangeRequest, error) {
	items, err := s.requests.ListByReceiver(ctx, userID, request.ActiveStatuses)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// Outgoing lists active requests initiated by the user, newest first.
func (s *Service) Outgoing(ctx context.Context, userID uuid.UUID) ([]request.ExchangeRequest, error) {
	items, err := s.requests.ListBySender(ctx, userID, request.ActiveStatuses)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// Update applies the supplied patch fields. Only the receiver or an admin
// may act. Every successful update marks the request read, whether or not
// the patch asked for it.
func (s *Service) Update(ctx context.Context, requestID uuid.UUID, patch Patch, actor Actor) (request.ExchangeRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return request.ExchangeRequest{}, ErrRequestNotFound
		}
		return request.ExchangeRequest{}, ErrInternal
	}

	isReceiver := req.Receiver != nil && req.Receiver.ID == actor.ID
	if !isReceiver && !actor.Role.IsAdmin() {
		return request.ExchangeRequest{}, ErrNotReceiver
	}

	status := req.Status
	if patch.Status != nil {
		next := *patch.Status
		if !next.Valid() {
			return request.ExchangeRequest{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(next))
		}
		if !req.Status.CanTransitionTo(next) {
			return request.ExchangeRequest{}, fmt.Errorf("%w: %s -> %s", request.ErrInvalidTransition, req.Status, next)
		}
		status = next
	}

	if err := s.requests.Update(ctx, req.ID, status, true); err != nil {
		return request.ExchangeRequest{}, ErrInternal
	}

	// Re-read so the caller sees the persisted row, update timestamp
	// included, not the pre-write snapshot.
	updated, err := s.requests.GetByID(ctx, req.ID)
	if err != nil {
		return request.ExchangeRequest{}, ErrInternal
	}

	s.notifier.NotifyUpdateRequest(updated)
	return updated, nil
}

// Remove deletes a request on behalf of its sender or an admin and returns
// the deleted record. A request with no resolvable sender is a corrupt row
// and is rejected rather than deleted.
func (s *Service) Remove(ctx context.Context, actorID, requestID uuid.UUID) (request.ExchangeRequest, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return request.ExchangeRequest{}, fmt.Errorf("%w: actor %s", ErrUserNotFound, actorID)
		}
		return request.ExchangeRequest{}, ErrInternal
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return request.ExchangeRequest{}, ErrRequestNotFound
		}
		return request.ExchangeRequest{}, ErrInternal
	}

	if req.Sender == nil {
		return request.ExchangeRequest{}, ErrCorruptRequest
	}
	if req.Sender.ID != actor.ID && !actor.Role.IsAdmin() {
		return request.ExchangeRequest{}, ErrNotSender
	}

	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return request.ExchangeRequest{}, ErrInternal
	}
	return req, nil
}

func missingSkillsError(offeredErr, requestedErr error) error {
	offeredMissing := errors.Is(offeredErr, skill.ErrNotFound)
	requestedMissing := errors.Is(requestedErr, skill.ErrNotFound)

	switch {
	case offeredMissing && requestedMissing:
		return fmt.Errorf("%w: offered and requested skills", ErrSkillNotFound)
	case offeredMissing:
		return fmt.Errorf("%w: offered skill", ErrSkillNotFound)
	case requestedMissing:
		return fmt.Errorf("%w: requested skill", ErrSkillNotFound)
	case offeredErr != nil || requestedErr != nil:
		return ErrInternal
	}
	return nil
}
