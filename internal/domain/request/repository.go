package request

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("exchange request not found")

// Repository lookups hydrate sender, receiver and both skill refs. A row
// whose sender no longer resolves comes back with Sender == nil rather
// than an error; the lifecycle engine decides how to treat that.
type Repository interface {
	Create(ctx context.Context, r ExchangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (ExchangeRequest, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, statuses []Status) ([]ExchangeRequest, error)
	ListBySender(ctx context.Context, senderID uuid.UUID, statuses []Status) ([]ExchangeRequest, error)
	Update(ctx context.Context, id uuid.UUID, status Status, isRead bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
