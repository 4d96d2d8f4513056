package message

import (
	"context"
	"errors"
	"strings"

	"skillswap/internal/domain/user"
	"skillswap/internal/notify"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

const maxTextLength = 2000

type Dispatcher interface {
	NotifyNewMessage(room string, m notify.Message)
}

// Service relays short user-to-user messages over the push channel.
// Nothing is persisted; an offline receiver simply misses the message.
type Service struct {
	users    user.Repository
	notifier Dispatcher
}

func NewService(users user.Repository, notifier Dispatcher) *Service {
	return &Service{users: users, notifier: notifier}
}

func (s *Service) Send(ctx context.Context, senderID, receiverID uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTextLength {
		return ErrInvalidInput
	}
	if senderID == receiverID {
		return ErrInvalidInput
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}

	s.notifier.NotifyNewMessage(receiver.ID.String(), notify.Message{
		Text:     text,
		Sender:   sender.Name,
		Receiver: receiver.Name,
	})
	return nil
}
