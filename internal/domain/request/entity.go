package request

import (
	"time"

	"github.com/google/uuid"
)

// Participant is the slice of a user an exchange request carries around:
// enough to authorize lifecycle actions and to address notifications.
type Participant struct {
	ID   uuid.UUID
	Name string
}

// SkillRef mirrors Participant for the two skills bound to a request.
type SkillRef struct {
	ID      uuid.UUID
	Title   string
	OwnerID uuid.UUID
}

// ExchangeRequest is a proposal from Sender to swap OfferedSkill (owned by
// Sender) for RequestedSkill (owned by Receiver).
type ExchangeRequest struct {
	ID             uuid.UUID
	Sender         *Participant
	Receiver       *Participant
	OfferedSkill   SkillRef
	RequestedSkill SkillRef
	Status         Status
	IsRead         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
