package dto

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SkillRefResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ExchangeRequestResponse struct {
	ID             uuid.UUID            `json:"id"`
	Sender         *ParticipantResponse `json:"sender"`
	Receiver       *ParticipantResponse `json:"receiver"`
	OfferedSkill   SkillRefResponse     `json:"offered_skill"`
	RequestedSkill SkillRefResponse     `json:"requested_skill"`
	Status         string               `json:"status"`
	IsRead         bool                 `json:"is_read"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
