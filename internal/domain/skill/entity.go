package skill

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          uuid.UUID
	Title       string
	Description string
	OwnerID     uuid.UUID
	OwnerName   string
	CategoryID  uuid.UUID
	CreatedAt   time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
}
