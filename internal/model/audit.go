package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one access to or mutation of protected data
type AuditLog struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ActorID      uuid.UUID `json:"actor_id" db:"actor_id"`
	ActorRole    string    `json:"actor_role" db:"actor_role"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id" db:"resource_id"`
	Detail       *string   `json:"detail" db:"detail"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
