package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextUserRole = "user_role"
)

// ActorFromContext returns the authenticated caller. The auth middleware
// guarantees the keys exist on protected routes.
func ActorFromContext(c *gin.Context) access.Actor {
	actor := access.Actor{}
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			actor.ID = id
		}
	}
	if v, ok := c.Get(ContextUserRole); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}
