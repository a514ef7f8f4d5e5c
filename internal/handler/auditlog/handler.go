package auditlog

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/service/audit"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

// ListByResource returns the access trail for one resource
func (h *Handler) ListByResource(c *gin.Context) {
	resourceType := c.Query("resource_type")
	if resourceType == "" {
		handler.RespondBadRequest(c, "resource_type is required")
		return
	}

	resourceID, err := uuid.Parse(c.Query("resource_id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid resource ID")
		return
	}

	entries, err := h.service.ListByResource(c.Request.Context(), handler.ActorFromContext(c), resourceType, resourceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, entries)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.ListByResource)
}
