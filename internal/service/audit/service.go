// Package audit records who touched which clinical resource. Writes are
// best-effort: an audit failure is logged but never fails the request.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
)

type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an access. Failures are swallowed after logging.
func (s *Service) Log(ctx context.Context, actor access.Actor, action, resourceType string, resourceID uuid.UUID, detail *string) {
	entry := &model.AuditLog{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log",
			"action", action,
			"resource_type", resourceType,
		)
	}
}

// ListByResource returns the audit trail for one resource; doctors only
func (s *Service) ListByResource(ctx context.Context, actor access.Actor, resourceType string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("", nil)
	}
	return s.repo.ListByResource(ctx, resourceType, resourceID)
}

// Cleanup deletes entries older than the retention window
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteBefore(ctx, cutoff)
}
