package audit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*model.AuditLog
	failing bool
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("write refused")
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListByResource(_ context.Context, resourceType string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AuditLog
	for _, e := range r.entries {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.AuditLog
	var deleted int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

func newTestService() (*Service, *fakeAuditRepo) {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := &fakeAuditRepo{}
	return NewService(repo, log), repo
}

func TestListByResourceIsDoctorOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	doctor := access.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	patient := access.Actor{ID: uuid.New(), Role: model.RolePatient}
	recordID := uuid.New()

	svc.Log(ctx, doctor, "read", "medical_record", recordID, nil)
	svc.Log(ctx, patient, "read", "medical_record", recordID, nil)
	svc.Log(ctx, doctor, "read", "prescription", uuid.New(), nil)

	trail, err := svc.ListByResource(ctx, doctor, "medical_record", recordID)
	require.NoError(t, err)
	assert.Len(t, trail, 2)

	_, err = svc.ListByResource(ctx, patient, "medical_record", recordID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestLogSwallowsWriteFailures(t *testing.T) {
	svc, repo := newTestService()
	repo.failing = true

	// must not panic or surface the error
	svc.Log(context.Background(), access.Actor{ID: uuid.New(), Role: model.RoleDoctor},
		"read", "medical_record", uuid.New(), nil)
	assert.Empty(t, repo.entries)
}
