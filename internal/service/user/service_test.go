package user

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeUserRepo) List(_ context.Context, role string) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *model.User) {
	t.Helper()
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	patient := &model.User{Username: "asha", Role: model.RolePatient, FullName: "Asha"}
	require.NoError(t, repo.Create(context.Background(), patient))
	return NewService(repo), patient
}

func TestUpdateProfileImageRequiresDataURL(t *testing.T) {
	svc, patient := newTestService(t)
	actor := access.Actor{ID: patient.ID, Role: model.RolePatient}

	bogus := "https://example.com/avatar.png"
	_, err := svc.Update(context.Background(), actor, patient.ID, &model.UpdateUserRequest{ProfileImage: &bogus})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)

	image := "data:image/png;base64,iVBORw0KGgo="
	updated, err := svc.Update(context.Background(), actor, patient.ID, &model.UpdateUserRequest{ProfileImage: &image})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfileImage)
	assert.Equal(t, image, *updated.ProfileImage)
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	svc, patient := newTestService(t)

	name := "Someone Else"
	stranger := access.Actor{ID: uuid.New(), Role: model.RolePatient}
	_, err := svc.Update(context.Background(), stranger, patient.ID, &model.UpdateUserRequest{FullName: &name})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}
