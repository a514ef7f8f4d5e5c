// Package user manages doctor and patient profiles.
package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Get returns one user. Patients may only fetch themselves; doctors may
// fetch anyone.
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.User, error) {
	if !access.CanAccessRecord(actor, id) {
		return nil, apperrors.Forbidden("", nil)
	}
	return s.repo.Get(ctx, id)
}

// ListDoctors returns all doctor accounts; visible to any signed-in user
func (s *Service) ListDoctors(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx, model.RoleDoctor)
}

// ListPatients returns all patient accounts; doctors only
func (s *Service) ListPatients(ctx context.Context, actor access.Actor) ([]*model.User, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("", nil)
	}
	return s.repo.List(ctx, model.RolePatient)
}

// Update applies profile changes. Username, role and password never change
// here; only the account owner may update.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	if actor.ID != id {
		return nil, apperrors.Forbidden("", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.BloodGroup != nil {
		user.BloodGroup = req.BloodGroup
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.ProfileImage != nil {
		if !strings.HasPrefix(*req.ProfileImage, "data:image/") {
			return nil, apperrors.BadRequest("profile_image must be an image data URL", nil)
		}
		user.ProfileImage = req.ProfileImage
	}
	if req.Specialization != nil {
		user.Specialization = req.Specialization
	}
	if req.Languages != nil {
		user.Languages = req.Languages
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate disables an account. Only the owner can.
func (s *Service) Deactivate(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if actor.ID != id {
		return apperrors.Forbidden("", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	return s.repo.Update(ctx, user)
}
