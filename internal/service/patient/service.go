// Package patient manages the clinical profile attached to patient accounts.
package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

type Service struct {
	repo    repository.PatientInfoRepository
	users   repository.UserRepository
	auditor *audit.Service
}

func NewService(repo repository.PatientInfoRepository, users repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, users: users, auditor: auditor}
}

// Get returns the clinical profile for a patient
func (s *Service) Get(ctx context.Context, actor access.Actor, patientID uuid.UUID) (*model.PatientInfo, error) {
	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	info, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "read", "patient_info", patientID, nil)
	return info, nil
}

// Create adds the clinical profile. A patient has at most one; a second
// create is refused.
func (s *Service) Create(ctx context.Context, actor access.Actor, patientID uuid.UUID, req *model.PatientInfoRequest) (*model.PatientInfo, error) {
	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	patient, err := s.users.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.IsDoctor() {
		return nil, apperrors.BadRequest("user is not a patient", nil)
	}

	info := &model.PatientInfo{
		PatientID:          patientID,
		Allergies:          req.Allergies,
		MedicalConditions:  req.MedicalConditions,
		CurrentMedications: req.CurrentMedications,
		EmergencyContact:   req.EmergencyContact,
		EmergencyPhone:     req.EmergencyPhone,
		Height:             req.Height,
		Weight:             req.Weight,
	}

	if err := s.repo.Create(ctx, info); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "create", "patient_info", patientID, nil)
	return info, nil
}

// Update replaces the clinical profile fields
func (s *Service) Update(ctx context.Context, actor access.Actor, patientID uuid.UUID, req *model.PatientInfoRequest) (*model.PatientInfo, error) {
	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	info, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	info.Allergies = req.Allergies
	info.MedicalConditions = req.MedicalConditions
	info.CurrentMedications = req.CurrentMedications
	info.EmergencyContact = req.EmergencyContact
	info.EmergencyPhone = req.EmergencyPhone
	info.Height = req.Height
	info.Weight = req.Weight

	if err := s.repo.Update(ctx, info); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "update", "patient_info", patientID, nil)
	return info, nil
}
