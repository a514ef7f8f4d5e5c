// Package prescription handles prescriptions and their medication lines.
// Writing is doctor-only; the prescriber is always the authenticated caller.
package prescription

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
)

type Service struct {
	repo    repository.PrescriptionRepository
	users   repository.UserRepository
	outbox  repository.OutboxRepository
	auditor *audit.Service
	logger  *logger.Logger
}

func NewService(repo repository.PrescriptionRepository, users repository.UserRepository, outbox repository.OutboxRepository, auditor *audit.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, users: users, outbox: outbox, auditor: auditor, logger: log}
}

// Create issues a prescription with optional inline items, stored in one
// transaction
func (s *Service) Create(ctx context.Context, actor access.Actor, req *model.CreatePrescriptionRequest) (*model.PrescriptionDetail, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can prescribe", nil)
	}

	patient, err := s.users.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient.IsDoctor() {
		return nil, apperrors.BadRequest("user is not a patient", nil)
	}

	prescription := &model.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      actor.ID,
		AppointmentID: req.AppointmentID,
		ExpiryDate:    req.ExpiryDate,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
	}

	items := make([]*model.PrescriptionItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, &model.PrescriptionItem{
			MedicationName: it.MedicationName,
			Dosage:         it.Dosage,
			Frequency:      it.Frequency,
			Duration:       it.Duration,
			Instructions:   it.Instructions,
		})
	}

	if err := s.repo.Create(ctx, prescription, items); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, prescription)
	s.auditor.Log(ctx, actor, "create", "prescription", prescription.ID, nil)

	return s.toDetail(ctx, prescription, items), nil
}

// Get returns one prescription with items and participant summaries
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.PrescriptionDetail, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessRecord(actor, prescription.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "read", "prescription", id, nil)
	return s.toDetail(ctx, prescription, items), nil
}

// List returns prescriptions scoped by the optional filters. Unfiltered,
// doctors see what they prescribed and patients what they received.
func (s *Service) List(ctx context.Context, actor access.Actor, patientID, doctorID uuid.UUID) ([]*model.Prescription, error) {
	switch {
	case patientID != uuid.Nil:
		if !access.CanAccessRecord(actor, patientID) {
			return nil, apperrors.Forbidden("", nil)
		}
		return s.repo.ListByPatient(ctx, patientID)
	case doctorID != uuid.Nil:
		if !actor.IsDoctor() {
			return nil, apperrors.Forbidden("", nil)
		}
		return s.repo.ListByDoctor(ctx, doctorID)
	case actor.IsDoctor():
		return s.repo.ListByDoctor(ctx, actor.ID)
	default:
		return s.repo.ListByPatient(ctx, actor.ID)
	}
}

// Update modifies the prescription header; only the prescribing doctor can
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsDoctor() || actor.ID != prescription.DoctorID {
		return nil, apperrors.Forbidden("only the prescribing doctor can modify a prescription", nil)
	}

	if req.ExpiryDate != nil {
		prescription.ExpiryDate = req.ExpiryDate
	}
	if req.Diagnosis != nil {
		prescription.Diagnosis = req.Diagnosis
	}
	if req.Notes != nil {
		prescription.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, prescription); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "update", "prescription", id, nil)
	return prescription, nil
}

// Delete removes a prescription; only the prescribing doctor can
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsDoctor() || actor.ID != prescription.DoctorID {
		return apperrors.Forbidden("only the prescribing doctor can modify a prescription", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditor.Log(ctx, actor, "delete", "prescription", id, nil)
	return nil
}

// AddItem appends a medication line; only the prescribing doctor can
func (s *Service) AddItem(ctx context.Context, actor access.Actor, prescriptionID uuid.UUID, req *model.PrescriptionItemRequest) (*model.PrescriptionItem, error) {
	prescription, err := s.repo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	if !actor.IsDoctor() || actor.ID != prescription.DoctorID {
		return nil, apperrors.Forbidden("only the prescribing doctor can modify a prescription", nil)
	}

	item := &model.PrescriptionItem{
		PrescriptionID: prescriptionID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
	}

	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "update", "prescription", prescriptionID, nil)
	return item, nil
}

func (s *Service) toDetail(ctx context.Context, prescription *model.Prescription, items []*model.PrescriptionItem) *model.PrescriptionDetail {
	detail := &model.PrescriptionDetail{
		Prescription: *prescription,
		Items:        items,
	}
	if patient, err := s.users.Get(ctx, prescription.PatientID); err == nil {
		detail.Patient = patient.Summary()
	}
	if doctor, err := s.users.Get(ctx, prescription.DoctorID); err == nil {
		detail.Doctor = doctor.Summary()
	}
	return detail
}

func (s *Service) publishCreated(ctx context.Context, prescription *model.Prescription) {
	payload, err := json.Marshal(prescription)
	if err != nil {
		s.logger.Error(err, "failed to marshal prescription event")
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventPrescriptionCreated,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue prescription event")
	}
}
