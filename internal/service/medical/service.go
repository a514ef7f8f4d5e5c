// Package medical handles medical records and attached files. Writes are
// doctor-only; reads follow the patient-or-doctor rule and are audited.
package medical

import (
	"context"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

// MaxFileSize caps inline uploads (base64 text length)
const MaxFileSize = 10 << 20

type Service struct {
	records repository.MedicalRecordRepository
	files   repository.MedicalFileRepository
	users   repository.UserRepository
	auditor *audit.Service
}

func NewService(records repository.MedicalRecordRepository, files repository.MedicalFileRepository, users repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{records: records, files: files, users: users, auditor: auditor}
}

// CreateRecord adds a medical record; doctors only
func (s *Service) CreateRecord(ctx context.Context, actor access.Actor, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can write medical records", nil)
	}

	patient, err := s.users.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient.IsDoctor() {
		return nil, apperrors.BadRequest("user is not a patient", nil)
	}

	record := &model.MedicalRecord{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Symptoms:      req.Symptoms,
		Treatment:     req.Treatment,
		Notes:         req.Notes,
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "create", "medical_record", record.ID, nil)
	return record, nil
}

// GetRecord returns one record with the patient summary attached
func (s *Service) GetRecord(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.MedicalRecordDetail, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessRecord(actor, record.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	detail := &model.MedicalRecordDetail{MedicalRecord: *record}
	if patient, err := s.users.Get(ctx, record.PatientID); err == nil {
		detail.Patient = patient.Summary()
	}

	s.auditor.Log(ctx, actor, "read", "medical_record", id, nil)
	return detail, nil
}

// ListRecords returns a patient's records, or every record when no patient
// filter is given; the unfiltered listing is doctor-only.
func (s *Service) ListRecords(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if patientID == uuid.Nil {
		if !actor.IsDoctor() {
			return nil, apperrors.Forbidden("", nil)
		}
		records, err := s.records.List(ctx)
		if err != nil {
			return nil, err
		}
		s.auditor.Log(ctx, actor, "list", "medical_record", uuid.Nil, nil)
		return records, nil
	}

	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	records, err := s.records.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "list", "medical_record", patientID, nil)
	return records, nil
}

// UpdateRecord modifies a record; doctors only
func (s *Service) UpdateRecord(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can write medical records", nil)
	}

	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Diagnosis != nil {
		record.Diagnosis = req.Diagnosis
	}
	if req.Symptoms != nil {
		record.Symptoms = req.Symptoms
	}
	if req.Treatment != nil {
		record.Treatment = req.Treatment
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "update", "medical_record", id, nil)
	return record, nil
}

// DeleteRecord removes a record; doctors only
func (s *Service) DeleteRecord(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if !actor.IsDoctor() {
		return apperrors.Forbidden("only doctors can write medical records", nil)
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}

	s.auditor.Log(ctx, actor, "delete", "medical_record", id, nil)
	return nil
}

// UploadFile stores an inline file against a patient
func (s *Service) UploadFile(ctx context.Context, actor access.Actor, req *model.CreateMedicalFileRequest) (*model.MedicalFile, error) {
	if !access.CanAccessRecord(actor, req.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	if len(req.FileData) > MaxFileSize {
		return nil, apperrors.BadRequest("file too large", nil)
	}

	file := &model.MedicalFile{
		PatientID:   req.PatientID,
		RecordID:    req.RecordID,
		FileType:    req.FileType,
		FileName:    req.FileName,
		FileData:    req.FileData,
		Description: req.Description,
	}

	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "create", "medical_file", file.ID, nil)
	return file, nil
}

// GetFile returns one stored file
func (s *Service) GetFile(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.MedicalFile, error) {
	file, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessRecord(actor, file.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	s.auditor.Log(ctx, actor, "read", "medical_file", id, nil)
	return file, nil
}

// ListFiles returns all stored files for a patient
func (s *Service) ListFiles(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*model.MedicalFile, error) {
	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}
	return s.files.ListByPatient(ctx, patientID)
}

// DeleteFile removes a stored file
func (s *Service) DeleteFile(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	file, err := s.files.Get(ctx, id)
	if err != nil {
		return err
	}

	if !access.CanAccessRecord(actor, file.PatientID) {
		return apperrors.Forbidden("", nil)
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	s.auditor.Log(ctx, actor, "delete", "medical_file", id, nil)
	return nil
}
