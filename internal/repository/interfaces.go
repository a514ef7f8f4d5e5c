package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles doctor and patient accounts
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, role string) ([]*model.User, error)
	}

	// PatientInfoRepository handles the clinical profile attached to a patient
	PatientInfoRepository interface {
		Create(ctx context.Context, info *model.PatientInfo) error
		GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.PatientInfo, error)
		Update(ctx context.Context, info *model.PatientInfo) error
	}

	// ScheduleRepository handles recurring weekly availability windows
	ScheduleRepository interface {
		Create(ctx context.Context, schedule *model.DoctorSchedule) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorSchedule, error)
		Update(ctx context.Context, schedule *model.DoctorSchedule) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		GetByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Appointment, error)
		CheckConflict(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID *uuid.UUID) (bool, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		List(ctx context.Context) ([]*model.MedicalRecord, error)
	}

	MedicalFileRepository interface {
		Create(ctx context.Context, file *model.MedicalFile) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalFile, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalFile, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription, items []*model.PrescriptionItem) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
		AddItem(ctx context.Context, item *model.PrescriptionItem) error
		GetItems(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice, items []*model.InvoiceItem) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Invoice, error)
		List(ctx context.Context) ([]*model.Invoice, error)
		AddItem(ctx context.Context, item *model.InvoiceItem) error
		GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*model.InvoiceItem, error)
	}

	// OutboxRepository handles the transactional event outbox
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkCompleted(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		ListByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*model.AuditLog, error)
		DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	// TokenRepository tracks revoked refresh tokens until they expire
	TokenRepository interface {
		Revoke(ctx context.Context, token string, ttl time.Duration) error
		IsRevoked(ctx context.Context, token string) (bool, error)
	}
)
