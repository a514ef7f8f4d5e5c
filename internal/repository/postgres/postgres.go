package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/guhospital/hms-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

type patientInfoRepository struct {
	BaseRepository
}

type scheduleRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type medicalRecordRepository struct {
	BaseRepository
}

type medicalFileRepository struct {
	BaseRepository
}

type prescriptionRepository struct {
	BaseRepository
}

type invoiceRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

type auditRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func NewPatientInfoRepository(db *sqlx.DB) repository.PatientInfoRepository {
	return &patientInfoRepository{NewBaseRepository(db)}
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{NewBaseRepository(db)}
}

func NewMedicalFileRepository(db *sqlx.DB) repository.MedicalFileRepository {
	return &medicalFileRepository{NewBaseRepository(db)}
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{NewBaseRepository(db)}
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{NewBaseRepository(db)}
}
