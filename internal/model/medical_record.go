package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MedicalRecord belongs to a patient, optionally linked to one appointment
type MedicalRecord struct {
	Base
	PatientID     uuid.UUID      `json:"patient_id" db:"patient_id"`
	AppointmentID *uuid.UUID     `json:"appointment_id" db:"appointment_id"`
	RecordDate    time.Time      `json:"record_date" db:"record_date"`
	Diagnosis     *string        `json:"diagnosis" db:"diagnosis"`
	Symptoms      pq.StringArray `json:"symptoms" db:"symptoms"`
	Treatment     *string        `json:"treatment" db:"treatment"`
	Notes         *string        `json:"notes" db:"notes"`
}

// MedicalRecordDetail attaches the patient summary for responses
type MedicalRecordDetail struct {
	MedicalRecord
	Patient *UserSummary `json:"patient"`
}

// CreateMedicalRecordRequest carries new record parameters
type CreateMedicalRecordRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Diagnosis     *string    `json:"diagnosis"`
	Symptoms      []string   `json:"symptoms"`
	Treatment     *string    `json:"treatment"`
	Notes         *string    `json:"notes"`
}

// UpdateMedicalRecordRequest carries partial record updates
type UpdateMedicalRecordRequest struct {
	Diagnosis *string  `json:"diagnosis"`
	Symptoms  []string `json:"symptoms"`
	Treatment *string  `json:"treatment"`
	Notes     *string  `json:"notes"`
}
