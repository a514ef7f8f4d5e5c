package model

import (
	"time"

	"github.com/google/uuid"
)

// Prescription belongs to a patient and the prescribing doctor
type Prescription struct {
	Base
	PatientID        uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID         uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	AppointmentID    *uuid.UUID `json:"appointment_id" db:"appointment_id"`
	PrescriptionDate time.Time  `json:"prescription_date" db:"prescription_date"`
	ExpiryDate       *string    `json:"expiry_date" db:"expiry_date"`
	Diagnosis        *string    `json:"diagnosis" db:"diagnosis"`
	Notes            *string    `json:"notes" db:"notes"`
}

// PrescriptionItem is one medication line on a prescription
type PrescriptionItem struct {
	Base
	PrescriptionID uuid.UUID `json:"prescription_id" db:"prescription_id"`
	MedicationName string    `json:"medication_name" db:"medication_name"`
	Dosage         string    `json:"dosage" db:"dosage"`
	Frequency      string    `json:"frequency" db:"frequency"`
	Duration       string    `json:"duration" db:"duration"`
	Instructions   *string   `json:"instructions" db:"instructions"`
}

// PrescriptionDetail is a prescription shaped for responses
type PrescriptionDetail struct {
	Prescription
	Patient *UserSummary        `json:"patient"`
	Doctor  *UserSummary        `json:"doctor"`
	Items   []*PrescriptionItem `json:"items"`
}

// PrescriptionItemRequest carries one medication line
type PrescriptionItemRequest struct {
	MedicationName string  `json:"medication_name" binding:"required"`
	Dosage         string  `json:"dosage" binding:"required"`
	Frequency      string  `json:"frequency" binding:"required"`
	Duration       string  `json:"duration" binding:"required"`
	Instructions   *string `json:"instructions"`
}

// CreatePrescriptionRequest carries a new prescription, items optional.
// The prescribing doctor is the authenticated caller, never a field.
type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID                  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID                 `json:"appointment_id"`
	ExpiryDate    *string                    `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	Diagnosis     *string                    `json:"diagnosis"`
	Notes         *string                    `json:"notes"`
	Items         []*PrescriptionItemRequest `json:"items" binding:"omitempty,dive"`
}
