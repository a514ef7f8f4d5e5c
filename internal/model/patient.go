package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PatientInfo is the 1:1 medical extension of a patient account
type PatientInfo struct {
	Base
	PatientID          uuid.UUID      `json:"patient_id" db:"patient_id"`
	Allergies          pq.StringArray `json:"allergies" db:"allergies"`
	MedicalConditions  pq.StringArray `json:"medical_conditions" db:"medical_conditions"`
	CurrentMedications pq.StringArray `json:"current_medications" db:"current_medications"`
	EmergencyContact   *string        `json:"emergency_contact" db:"emergency_contact"`
	EmergencyPhone     *string        `json:"emergency_phone" db:"emergency_phone"`
	Height             *string        `json:"height" db:"height"`
	Weight             *string        `json:"weight" db:"weight"`
}

// PatientInfoRequest carries create/update parameters for patient info
type PatientInfoRequest struct {
	Allergies          []string `json:"allergies"`
	MedicalConditions  []string `json:"medical_conditions"`
	CurrentMedications []string `json:"current_medications"`
	EmergencyContact   *string  `json:"emergency_contact"`
	EmergencyPhone     *string  `json:"emergency_phone"`
	Height             *string  `json:"height"`
	Weight             *string  `json:"weight"`
}
