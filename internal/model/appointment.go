package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentDuration is the slot length in minutes when none is given
const DefaultAppointmentDuration = 30

// Appointment links one patient and one doctor on a calendar date and time
type Appointment struct {
	Base
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Date      string            `json:"date" db:"date"`
	Time      string            `json:"time" db:"time"`
	Duration  int               `json:"duration" db:"duration"`
	Purpose   string            `json:"purpose" db:"purpose"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     *string           `json:"notes" db:"notes"`
}

// AppointmentDetail is an appointment shaped for responses, with the
// participant summaries attached
type AppointmentDetail struct {
	Appointment
	Patient *UserSummary `json:"patient"`
	Doctor  *UserSummary `json:"doctor"`
}

// CreateAppointmentRequest carries booking parameters
type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	Date      string    `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string    `json:"time" binding:"required,hhmm"`
	Duration  int       `json:"duration" binding:"omitempty,min=5,max=240"`
	Purpose   string    `json:"purpose" binding:"required"`
	Notes     *string   `json:"notes"`
}

// UpdateAppointmentRequest carries partial booking updates. Any authorized
// party may write any status over any prior status; there is no transition
// check on the server.
type UpdateAppointmentRequest struct {
	Date     *string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time     *string            `json:"time" binding:"omitempty,hhmm"`
	Duration *int               `json:"duration" binding:"omitempty,min=5,max=240"`
	Purpose  *string            `json:"purpose"`
	Status   *AppointmentStatus `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	Notes    *string            `json:"notes"`
}

// AppointmentFilters narrows appointment listings
type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Date      string
	Status    AppointmentStatus
}
