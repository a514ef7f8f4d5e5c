package model

import (
	"github.com/google/uuid"
)

// DoctorSchedule is one recurring weekly availability window for a doctor
type DoctorSchedule struct {
	Base
	DoctorID    uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week" db:"day_of_week"`
	StartTime   string    `json:"start_time" db:"start_time"`
	EndTime     string    `json:"end_time" db:"end_time"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
}

// CreateScheduleRequest carries a new weekly window
type CreateScheduleRequest struct {
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	EndTime     string `json:"end_time" binding:"required,hhmm"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdateScheduleRequest carries partial updates for a weekly window
type UpdateScheduleRequest struct {
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime     *string `json:"end_time" binding:"omitempty,hhmm"`
	IsAvailable *bool   `json:"is_available"`
}
