// Package access holds the ownership and role predicates shared by the
// service layer. Doctors can reach any patient's clinical data; patients
// can only reach their own.
package access

import (
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/model"
)

// Actor is the authenticated caller as seen by the service layer
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsDoctor reports whether the actor holds the doctor role
func (a Actor) IsDoctor() bool {
	return a.Role == model.RoleDoctor
}

// CanAccessRecord reports whether the actor may read or write clinical data
// belonging to the given patient. Doctors may; patients only their own.
func CanAccessRecord(actor Actor, patientID uuid.UUID) bool {
	if actor.IsDoctor() {
		return true
	}
	return actor.ID == patientID
}

// CanAccessAppointment reports whether the actor may see or change an
// appointment: the patient on it, the assigned doctor, or any doctor.
func CanAccessAppointment(actor Actor, appt *model.Appointment) bool {
	if actor.IsDoctor() {
		return true
	}
	return actor.ID == appt.PatientID
}

// CanManageSchedule reports whether the actor may modify the given doctor's
// weekly schedule. Only the owning doctor can.
func CanManageSchedule(actor Actor, doctorID uuid.UUID) bool {
	return actor.IsDoctor() && actor.ID == doctorID
}
