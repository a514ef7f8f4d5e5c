package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/guhospital/hms-api/internal/model"
)

func TestCanAccessRecord(t *testing.T) {
	patientID := uuid.New()
	doctor := Actor{ID: uuid.New(), Role: model.RoleDoctor}
	owner := Actor{ID: patientID, Role: model.RolePatient}
	stranger := Actor{ID: uuid.New(), Role: model.RolePatient}

	assert.True(t, CanAccessRecord(doctor, patientID), "any doctor may access clinical data")
	assert.True(t, CanAccessRecord(owner, patientID), "patient may access own data")
	assert.False(t, CanAccessRecord(stranger, patientID), "other patients are refused")
}

func TestCanAccessAppointment(t *testing.T) {
	appt := &model.Appointment{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	}

	assignedDoctor := Actor{ID: appt.DoctorID, Role: model.RoleDoctor}
	otherDoctor := Actor{ID: uuid.New(), Role: model.RoleDoctor}
	patient := Actor{ID: appt.PatientID, Role: model.RolePatient}
	otherPatient := Actor{ID: uuid.New(), Role: model.RolePatient}

	assert.True(t, CanAccessAppointment(assignedDoctor, appt))
	assert.True(t, CanAccessAppointment(otherDoctor, appt), "doctors see all appointments")
	assert.True(t, CanAccessAppointment(patient, appt))
	assert.False(t, CanAccessAppointment(otherPatient, appt))
}

func TestCanManageSchedule(t *testing.T) {
	doctorID := uuid.New()

	assert.True(t, CanManageSchedule(Actor{ID: doctorID, Role: model.RoleDoctor}, doctorID))
	assert.False(t, CanManageSchedule(Actor{ID: uuid.New(), Role: model.RoleDoctor}, doctorID), "other doctors cannot edit a schedule")
	assert.False(t, CanManageSchedule(Actor{ID: doctorID, Role: model.RolePatient}, doctorID))
}
