package appointment

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/email"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
	"github.com/guhospital/hms-api/pkg/metrics"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error { return nil }
func (r *fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeUserRepo) List(_ context.Context, _ string) ([]*model.User, error) {
	return nil, nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.appointments {
		if other.DoctorID == a.DoctorID && other.Date == a.Date && other.Time == a.Time &&
			other.Status != model.AppointmentStatusCancelled {
			return apperrors.Conflict("time slot already booked", nil)
		}
	}
	a.ID = uuid.New()
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if filters.PatientID != uuid.Nil && a.PatientID != filters.PatientID {
			continue
		}
		if filters.DoctorID != uuid.Nil && a.DoctorID != filters.DoctorID {
			continue
		}
		if filters.Date != "" && a.Date != filters.Date {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) GetByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date string) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date == date && a.Status != model.AppointmentStatusCancelled {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CheckConflict(_ context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.Time == timeOfDay &&
			a.Status != model.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type fakeScheduleRepo struct {
	schedules []*model.DoctorSchedule
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *model.DoctorSchedule) error {
	s.ID = uuid.New()
	r.schedules = append(r.schedules, s)
	return nil
}
func (r *fakeScheduleRepo) Get(_ context.Context, _ uuid.UUID) (*model.DoctorSchedule, error) {
	return nil, apperrors.NotFound("schedule", nil)
}
func (r *fakeScheduleRepo) Update(_ context.Context, _ *model.DoctorSchedule) error { return nil }
func (r *fakeScheduleRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeScheduleRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error) {
	var out []*model.DoctorSchedule
	for _, s := range r.schedules {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	r.events = append(r.events, e)
	return nil
}
func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (r *fakeOutboxRepo) MarkCompleted(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) ListByResource(_ context.Context, _ string, _ uuid.UUID) ([]*model.AuditLog, error) {
	return nil, nil
}
func (r *fakeAuditRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type testEnv struct {
	svc    *Service
	appts  *fakeAppointmentRepo
	users  *fakeUserRepo
	scheds *fakeScheduleRepo
	outbox *fakeOutboxRepo

	doctor  *model.User
	patient *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	appts := newFakeAppointmentRepo()
	scheds := &fakeScheduleRepo{}
	outbox := &fakeOutboxRepo{}

	doctor := &model.User{Username: "drrao", Role: model.RoleDoctor, Email: "rao@example.com", FullName: "Dr. Rao"}
	patient := &model.User{Username: "asha", Role: model.RolePatient, Email: "asha@example.com", FullName: "Asha"}
	require.NoError(t, users.Create(context.Background(), doctor))
	require.NoError(t, users.Create(context.Background(), patient))

	svc := NewService(
		appts,
		users,
		scheds,
		outbox,
		audit.NewService(&fakeAuditRepo{}, log),
		email.NewService(email.Config{Enabled: false}, log),
		metrics.NewMetricsWith("test", prometheus.NewRegistry()),
		log,
	)

	return &testEnv{svc: svc, appts: appts, users: users, scheds: scheds, outbox: outbox, doctor: doctor, patient: patient}
}

func (e *testEnv) patientActor() access.Actor {
	return access.Actor{ID: e.patient.ID, Role: model.RolePatient}
}

func (e *testEnv) doctorActor() access.Actor {
	return access.Actor{ID: e.doctor.ID, Role: model.RoleDoctor}
}

func (e *testEnv) bookingReq(date, timeOfDay string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID: e.patient.ID,
		DoctorID:  e.doctor.ID,
		Date:      date,
		Time:      timeOfDay,
		Purpose:   "checkup",
	}
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, model.DefaultAppointmentDuration, appt.Duration)
	assert.NotEqual(t, uuid.Nil, appt.ID)

	require.Len(t, env.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, env.outbox.events[0].EventType)
}

func TestCreateAppointmentDoubleBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// A different slot the same day is fine
	_, err = env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:30"))
	assert.NoError(t, err)
}

func TestCreateAppointmentForAnotherPatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := &model.User{Username: "meera", Role: model.RolePatient, Email: "meera@example.com", FullName: "Meera"}
	require.NoError(t, env.users.Create(ctx, other))

	req := env.bookingReq("2026-09-07", "10:00")
	req.PatientID = other.ID

	_, err := env.svc.Create(ctx, env.patientActor(), req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	// A doctor can book on any patient's behalf
	_, err = env.svc.Create(ctx, env.doctorActor(), req)
	assert.NoError(t, err)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	cancelled := model.AppointmentStatusCancelled
	_, err = env.svc.Update(ctx, env.patientActor(), appt.ID, &model.UpdateAppointmentRequest{Status: &cancelled})
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	assert.NoError(t, err)
}

func TestStatusOverwriteIsUnrestricted(t *testing.T) {
	// There is no transition check: completed can go back to pending
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	completed := model.AppointmentStatusCompleted
	updated, err := env.svc.Update(ctx, env.doctorActor(), appt.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, completed, updated.Status)

	pending := model.AppointmentStatusPending
	updated, err = env.svc.Update(ctx, env.doctorActor(), appt.ID, &model.UpdateAppointmentRequest{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, pending, updated.Status)
}

func TestGetAvailableSlotsDefaultGrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	slots, err := env.svc.GetAvailableSlots(ctx, env.doctor.ID, "2026-09-07")
	require.NoError(t, err)

	// 08:00 to 17:00 in 30-minute steps
	require.Len(t, slots, 18)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "08:30", slots[0].EndTime)
	assert.Equal(t, "16:30", slots[len(slots)-1].StartTime)
}

func TestGetAvailableSlotsExcludesBooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	slots, err := env.svc.GetAvailableSlots(ctx, env.doctor.ID, "2026-09-07")
	require.NoError(t, err)

	require.Len(t, slots, 17)
	for _, slot := range slots {
		assert.NotEqual(t, "10:00", slot.StartTime, "booked slot must not be offered")
	}
}

func TestGetAvailableSlotsUsesScheduleWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 2026-09-07 is a Monday
	require.NoError(t, env.scheds.Create(ctx, &model.DoctorSchedule{
		DoctorID:    env.doctor.ID,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
	}))

	slots, err := env.svc.GetAvailableSlots(ctx, env.doctor.ID, "2026-09-07")
	require.NoError(t, err)

	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "11:30", slots[len(slots)-1].StartTime)
}

func TestGetAvailableSlotsCacheInvalidatedOnBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	slots, err := env.svc.GetAvailableSlots(ctx, env.doctor.ID, "2026-09-07")
	require.NoError(t, err)
	require.Len(t, slots, 18)

	_, err = env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "08:00"))
	require.NoError(t, err)

	slots, err = env.svc.GetAvailableSlots(ctx, env.doctor.ID, "2026-09-07")
	require.NoError(t, err)
	require.Len(t, slots, 17)
	assert.Equal(t, "08:30", slots[0].StartTime, "fresh booking must be reflected despite caching")
}

func TestPatientListScopedToSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := &model.User{Username: "meera", Role: model.RolePatient, Email: "meera@example.com", FullName: "Meera"}
	require.NoError(t, env.users.Create(ctx, other))

	_, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	otherReq := env.bookingReq("2026-09-07", "11:00")
	otherReq.PatientID = other.ID
	_, err = env.svc.Create(ctx, env.doctorActor(), otherReq)
	require.NoError(t, err)

	// A patient asking for everything still only sees their own bookings
	list, err := env.svc.List(ctx, env.patientActor(), &model.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, env.patient.ID, list[0].PatientID)

	// Doctors see all
	list, err = env.svc.List(ctx, env.doctorActor(), &model.AppointmentFilters{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRescheduleConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	appt, err := env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "10:00"))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.patientActor(), env.bookingReq("2026-09-07", "11:00"))
	require.NoError(t, err)

	target := "11:00"
	_, err = env.svc.Update(ctx, env.patientActor(), appt.ID, &model.UpdateAppointmentRequest{Time: &target})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
