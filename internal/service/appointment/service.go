// Package appointment handles booking, slot availability and the
// appointment lifecycle.
package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/email"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
	"github.com/guhospital/hms-api/pkg/metrics"
)

// Clinic hours used when a doctor has no schedule window for the weekday
const (
	defaultDayStart = "08:00"
	defaultDayEnd   = "17:00"
	slotStep        = 30 * time.Minute

	availabilityCacheTTL = 5 * time.Minute
)

type Service struct {
	repo      repository.AppointmentRepository
	users     repository.UserRepository
	schedules repository.ScheduleRepository
	outbox    repository.OutboxRepository
	auditor   *audit.Service
	mailer    email.Service
	cache     *gocache.Cache
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	users repository.UserRepository,
	schedules repository.ScheduleRepository,
	outbox repository.OutboxRepository,
	auditor *audit.Service,
	mailer email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		schedules: schedules,
		outbox:    outbox,
		auditor:   auditor,
		mailer:    mailer,
		cache:     gocache.New(availabilityCacheTTL, 10*time.Minute),
		metrics:   m,
		logger:    log,
	}
}

// Create books an appointment. Patients can only book for themselves; the
// slot must be free for the doctor on that date.
func (s *Service) Create(ctx context.Context, actor access.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !actor.IsDoctor() && actor.ID != req.PatientID {
		return nil, apperrors.Forbidden("patients can only book for themselves", nil)
	}

	doctor, err := s.users.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsDoctor() {
		return nil, apperrors.BadRequest("doctor_id does not refer to a doctor", nil)
	}

	patient, err := s.users.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.CheckConflict(ctx, req.DoctorID, req.Date, req.Time, nil)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, apperrors.Conflict("time slot already booked", nil)
	}

	duration := req.Duration
	if duration == 0 {
		duration = model.DefaultAppointmentDuration
	}

	appt := &model.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  duration,
		Purpose:   req.Purpose,
		Status:    model.AppointmentStatusPending,
		Notes:     req.Notes,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.invalidateAvailability(appt.DoctorID, appt.Date)
	s.metrics.AppointmentsBooked.Inc()
	s.publishEvent(ctx, model.EventAppointmentCreated, appt)
	s.auditor.Log(ctx, actor, "create", "appointment", appt.ID, nil)

	if err := s.mailer.SendAppointmentConfirmation(patient.Email, patient.FullName, doctor.FullName, appt.Date, appt.Time); err != nil {
		s.logger.Error(err, "failed to send appointment confirmation", "appointment_id", appt.ID)
	}

	return appt, nil
}

// Get returns one appointment with participant summaries
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.AppointmentDetail, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessAppointment(actor, appt) {
		return nil, apperrors.Forbidden("", nil)
	}

	return s.toDetail(ctx, appt), nil
}

// List returns appointments visible to the caller. Patients only ever see
// their own regardless of the requested filters.
func (s *Service) List(ctx context.Context, actor access.Actor, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	if !actor.IsDoctor() {
		filters.PatientID = actor.ID
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	details := make([]*model.AppointmentDetail, 0, len(appointments))
	for _, appt := range appointments {
		details = append(details, s.toDetail(ctx, appt))
	}
	return details, nil
}

// Update applies changes to an appointment. Rescheduling re-checks the
// target slot.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessAppointment(actor, appt) {
		return nil, apperrors.Forbidden("", nil)
	}

	oldDate := appt.Date
	rescheduled := false

	if req.Date != nil && *req.Date != appt.Date {
		appt.Date = *req.Date
		rescheduled = true
	}
	if req.Time != nil && *req.Time != appt.Time {
		appt.Time = *req.Time
		rescheduled = true
	}
	if req.Duration != nil {
		appt.Duration = *req.Duration
	}
	if req.Purpose != nil {
		appt.Purpose = *req.Purpose
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	if rescheduled && appt.Status != model.AppointmentStatusCancelled {
		booked, err := s.repo.CheckConflict(ctx, appt.DoctorID, appt.Date, appt.Time, &appt.ID)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, apperrors.Conflict("time slot already booked", nil)
		}
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.invalidateAvailability(appt.DoctorID, oldDate)
	s.invalidateAvailability(appt.DoctorID, appt.Date)

	event := model.EventAppointmentUpdated
	if req.Status != nil && *req.Status == model.AppointmentStatusCancelled {
		event = model.EventAppointmentCancelled
	}
	s.publishEvent(ctx, event, appt)
	s.auditor.Log(ctx, actor, "update", "appointment", appt.ID, nil)

	return appt, nil
}

// Delete removes an appointment outright
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if !access.CanAccessAppointment(actor, appt) {
		return apperrors.Forbidden("", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateAvailability(appt.DoctorID, appt.Date)
	s.auditor.Log(ctx, actor, "delete", "appointment", id, nil)
	return nil
}

// GetAvailableSlots returns the free slots for a doctor on a date. The
// doctor's weekly windows bound the grid; without one the clinic-hour
// default applies. Booked starts are excluded. Results are cached briefly
// and invalidated on any booking change for the doctor.
func (s *Service) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]model.TimeSlot, error) {
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}

	cacheKey := availabilityKey(doctorID, date)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]model.TimeSlot), nil
	}

	doctor, err := s.users.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsDoctor() {
		return nil, apperrors.BadRequest("doctor_id does not refer to a doctor", nil)
	}

	windows, err := s.dayWindows(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(appointments))
	for _, appt := range appointments {
		booked[appt.Time] = true
	}

	var slots []model.TimeSlot
	for _, w := range windows {
		slots = append(slots, generateSlots(w.start, w.end, booked)...)
	}

	s.cache.Set(cacheKey, slots, availabilityCacheTTL)
	return slots, nil
}

type window struct {
	start, end time.Time
}

// dayWindows resolves the doctor's availability windows for the weekday of
// the given date, falling back to clinic hours when none are defined.
func (s *Service) dayWindows(ctx context.Context, doctorID uuid.UUID, date string) ([]window, error) {
	day, err := time.Parse(model.DateFormat, date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}

	schedules, err := s.schedules.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	var windows []window
	for _, sched := range schedules {
		if sched.DayOfWeek != int(day.Weekday()) || !sched.IsAvailable {
			continue
		}
		start, err := time.Parse(model.TimeFormat, sched.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(model.TimeFormat, sched.EndTime)
		if err != nil {
			continue
		}
		windows = append(windows, window{start: start, end: end})
	}

	if len(windows) == 0 {
		start, _ := time.Parse(model.TimeFormat, defaultDayStart)
		end, _ := time.Parse(model.TimeFormat, defaultDayEnd)
		windows = append(windows, window{start: start, end: end})
	}
	return windows, nil
}

// generateSlots walks a window in fixed steps, skipping booked starts
func generateSlots(start, end time.Time, booked map[string]bool) []model.TimeSlot {
	var slots []model.TimeSlot
	for t := start; t.Add(slotStep).Before(end) || t.Add(slotStep).Equal(end); t = t.Add(slotStep) {
		startStr := t.Format(model.TimeFormat)
		if booked[startStr] {
			continue
		}
		slots = append(slots, model.TimeSlot{
			StartTime: startStr,
			EndTime:   t.Add(slotStep).Format(model.TimeFormat),
		})
	}
	return slots
}

func availabilityKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s", doctorID, date)
}

func (s *Service) invalidateAvailability(doctorID uuid.UUID, date string) {
	s.cache.Delete(availabilityKey(doctorID, date))
}

func (s *Service) toDetail(ctx context.Context, appt *model.Appointment) *model.AppointmentDetail {
	detail := &model.AppointmentDetail{Appointment: *appt}

	if patient, err := s.users.Get(ctx, appt.PatientID); err == nil {
		detail.Patient = patient.Summary()
	}
	if doctor, err := s.users.Get(ctx, appt.DoctorID); err == nil {
		detail.Doctor = doctor.Summary()
	}
	return detail
}

func (s *Service) publishEvent(ctx context.Context, eventType string, appt *model.Appointment) {
	payload, err := json.Marshal(appt)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue appointment event", "event_type", eventType)
	}
}
