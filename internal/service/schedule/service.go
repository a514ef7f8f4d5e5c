// Package schedule manages doctors' recurring weekly availability windows.
package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

type Service struct {
	repo repository.ScheduleRepository
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

// ListByDoctor returns all weekly windows for one doctor; visible to any
// signed-in user so patients can see availability.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// Create adds a weekly window. Only the owning doctor can.
func (s *Service) Create(ctx context.Context, actor access.Actor, doctorID uuid.UUID, req *model.CreateScheduleRequest) (*model.DoctorSchedule, error) {
	if !access.CanManageSchedule(actor, doctorID) {
		return nil, apperrors.Forbidden("only the doctor can manage their schedule", nil)
	}

	if req.EndTime <= req.StartTime {
		return nil, apperrors.BadRequest("end time must be after start time", nil)
	}

	schedule := &model.DoctorSchedule{
		DoctorID:    doctorID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		schedule.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Update modifies a weekly window. Only the owning doctor can.
func (s *Service) Update(ctx context.Context, actor access.Actor, scheduleID uuid.UUID, req *model.UpdateScheduleRequest) (*model.DoctorSchedule, error) {
	schedule, err := s.repo.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if !access.CanManageSchedule(actor, schedule.DoctorID) {
		return nil, apperrors.Forbidden("only the doctor can manage their schedule", nil)
	}

	if req.DayOfWeek != nil {
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.IsAvailable != nil {
		schedule.IsAvailable = *req.IsAvailable
	}

	if schedule.EndTime <= schedule.StartTime {
		return nil, apperrors.BadRequest("end time must be after start time", nil)
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete removes a weekly window. Only the owning doctor can.
func (s *Service) Delete(ctx context.Context, actor access.Actor, scheduleID uuid.UUID) error {
	schedule, err := s.repo.Get(ctx, scheduleID)
	if err != nil {
		return err
	}

	if !access.CanManageSchedule(actor, schedule.DoctorID) {
		return apperrors.Forbidden("only the doctor can manage their schedule", nil)
	}

	return s.repo.Delete(ctx, scheduleID)
}
