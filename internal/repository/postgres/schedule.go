package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.DoctorSchedule) error {
	query := `
		INSERT INTO doctor_schedules (
			id, doctor_id, day_of_week, start_time, end_time, is_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.DoctorID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.IsAvailable,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available,
			   created_at, updated_at
		FROM doctor_schedules
		WHERE id = $1
	`
	var schedule model.DoctorSchedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("schedule", err)
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *model.DoctorSchedule) error {
	query := `
		UPDATE doctor_schedules
		SET day_of_week = $1, start_time = $2, end_time = $3,
			is_available = $4, updated_at = $5
		WHERE id = $6
	`
	schedule.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.IsAvailable,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("schedule", nil)
	}

	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM doctor_schedules
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("schedule", nil)
	}

	return nil
}

func (r *scheduleRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorSchedule, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available,
			   created_at, updated_at
		FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`
	var schedules []*model.DoctorSchedule
	err := r.db.SelectContext(ctx, &schedules, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}
