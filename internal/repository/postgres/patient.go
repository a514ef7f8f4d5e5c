package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

func (r *patientInfoRepository) Create(ctx context.Context, info *model.PatientInfo) error {
	query := `
		INSERT INTO patient_info (
			id, patient_id, allergies, medical_conditions, current_medications,
			emergency_contact, emergency_phone, height, weight,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	info.ID = uuid.New()
	info.CreatedAt = time.Now()
	info.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		info.ID,
		info.PatientID,
		info.Allergies,
		info.MedicalConditions,
		info.CurrentMedications,
		info.EmergencyContact,
		info.EmergencyPhone,
		info.Height,
		info.Weight,
		info.CreatedAt,
		info.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("patient info already exists", err)
		}
		return fmt.Errorf("failed to create patient info: %w", err)
	}
	return nil
}

func (r *patientInfoRepository) GetByPatient(ctx context.Context, patientID uuid.UUID) (*model.PatientInfo, error) {
	query := `
		SELECT id, patient_id, allergies, medical_conditions, current_medications,
			   emergency_contact, emergency_phone, height, weight,
			   created_at, updated_at
		FROM patient_info
		WHERE patient_id = $1
	`
	var info model.PatientInfo
	err := r.db.GetContext(ctx, &info, query, patientID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("patient info", err)
		}
		return nil, fmt.Errorf("failed to get patient info: %w", err)
	}
	return &info, nil
}

func (r *patientInfoRepository) Update(ctx context.Context, info *model.PatientInfo) error {
	query := `
		UPDATE patient_info
		SET allergies = $1, medical_conditions = $2, current_medications = $3,
			emergency_contact = $4, emergency_phone = $5, height = $6,
			weight = $7, updated_at = $8
		WHERE patient_id = $9
	`
	info.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		info.Allergies,
		info.MedicalConditions,
		info.CurrentMedications,
		info.EmergencyContact,
		info.EmergencyPhone,
		info.Height,
		info.Weight,
		info.UpdatedAt,
		info.PatientID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient info: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient info", nil)
	}

	return nil
}
