package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

func (r *medicalFileRepository) Create(ctx context.Context, file *model.MedicalFile) error {
	query := `
		INSERT INTO medical_files (
			id, patient_id, record_id, file_type, file_name, file_data,
			upload_date, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	file.ID = uuid.New()
	file.UploadDate = time.Now()
	file.CreatedAt = time.Now()
	file.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.PatientID,
		file.RecordID,
		file.FileType,
		file.FileName,
		file.FileData,
		file.UploadDate,
		file.Description,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical file: %w", err)
	}
	return nil
}

func (r *medicalFileRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalFile, error) {
	query := `
		SELECT id, patient_id, record_id, file_type, file_name, file_data,
			   upload_date, description, created_at, updated_at
		FROM medical_files
		WHERE id = $1
	`
	var file model.MedicalFile
	err := r.db.GetContext(ctx, &file, query, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("medical file", err)
		}
		return nil, fmt.Errorf("failed to get medical file: %w", err)
	}
	return &file, nil
}

func (r *medicalFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM medical_files
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("medical file", nil)
	}

	return nil
}

func (r *medicalFileRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalFile, error) {
	query := `
		SELECT id, patient_id, record_id, file_type, file_name, file_data,
			   upload_date, description, created_at, updated_at
		FROM medical_files
		WHERE patient_id = $1
		ORDER BY upload_date DESC
	`
	var files []*model.MedicalFile
	err := r.db.SelectContext(ctx, &files, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical files: %w", err)
	}
	return files, nil
}
