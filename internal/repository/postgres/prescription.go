package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/guhospital/hms-api/internal/model"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
)

// Create inserts the prescription and its items in a single transaction
func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription, items []*model.PrescriptionItem) error {
	prescription.ID = uuid.New()
	prescription.PrescriptionDate = time.Now()
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO prescriptions (
				id, patient_id, doctor_id, appointment_id, prescription_date,
				expiry_date, diagnosis, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			prescription.ID,
			prescription.PatientID,
			prescription.DoctorID,
			prescription.AppointmentID,
			prescription.PrescriptionDate,
			prescription.ExpiryDate,
			prescription.Diagnosis,
			prescription.Notes,
			prescription.CreatedAt,
			prescription.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}

		for _, item := range items {
			item.ID = uuid.New()
			item.PrescriptionID = prescription.ID
			item.CreatedAt = time.Now()
			item.UpdatedAt = time.Now()
			if err := insertPrescriptionItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPrescriptionItem(ctx context.Context, tx *sqlx.Tx, item *model.PrescriptionItem) error {
	query := `
		INSERT INTO prescription_items (
			id, prescription_id, medication_name, dosage, frequency,
			duration, instructions, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		item.ID,
		item.PrescriptionID,
		item.MedicationName,
		item.Dosage,
		item.Frequency,
		item.Duration,
		item.Instructions,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription item: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_id, prescription_date,
			   expiry_date, diagnosis, notes, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`
	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET expiry_date = $1, diagnosis = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	prescription.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		prescription.ExpiryDate,
		prescription.Diagnosis,
		prescription.Notes,
		prescription.UpdatedAt,
		prescription.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("prescription", nil)
	}

	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM prescriptions
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("prescription", nil)
	}

	return nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_id, prescription_date,
			   expiry_date, diagnosis, notes, created_at, updated_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY prescription_date DESC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_id, prescription_date,
			   expiry_date, diagnosis, notes, created_at, updated_at
		FROM prescriptions
		WHERE doctor_id = $1
		ORDER BY prescription_date DESC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) AddItem(ctx context.Context, item *model.PrescriptionItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertPrescriptionItem(ctx, tx, item)
	})
}

func (r *prescriptionRepository) GetItems(ctx context.Context, prescriptionID uuid.UUID) ([]*model.PrescriptionItem, error) {
	query := `
		SELECT id, prescription_id, medication_name, dosage, frequency,
			   duration, instructions, created_at, updated_at
		FROM prescription_items
		WHERE prescription_id = $1
		ORDER BY created_at ASC
	`
	var items []*model.PrescriptionItem
	err := r.db.SelectContext(ctx, &items, query, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescription items: %w", err)
	}
	return items, nil
}
