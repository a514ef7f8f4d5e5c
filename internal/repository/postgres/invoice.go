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

// Create inserts the invoice and its items in a single transaction. The
// stored total always matches the sum of the stored item amounts.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice, items []*model.InvoiceItem) error {
	invoice.ID = uuid.New()
	invoice.InvoiceDate = time.Now()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO invoices (
				id, patient_id, appointment_id, invoice_date, due_date,
				total_amount, status, payment_method, payment_date, notes,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err := tx.ExecContext(ctx, query,
			invoice.ID,
			invoice.PatientID,
			invoice.AppointmentID,
			invoice.InvoiceDate,
			invoice.DueDate,
			invoice.TotalAmount,
			invoice.Status,
			invoice.PaymentMethod,
			invoice.PaymentDate,
			invoice.Notes,
			invoice.CreatedAt,
			invoice.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		for _, item := range items {
			item.ID = uuid.New()
			item.InvoiceID = invoice.ID
			item.CreatedAt = time.Now()
			item.UpdatedAt = time.Now()
			if err := insertInvoiceItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertInvoiceItem(ctx context.Context, tx *sqlx.Tx, item *model.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (
			id, invoice_id, description, quantity, unit_price, amount,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		item.ID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice item: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `
		SELECT id, patient_id, appointment_id, invoice_date, due_date,
			   total_amount, status, payment_method, payment_date, notes,
			   created_at, updated_at
		FROM invoices
		WHERE id = $1
	`
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("invoice", err)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET due_date = $1, status = $2, payment_method = $3,
			payment_date = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`
	invoice.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		invoice.DueDate,
		invoice.Status,
		invoice.PaymentMethod,
		invoice.PaymentDate,
		invoice.Notes,
		invoice.UpdatedAt,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("invoice", nil)
	}

	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM invoices
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("invoice", nil)
	}

	return nil
}

func (r *invoiceRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Invoice, error) {
	query := `
		SELECT id, patient_id, appointment_id, invoice_date, due_date,
			   total_amount, status, payment_method, payment_date, notes,
			   created_at, updated_at
		FROM invoices
		WHERE patient_id = $1
		ORDER BY invoice_date DESC
	`
	var invoices []*model.Invoice
	err := r.db.SelectContext(ctx, &invoices, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) List(ctx context.Context) ([]*model.Invoice, error) {
	query := `
		SELECT id, patient_id, appointment_id, invoice_date, due_date,
			   total_amount, status, payment_method, payment_date, notes,
			   created_at, updated_at
		FROM invoices
		ORDER BY invoice_date DESC
	`
	var invoices []*model.Invoice
	err := r.db.SelectContext(ctx, &invoices, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// AddItem inserts a line and re-derives the invoice total in one transaction
func (r *invoiceRepository) AddItem(ctx context.Context, item *model.InvoiceItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertInvoiceItem(ctx, tx, item); err != nil {
			return err
		}

		query := `
			UPDATE invoices
			SET total_amount = (
				SELECT COALESCE(SUM(amount), 0)
				FROM invoice_items
				WHERE invoice_id = $1
			), updated_at = $2
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, query, item.InvoiceID, time.Now()); err != nil {
			return fmt.Errorf("failed to update invoice total: %w", err)
		}
		return nil
	})
}

func (r *invoiceRepository) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*model.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, amount,
			   created_at, updated_at
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at ASC
	`
	var items []*model.InvoiceItem
	err := r.db.SelectContext(ctx, &items, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	return items, nil
}
