// Package billing handles invoices. All money is kept in integer minor
// units (paise); line amounts and invoice totals are always derived
// server-side and any client-sent figures are ignored.
package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/email"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/internal/service/audit"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/logger"
	"github.com/guhospital/hms-api/pkg/metrics"
)

type Service struct {
	repo    repository.InvoiceRepository
	users   repository.UserRepository
	outbox  repository.OutboxRepository
	auditor *audit.Service
	mailer  email.Service
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(
	repo repository.InvoiceRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	auditor *audit.Service,
	mailer email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		outbox:  outbox,
		auditor: auditor,
		mailer:  mailer,
		metrics: m,
		logger:  log,
	}
}

// Create issues an invoice; doctors only. Items are stored with the invoice
// in one transaction and the total is the sum of the derived line amounts.
func (s *Service) Create(ctx context.Context, actor access.Actor, req *model.CreateInvoiceRequest) (*model.InvoiceDetail, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can issue invoices", nil)
	}

	patient, err := s.users.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient.IsDoctor() {
		return nil, apperrors.BadRequest("user is not a patient", nil)
	}

	items := make([]*model.InvoiceItem, 0, len(req.Items))
	var total int64
	for _, it := range req.Items {
		amount := it.UnitPrice * int64(it.Quantity)
		total += amount
		items = append(items, &model.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
		})
	}

	invoice := &model.Invoice{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		DueDate:       req.DueDate,
		TotalAmount:   total,
		Status:        model.InvoiceStatusUnpaid,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, invoice, items); err != nil {
		return nil, err
	}

	s.metrics.InvoicesIssued.Inc()
	s.publishEvent(ctx, model.EventInvoiceIssued, invoice)
	s.auditor.Log(ctx, actor, "create", "invoice", invoice.ID, nil)

	if err := s.mailer.SendInvoiceNotice(patient.Email, patient.FullName, invoice.TotalAmount); err != nil {
		s.logger.Error(err, "failed to send invoice notice", "invoice_id", invoice.ID)
	}

	detail := &model.InvoiceDetail{Invoice: *invoice, Items: items, Patient: patient.Summary()}
	return detail, nil
}

// Get returns one invoice with its items
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.InvoiceDetail, error) {
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessRecord(actor, invoice.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.InvoiceDetail{Invoice: *invoice, Items: items}
	if patient, err := s.users.Get(ctx, invoice.PatientID); err == nil {
		detail.Patient = patient.Summary()
	}
	return detail, nil
}

// List returns invoices visible to the caller: all of them for doctors,
// only their own for patients.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]*model.Invoice, error) {
	if actor.IsDoctor() {
		return s.repo.List(ctx)
	}
	return s.repo.ListByPatient(ctx, actor.ID)
}

// ListByPatient returns one patient's invoices
func (s *Service) ListByPatient(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*model.Invoice, error) {
	if !access.CanAccessRecord(actor, patientID) {
		return nil, apperrors.Forbidden("", nil)
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// Update applies status and metadata changes. Marking paid stamps the
// payment date; the total is never writable.
func (s *Service) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateInvoiceRequest) (*model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanAccessRecord(actor, invoice.PatientID) {
		return nil, apperrors.Forbidden("", nil)
	}

	paidNow := false
	if req.Status != nil && *req.Status != invoice.Status {
		invoice.Status = *req.Status
		if *req.Status == model.InvoiceStatusPaid {
			now := time.Now()
			invoice.PaymentDate = &now
			paidNow = true
		}
	}
	if req.DueDate != nil {
		invoice.DueDate = req.DueDate
	}
	if req.PaymentMethod != nil {
		invoice.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != nil {
		invoice.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if paidNow {
		s.publishEvent(ctx, model.EventInvoicePaid, invoice)
	}
	s.auditor.Log(ctx, actor, "update", "invoice", id, nil)
	return invoice, nil
}

// Delete removes an invoice; doctors only
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if !actor.IsDoctor() {
		return apperrors.Forbidden("only doctors can delete invoices", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditor.Log(ctx, actor, "delete", "invoice", id, nil)
	return nil
}

// AddItem appends a billed line; doctors only. The line amount is derived
// and the invoice total re-derived in the same transaction.
func (s *Service) AddItem(ctx context.Context, actor access.Actor, invoiceID uuid.UUID, req *model.InvoiceItemRequest) (*model.InvoiceItem, error) {
	if !actor.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can modify invoices", nil)
	}

	invoice, err := s.repo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != model.InvoiceStatusUnpaid {
		return nil, apperrors.Conflict("only unpaid invoices can be modified", nil)
	}

	item := &model.InvoiceItem{
		InvoiceID:   invoiceID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Amount:      req.UnitPrice * int64(req.Quantity),
	}

	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, actor, "update", "invoice", invoiceID, nil)
	return item, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, invoice *model.Invoice) {
	payload, err := json.Marshal(invoice)
	if err != nil {
		s.logger.Error(err, "failed to marshal invoice event", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue invoice event", "event_type", eventType)
	}
}
