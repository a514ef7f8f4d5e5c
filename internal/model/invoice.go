package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice bills a patient. All money fields are integer minor units
// (paise); TotalAmount is always recomputed from the items server-side.
type Invoice struct {
	Base
	PatientID     uuid.UUID     `json:"patient_id" db:"patient_id"`
	AppointmentID *uuid.UUID    `json:"appointment_id" db:"appointment_id"`
	InvoiceDate   time.Time     `json:"invoice_date" db:"invoice_date"`
	DueDate       *string       `json:"due_date" db:"due_date"`
	TotalAmount   int64         `json:"total_amount" db:"total_amount"`
	Status        InvoiceStatus `json:"status" db:"status"`
	PaymentMethod *string       `json:"payment_method" db:"payment_method"`
	PaymentDate   *time.Time    `json:"payment_date" db:"payment_date"`
	Notes         *string       `json:"notes" db:"notes"`
}

// InvoiceItem is one billed line. Amount = UnitPrice * Quantity, derived
// server-side on every write.
type InvoiceItem struct {
	Base
	InvoiceID   uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Description string    `json:"description" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   int64     `json:"unit_price" db:"unit_price"`
	Amount      int64     `json:"amount" db:"amount"`
}

// InvoiceDetail is an invoice shaped for responses
type InvoiceDetail struct {
	Invoice
	Patient *UserSummary   `json:"patient"`
	Items   []*InvoiceItem `json:"items"`
}

// InvoiceItemRequest carries one billed line. Any client-sent amount is
// ignored.
type InvoiceItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   int64  `json:"unit_price" binding:"required,min=0"`
}

// CreateInvoiceRequest carries a new invoice, items optional
type CreateInvoiceRequest struct {
	PatientID     uuid.UUID             `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID            `json:"appointment_id"`
	DueDate       *string               `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Notes         *string               `json:"notes"`
	Items         []*InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceRequest carries partial invoice updates. Total amount is
// never writable directly.
type UpdateInvoiceRequest struct {
	DueDate       *string        `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Status        *InvoiceStatus `json:"status" binding:"omitempty,oneof=unpaid paid cancelled"`
	PaymentMethod *string        `json:"payment_method"`
	Notes         *string        `json:"notes"`
}
