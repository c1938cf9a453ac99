package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ttracx/invoicetracker/internal/core"
)

// PaymentStore is the slice of the repository the payment flow needs.
type PaymentStore interface {
	GetInvoice(ctx context.Context, ownerID, id string) (core.Invoice, error)
	RecordPayment(ctx context.Context, p core.Payment, newStatus core.Status) error
	ListPayments(ctx context.Context, ownerID, invoiceID string) ([]core.Payment, error)
}

// PaymentService allocates payments against invoices. The allocation rule:
// the new paid total is prior payments plus this amount; at or above the
// invoice total the invoice becomes PAID, otherwise PARTIAL. A PAID invoice
// is never demoted, and a payment that would push the paid total past the
// invoice total is rejected outright.
type PaymentService struct {
	store   PaymentStore
	clock   Clock
	reports ReportInvalidator
}

func NewPaymentService(store PaymentStore, clock Clock, reports ReportInvalidator) *PaymentService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PaymentService{store: store, clock: clock, reports: reports}
}

// PaymentInput is one payment as submitted by the caller.
type PaymentInput struct {
	InvoiceID   string
	Amount      core.Money
	PaymentDate time.Time
	Method      core.PaymentMethod
	Reference   string
	Notes       string
}

func (s *PaymentService) Record(ctx context.Context, ownerID string, in PaymentInput) (core.Payment, error) {
	p := core.Payment{
		ID:          uuid.NewString(),
		InvoiceID:   in.InvoiceID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Method:      in.Method,
		Reference:   strings.TrimSpace(in.Reference),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.clock.Now(),
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	inv, err := s.store.GetInvoice(ctx, ownerID, in.InvoiceID)
	if err != nil {
		return core.Payment{}, err
	}

	prior := inv.PaidAmount()
	if prior.Cents+p.Amount.Cents > inv.Total.Cents {
		return core.Payment{}, core.ErrOverpayment
	}

	newPaid := prior.Cents + p.Amount.Cents
	newStatus := core.StatusPartial
	if newPaid >= inv.Total.Cents {
		newStatus = core.StatusPaid
	}
	// Only write the status when it actually moves.
	statusToSet := newStatus
	if inv.Status == newStatus || inv.Status == core.StatusPaid {
		statusToSet = ""
	}

	if err := s.store.RecordPayment(ctx, p, statusToSet); err != nil {
		return core.Payment{}, fmt.Errorf("record payment: %w", err)
	}
	s.invalidate(ownerID)

	p.InvoiceNumber = inv.Number
	p.ClientName = inv.ClientName

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", p.ID,
		"invoice_id", inv.ID,
		"amount_cents", p.Amount.Cents,
		"new_status", newStatus)
	return p, nil
}

// List returns the owner's payments, optionally narrowed to one invoice.
// When invoiceID is set the invoice is loaded first so a foreign or missing
// invoice reads as not found rather than an empty list.
func (s *PaymentService) List(ctx context.Context, ownerID, invoiceID string) ([]core.Payment, error) {
	if invoiceID != "" {
		if _, err := s.store.GetInvoice(ctx, ownerID, invoiceID); err != nil {
			return nil, err
		}
	}
	return s.store.ListPayments(ctx, ownerID, invoiceID)
}

func (s *PaymentService) invalidate(ownerID string) {
	if s.reports != nil {
		s.reports.Invalidate(ownerID)
	}
}
