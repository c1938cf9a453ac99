package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/storage"
)

// InvoiceStore is the slice of the repository the invoice flow needs.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv core.Invoice) error
	UpdateInvoice(ctx context.Context, inv core.Invoice) error
	DeleteInvoice(ctx context.Context, ownerID, id string) error
	GetInvoice(ctx context.Context, ownerID, id string) (core.Invoice, error)
	ListInvoices(ctx context.Context, ownerID string, f storage.InvoiceFilter) ([]core.Invoice, error)
	GetClient(ctx context.Context, ownerID, id string) (core.Client, error)
}

// InvoiceService owns the invoice lifecycle: totals are always recomputed
// from the line items, and the items themselves are replaced wholesale on
// every update.
type InvoiceService struct {
	store   InvoiceStore
	clock   Clock
	reports ReportInvalidator
}

func NewInvoiceService(store InvoiceStore, clock Clock, reports ReportInvalidator) *InvoiceService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &InvoiceService{store: store, clock: clock, reports: reports}
}

// LineItemInput is one billed line as submitted by the caller.
type LineItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   core.Money
}

// InvoiceInput is the mutable surface of an invoice.
type InvoiceInput struct {
	ClientID  string
	IssueDate time.Time
	DueDate   time.Time
	Status    core.Status // empty means DRAFT on create, unchanged on update
	Tax       core.Money
	Notes     string
	Items     []LineItemInput
}

func (s *InvoiceService) Create(ctx context.Context, ownerID string, in InvoiceInput) (core.Invoice, error) {
	items, err := s.buildItems(in.Items)
	if err != nil {
		return core.Invoice{}, err
	}
	if err := validateDates(in.IssueDate, in.DueDate); err != nil {
		return core.Invoice{}, err
	}

	status := in.Status
	if status == "" {
		status = core.StatusDraft
	}
	if !status.Valid() {
		return core.Invoice{}, core.ErrInvalidStatus
	}

	// The client must exist and belong to the caller.
	if _, err := s.store.GetClient(ctx, ownerID, in.ClientID); err != nil {
		return core.Invoice{}, err
	}

	now := s.clock.Now()
	totals := core.ComputeTotals(items, in.Tax)
	inv := core.Invoice{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ClientID:  in.ClientID,
		Number:    core.GenerateInvoiceNumber(now),
		IssueDate: in.IssueDate,
		DueDate:   in.DueDate,
		Status:    status,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Notes:     strings.TrimSpace(in.Notes),
		Items:     items,
		CreatedAt: now,
	}

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	s.invalidate(ownerID)

	slog.InfoContext(ctx, "Invoice created",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"status", inv.Status,
		"total_cents", inv.Total.Cents)
	return inv, nil
}

// Update rewrites the invoice from the input. The invoice number and
// recorded payments are untouched; everything else, line items included,
// is replaced.
func (s *InvoiceService) Update(ctx context.Context, ownerID, id string, in InvoiceInput) (core.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, ownerID, id)
	if err != nil {
		return core.Invoice{}, err
	}

	items, err := s.buildItems(in.Items)
	if err != nil {
		return core.Invoice{}, err
	}
	if err := validateDates(in.IssueDate, in.DueDate); err != nil {
		return core.Invoice{}, err
	}

	status := in.Status
	if status == "" {
		status = inv.Status
	}
	if !status.Valid() {
		return core.Invoice{}, core.ErrInvalidStatus
	}

	if in.ClientID != inv.ClientID {
		if _, err := s.store.GetClient(ctx, ownerID, in.ClientID); err != nil {
			return core.Invoice{}, err
		}
		inv.ClientID = in.ClientID
	}

	totals := core.ComputeTotals(items, in.Tax)
	inv.IssueDate = in.IssueDate
	inv.DueDate = in.DueDate
	inv.Status = status
	inv.Subtotal = totals.Subtotal
	inv.Tax = totals.Tax
	inv.Total = totals.Total
	inv.Notes = strings.TrimSpace(in.Notes)
	inv.Items = items

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return core.Invoice{}, err
	}
	s.invalidate(ownerID)
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteInvoice(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ownerID)
	return nil
}

func (s *InvoiceService) Get(ctx context.Context, ownerID, id string) (core.Invoice, error) {
	return s.store.GetInvoice(ctx, ownerID, id)
}

func (s *InvoiceService) List(ctx context.Context, ownerID string, f storage.InvoiceFilter) ([]core.Invoice, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, core.ErrInvalidStatus
	}
	return s.store.ListInvoices(ctx, ownerID, f)
}

func (s *InvoiceService) buildItems(inputs []LineItemInput) ([]core.LineItem, error) {
	if len(inputs) == 0 {
		return nil, core.ErrEmptyItems
	}
	items := make([]core.LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = core.LineItem{
			ID:          uuid.NewString(),
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
	}
	return core.PriceItems(items), nil
}

func validateDates(issue, due time.Time) error {
	if issue.IsZero() || due.IsZero() {
		return core.ErrInvalidDate
	}
	if due.Before(issue) {
		return core.ErrInvalidDate
	}
	return nil
}

func (s *InvoiceService) invalidate(ownerID string) {
	if s.reports != nil {
		s.reports.Invalidate(ownerID)
	}
}
