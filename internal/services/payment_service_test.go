package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ttracx/invoicetracker/internal/core"
)

func seedOpenInvoice(store *fakeStore, id string, totalCents int64, status core.Status) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	store.invoices[id] = core.Invoice{
		ID: id, OwnerID: "u1", ClientID: "c1", Number: "INV-" + id,
		IssueDate: now, DueDate: now.AddDate(0, 0, 30), Status: status,
		Total: core.Money{Cents: totalCents}, CreatedAt: now,
	}
}

func paymentInput(invoiceID string, cents int64) PaymentInput {
	return PaymentInput{
		InvoiceID:   invoiceID,
		Amount:      core.Money{Cents: cents},
		PaymentDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Method:      core.MethodBankTransfer,
	}
}

func TestRecordPaymentAllocation(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 70000, core.StatusSent)
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)
	ctx := context.Background()

	// 200 of 700: invoice moves to PARTIAL.
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 20000)); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if got := store.invoices["i1"].Status; got != core.StatusPartial {
		t.Errorf("after partial payment status = %s, want PARTIAL", got)
	}

	// Remaining 500: invoice moves to PAID.
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 50000)); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if got := store.invoices["i1"].Status; got != core.StatusPaid {
		t.Errorf("after full payment status = %s, want PAID", got)
	}
	if len(store.payments) != 2 {
		t.Errorf("payments = %d, want 2", len(store.payments))
	}
}

func TestRecordPaymentOneCentShort(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 10000, core.StatusSent)
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)
	ctx := context.Background()

	// 60.00 + 39.99 leaves one cent outstanding: still PARTIAL.
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 6000)); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 3999)); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if got := store.invoices["i1"].Status; got != core.StatusPartial {
		t.Errorf("at 99.99 of 100.00 status = %s, want PARTIAL", got)
	}

	// The final cent settles the invoice.
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 1)); err != nil {
		t.Fatalf("final cent: %v", err)
	}
	if got := store.invoices["i1"].Status; got != core.StatusPaid {
		t.Errorf("after final cent status = %s, want PAID", got)
	}
}

func TestRecordPaymentOverpaymentRejected(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 70000, core.StatusSent)
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 70001)); !errors.Is(err, core.ErrOverpayment) {
		t.Fatalf("error = %v, want ErrOverpayment", err)
	}
	if len(store.payments) != 0 {
		t.Errorf("rejected payment was persisted")
	}

	// Partial first, then an amount that would push past the total.
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 40000)); err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 40000)); !errors.Is(err, core.ErrOverpayment) {
		t.Errorf("error = %v, want ErrOverpayment", err)
	}
}

func TestRecordPaymentNeverDemotesPaid(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 0, core.StatusPaid)
	// A paid invoice has zero outstanding, so any positive amount overpays.
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)

	if _, err := svc.Record(context.Background(), "u1", paymentInput("i1", 1)); !errors.Is(err, core.ErrOverpayment) {
		t.Errorf("error = %v, want ErrOverpayment", err)
	}
	if got := store.invoices["i1"].Status; got != core.StatusPaid {
		t.Errorf("status = %s, want PAID untouched", got)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 70000, core.StatusSent)
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   PaymentInput
		wantErr error
	}{
		{"zero amount", PaymentInput{InvoiceID: "i1", Method: core.MethodCash, PaymentDate: time.Now()}, core.ErrInvalidAmount},
		{"bad method", PaymentInput{InvoiceID: "i1", Amount: core.Money{Cents: 100}, Method: "IOU", PaymentDate: time.Now()}, core.ErrInvalidMethod},
		{"zero date", PaymentInput{InvoiceID: "i1", Amount: core.Money{Cents: 100}, Method: core.MethodCash}, core.ErrInvalidDate},
		{"missing invoice", paymentInput("missing", 100), core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, "u1", tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Foreign owner's invoice reads as not found.
	if _, err := svc.Record(ctx, "u2", paymentInput("i1", 100)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner error = %v, want ErrNotFound", err)
	}
}

func TestListPaymentsScopesInvoice(t *testing.T) {
	store := newFakeStore()
	seedOpenInvoice(store, "i1", 70000, core.StatusSent)
	svc := NewPaymentService(store, fakeClock{time.Now()}, nil)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "u1", paymentInput("i1", 10000)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	payments, err := svc.List(ctx, "u1", "i1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("payments = %d, want 1", len(payments))
	}

	if _, err := svc.List(ctx, "u1", "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing invoice error = %v, want ErrNotFound", err)
	}
	if _, err := svc.List(ctx, "u2", "i1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-owner error = %v, want ErrNotFound", err)
	}
}
