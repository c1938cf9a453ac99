package core

import (
	"errors"
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusSent, StatusViewed, StatusPartial, StatusPaid, StatusOverdue, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s reported invalid", s)
		}
	}
	if Status("SHIPPED").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestStatusOpen(t *testing.T) {
	open := map[Status]bool{
		StatusDraft:     false,
		StatusSent:      true,
		StatusViewed:    true,
		StatusPartial:   true,
		StatusPaid:      false,
		StatusOverdue:   true,
		StatusCancelled: false,
	}
	for s, want := range open {
		if got := s.Open(); got != want {
			t.Errorf("%s.Open() = %v, want %v", s, got, want)
		}
	}
}

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr error
	}{
		{"valid", Client{Name: "Acme", Email: "billing@acme.test"}, nil},
		{"empty name", Client{Name: "  ", Email: "a@b.test"}, ErrEmptyName},
		{"empty email", Client{Name: "Acme", Email: ""}, ErrInvalidEmail},
		{"email without at", Client{Name: "Acme", Email: "acme.test"}, ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLineItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    LineItem
		wantErr error
	}{
		{"valid", LineItem{Description: "design", Quantity: 1, UnitPrice: Money{Cents: 100}}, nil},
		{"blank description", LineItem{Description: " ", Quantity: 1, UnitPrice: Money{Cents: 100}}, ErrEmptyDescription},
		{"zero quantity", LineItem{Description: "design", Quantity: 0, UnitPrice: Money{Cents: 100}}, ErrInvalidQuantity},
		{"zero price", LineItem{Description: "design", Quantity: 1}, ErrInvalidUnitPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		payment Payment
		wantErr error
	}{
		{"valid", Payment{Amount: Money{Cents: 100}, Method: MethodCheck, PaymentDate: now}, nil},
		{"zero amount", Payment{Method: MethodCash, PaymentDate: now}, ErrInvalidAmount},
		{"bad method", Payment{Amount: Money{Cents: 100}, Method: "BARTER", PaymentDate: now}, ErrInvalidMethod},
		{"zero date", Payment{Amount: Money{Cents: 100}, Method: MethodCash}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvoicePaidAndOutstanding(t *testing.T) {
	inv := Invoice{
		Total: Money{Cents: 50000},
		Payments: []Payment{
			{Amount: Money{Cents: 20000}},
			{Amount: Money{Cents: 5000}},
		},
	}
	if got := inv.PaidAmount().Cents; got != 25000 {
		t.Errorf("PaidAmount = %d, want 25000", got)
	}
	if got := inv.Outstanding().Cents; got != 25000 {
		t.Errorf("Outstanding = %d, want 25000", got)
	}
}
