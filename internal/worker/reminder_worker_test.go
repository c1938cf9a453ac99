package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ttracx/invoicetracker/internal/amqp"
	"github.com/ttracx/invoicetracker/internal/core"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeStore struct {
	invoices   map[string]core.Invoice
	reminders  []core.Reminder
	getErr     error
	hasRecent  bool
	recentFrom time.Time
}

func newStore() *fakeStore {
	return &fakeStore{invoices: make(map[string]core.Invoice)}
}

func (f *fakeStore) GetInvoiceByID(ctx context.Context, id string) (core.Invoice, error) {
	if f.getErr != nil {
		return core.Invoice{}, f.getErr
	}
	inv, ok := f.invoices[id]
	if !ok {
		return core.Invoice{}, core.ErrNotFound
	}
	return inv, nil
}

func (f *fakeStore) CreateReminder(ctx context.Context, rem core.Reminder) error {
	f.reminders = append(f.reminders, rem)
	return nil
}

func (f *fakeStore) HasRecentReminder(ctx context.Context, invoiceID string, kind core.ReminderKind, since time.Time) (bool, error) {
	f.recentFrom = since
	return f.hasRecent, nil
}

func message(invoiceID, kind string) *amqp.ReminderMessage {
	return &amqp.ReminderMessage{
		InvoiceID: invoiceID,
		Kind:      kind,
		Timestamp: time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC),
	}
}

func TestHandleReminderMessage(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	store := newStore()
	store.invoices["i1"] = core.Invoice{
		ID: "i1", Number: "INV-1", Status: core.StatusOverdue,
		Total: core.Money{Cents: 50000}, DueDate: now.AddDate(0, 0, -10),
	}
	w := NewReminderWorker(store, fixedClock{now})

	if err := w.HandleReminderMessage(context.Background(), message("i1", "overdue")); err != nil {
		t.Fatalf("HandleReminderMessage: %v", err)
	}

	if len(store.reminders) != 1 {
		t.Fatalf("reminders = %d, want 1", len(store.reminders))
	}
	rem := store.reminders[0]
	if rem.InvoiceID != "i1" || rem.Kind != core.ReminderOverdue {
		t.Errorf("unexpected reminder: %+v", rem)
	}
	if rem.SentAt == nil || !rem.SentAt.Equal(now) {
		t.Errorf("SentAt = %v, want the worker clock's now", rem.SentAt)
	}
	if rem.ScheduledAt.IsZero() {
		t.Error("ScheduledAt not carried from the message")
	}
	if want := now.Add(-redeliveryGap); !store.recentFrom.Equal(want) {
		t.Errorf("dedupe window start = %v, want %v", store.recentFrom, want)
	}
}

func TestHandleReminderMessageDrops(t *testing.T) {
	store := newStore()
	store.invoices["paid"] = core.Invoice{ID: "paid", Status: core.StatusPaid}
	w := NewReminderWorker(store, nil)
	ctx := context.Background()

	// Unknown kind, missing invoice, and settled invoice are all dropped
	// without error so the broker does not redeliver them.
	tests := []struct {
		name string
		msg  *amqp.ReminderMessage
	}{
		{"unknown kind", message("paid", "nag")},
		{"missing invoice", message("ghost", "overdue")},
		{"settled invoice", message("paid", "overdue")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.HandleReminderMessage(ctx, tt.msg); err != nil {
				t.Errorf("error = %v, want nil", err)
			}
		})
	}
	if len(store.reminders) != 0 {
		t.Errorf("dropped messages recorded %d reminders", len(store.reminders))
	}
}

func TestHandleReminderMessageDeduplicates(t *testing.T) {
	store := newStore()
	store.invoices["i1"] = core.Invoice{ID: "i1", Status: core.StatusOverdue}
	store.hasRecent = true
	w := NewReminderWorker(store, nil)

	if err := w.HandleReminderMessage(context.Background(), message("i1", "overdue")); err != nil {
		t.Fatalf("HandleReminderMessage: %v", err)
	}
	if len(store.reminders) != 0 {
		t.Errorf("redelivered message recorded a second reminder")
	}
}

func TestHandleReminderMessageRequeuesOnStoreError(t *testing.T) {
	store := newStore()
	store.getErr = errors.New("db locked")
	w := NewReminderWorker(store, nil)

	if err := w.HandleReminderMessage(context.Background(), message("i1", "overdue")); err == nil {
		t.Error("transient store error should surface for redelivery")
	}
}
