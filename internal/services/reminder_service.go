package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/storage"
)

// minReminderGap is how long an invoice is left alone after a reminder of
// the same kind, regardless of how often the sweep runs.
const minReminderGap = 20 * time.Hour

// ReminderStore is the slice of the repository the reminder engine needs.
type ReminderStore interface {
	ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]core.Invoice, error)
	ListOverdue(ctx context.Context, limit int) ([]core.Invoice, error)
	ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]core.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status core.Status) error
	HasRecentReminder(ctx context.Context, invoiceID string, kind core.ReminderKind, since time.Time) (bool, error)
	ListReminders(ctx context.Context, ownerID string) ([]core.Reminder, error)
	ListInvoices(ctx context.Context, ownerID string, f storage.InvoiceFilter) ([]core.Invoice, error)
}

// ReminderPublisher puts reminder messages on the queue. Implemented by the
// AMQP client; nil when no broker is configured.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, invoiceID, kind string) error
}

// ReminderService runs the periodic receivables sweep: it promotes lapsed
// invoices to OVERDUE and queues upcoming and past-due reminders. Actual
// delivery happens in the worker that consumes the queue.
type ReminderService struct {
	store     ReminderStore
	publisher ReminderPublisher
	clock     Clock

	batchSize      int
	upcomingWindow time.Duration
}

func NewReminderService(store ReminderStore, publisher ReminderPublisher, clock Clock, batchSize int, upcomingWindow time.Duration) *ReminderService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReminderService{
		store:          store,
		publisher:      publisher,
		clock:          clock,
		batchSize:      batchSize,
		upcomingWindow: upcomingWindow,
	}
}

// SweepOverdue promotes SENT and VIEWED invoices whose due date has passed
// to OVERDUE. Returns how many invoices moved.
func (s *ReminderService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	candidates, err := s.store.ListOverdueCandidates(ctx, now, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list overdue candidates: %w", err)
	}

	moved := 0
	for _, inv := range candidates {
		if core.DaysOverdue(now, inv.DueDate) <= 0 {
			continue
		}
		if err := s.store.UpdateInvoiceStatus(ctx, inv.ID, core.StatusOverdue); err != nil {
			slog.ErrorContext(ctx, "Failed to promote invoice to overdue",
				"invoice_id", inv.ID, "error", err)
			continue
		}
		moved++
	}

	if moved > 0 {
		slog.InfoContext(ctx, "Overdue sweep completed", "promoted", moved)
	}
	return moved, nil
}

// ScheduleReminders queues reminders for invoices due inside the upcoming
// window and for invoices already overdue. Invoices reminded recently are
// skipped. Returns how many messages were published.
func (s *ReminderService) ScheduleReminders(ctx context.Context) (int, error) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "No reminder publisher configured, skipping scheduling")
		return 0, nil
	}
	now := s.clock.Now()

	upcoming, err := s.store.ListDueSoon(ctx, now, s.upcomingWindow, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list due soon: %w", err)
	}
	overdue, err := s.store.ListOverdue(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list overdue: %w", err)
	}

	published := 0
	published += s.publishBatch(ctx, now, upcoming, core.ReminderUpcoming)
	published += s.publishBatch(ctx, now, overdue, core.ReminderOverdue)
	return published, nil
}

func (s *ReminderService) publishBatch(ctx context.Context, now time.Time, invoices []core.Invoice, kind core.ReminderKind) int {
	published := 0
	for _, inv := range invoices {
		recent, err := s.store.HasRecentReminder(ctx, inv.ID, kind, now.Add(-minReminderGap))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check recent reminders",
				"invoice_id", inv.ID, "error", err)
			continue
		}
		if recent {
			continue
		}
		if err := s.publisher.PublishReminder(ctx, inv.ID, string(kind)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"invoice_id", inv.ID, "kind", kind, "error", err)
			continue
		}
		published++
	}
	return published
}

// List returns the owner's reminder history, newest first.
func (s *ReminderService) List(ctx context.Context, ownerID string) ([]core.Reminder, error) {
	return s.store.ListReminders(ctx, ownerID)
}

// PendingReminder is one invoice currently inside a reminder window.
// DaysUntilDue is negative once the invoice is past due.
type PendingReminder struct {
	Invoice      core.Invoice
	Kind         core.ReminderKind
	DaysUntilDue int
}

// Pending classifies the owner's open invoices into upcoming and overdue
// reminder candidates as of now, soonest due date first. This is the
// read-side view of what the sweep acts on; it publishes nothing.
func (s *ReminderService) Pending(ctx context.Context, ownerID string) ([]PendingReminder, error) {
	invoices, err := s.store.ListInvoices(ctx, ownerID, storage.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("list invoices for reminders: %w", err)
	}

	now := s.clock.Now()
	pending := make([]PendingReminder, 0)
	for _, inv := range invoices {
		if !inv.Status.Open() {
			continue
		}
		overdue := core.DaysOverdue(now, inv.DueDate)
		switch {
		case overdue > 0:
			pending = append(pending, PendingReminder{Invoice: inv, Kind: core.ReminderOverdue, DaysUntilDue: -overdue})
		case -overdue <= int(s.upcomingWindow/(24*time.Hour)):
			pending = append(pending, PendingReminder{Invoice: inv, Kind: core.ReminderUpcoming, DaysUntilDue: -overdue})
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i].Invoice, pending[j].Invoice
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.Number < b.Number
	})
	return pending, nil
}
