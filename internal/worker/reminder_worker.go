package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ttracx/invoicetracker/internal/amqp"
	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/log"
	"github.com/ttracx/invoicetracker/internal/services"
)

// redeliveryGap mirrors the scheduler's dedupe window so a redelivered
// message never produces a second reminder row.
const redeliveryGap = 20 * time.Hour

// Store is the slice of the repository the reminder worker needs.
type Store interface {
	GetInvoiceByID(ctx context.Context, id string) (core.Invoice, error)
	CreateReminder(ctx context.Context, rem core.Reminder) error
	HasRecentReminder(ctx context.Context, invoiceID string, kind core.ReminderKind, since time.Time) (bool, error)
}

// ReminderWorker consumes reminder messages from the queue and records
// delivery. Notification channels (mail, webhooks) hang off this point;
// today delivery is the structured log line plus the reminder row.
type ReminderWorker struct {
	store  Store
	clock  services.Clock
	logger *slog.Logger
}

func NewReminderWorker(store Store, clock services.Clock) *ReminderWorker {
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &ReminderWorker{
		store:  store,
		clock:  clock,
		logger: log.ForComponent(log.ComponentWorker),
	}
}

// HandleReminderMessage processes a single reminder message. Returning an
// error requeues the message, so unrecoverable messages are dropped with a
// warning instead.
func (w *ReminderWorker) HandleReminderMessage(ctx context.Context, msg *amqp.ReminderMessage) error {
	w.logger.InfoContext(ctx, "Processing reminder message",
		log.FieldInvoiceID, msg.InvoiceID,
		log.FieldReminderKind, msg.Kind)

	kind := core.ReminderKind(msg.Kind)
	if kind != core.ReminderUpcoming && kind != core.ReminderOverdue {
		w.logger.WarnContext(ctx, "Dropping reminder with unknown kind",
			log.FieldInvoiceID, msg.InvoiceID, log.FieldReminderKind, msg.Kind)
		return nil
	}

	inv, err := w.store.GetInvoiceByID(ctx, msg.InvoiceID)
	if errors.Is(err, core.ErrNotFound) {
		// Invoice deleted between scheduling and delivery.
		w.logger.WarnContext(ctx, "Dropping reminder for missing invoice",
			log.FieldInvoiceID, msg.InvoiceID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load invoice for reminder: %w", err)
	}

	// The invoice may have been settled while the message sat in the queue.
	if inv.Status == core.StatusPaid || inv.Status == core.StatusCancelled {
		w.logger.InfoContext(ctx, "Skipping reminder for settled invoice",
			log.FieldInvoiceID, inv.ID, "status", string(inv.Status))
		return nil
	}

	now := w.clock.Now()

	recent, err := w.store.HasRecentReminder(ctx, inv.ID, kind, now.Add(-redeliveryGap))
	if err != nil {
		return fmt.Errorf("check recent reminders: %w", err)
	}
	if recent {
		w.logger.InfoContext(ctx, "Skipping duplicate reminder delivery",
			log.FieldInvoiceID, inv.ID, log.FieldReminderKind, string(kind))
		return nil
	}

	rem := core.Reminder{
		ID:          uuid.NewString(),
		InvoiceID:   inv.ID,
		Kind:        kind,
		ScheduledAt: msg.Timestamp,
		SentAt:      &now,
	}
	if err := w.store.CreateReminder(ctx, rem); err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}

	w.logger.InfoContext(ctx, "Reminder delivered",
		"reminder_id", rem.ID,
		log.FieldInvoiceID, inv.ID,
		log.FieldInvoiceNumber, inv.Number,
		"client_name", inv.ClientName,
		log.FieldReminderKind, string(kind),
		"outstanding_cents", inv.Outstanding().Cents,
		"due_date", core.FormatShortDate(inv.DueDate))

	return nil
}
