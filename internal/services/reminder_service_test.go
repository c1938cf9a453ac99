package services

import (
	"context"
	"testing"
	"time"

	"github.com/ttracx/invoicetracker/internal/core"
)

func reminderFixtureStore(now time.Time) *fakeStore {
	store := newFakeStore()
	add := func(id string, due time.Time, status core.Status) {
		store.invoices[id] = core.Invoice{
			ID: id, OwnerID: "u1", ClientID: "c1", Number: "INV-" + id,
			DueDate: due, Status: status, Total: core.Money{Cents: 10000},
		}
	}
	add("lapsed-sent", now.AddDate(0, 0, -2), core.StatusSent)
	add("lapsed-viewed", now.AddDate(0, 0, -1), core.StatusViewed)
	add("already-overdue", now.AddDate(0, 0, -40), core.StatusOverdue)
	add("due-in-3", now.AddDate(0, 0, 3), core.StatusSent)
	add("due-in-30", now.AddDate(0, 0, 30), core.StatusSent)
	add("paid", now.AddDate(0, 0, -5), core.StatusPaid)
	return store
}

func TestSweepOverdue(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := reminderFixtureStore(now)
	svc := NewReminderService(store, nil, fakeClock{now}, 50, 7*24*time.Hour)

	moved, err := svc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	for _, id := range []string{"lapsed-sent", "lapsed-viewed"} {
		if got := store.invoices[id].Status; got != core.StatusOverdue {
			t.Errorf("%s status = %s, want OVERDUE", id, got)
		}
	}
	// Paid and future invoices untouched.
	if store.invoices["paid"].Status != core.StatusPaid {
		t.Error("paid invoice moved by sweep")
	}
	if store.invoices["due-in-3"].Status != core.StatusSent {
		t.Error("future invoice moved by sweep")
	}
}

func TestScheduleReminders(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := reminderFixtureStore(now)
	pub := &fakePublisher{}
	svc := NewReminderService(store, pub, fakeClock{now}, 50, 7*24*time.Hour)

	published, err := svc.ScheduleReminders(context.Background())
	if err != nil {
		t.Fatalf("ScheduleReminders: %v", err)
	}
	// due-in-3 gets an upcoming reminder; already-overdue gets an overdue
	// one. due-in-30 is outside the window.
	if published != 2 {
		t.Fatalf("published = %d, want 2: %v", published, pub.published)
	}
	want := map[string]bool{
		"due-in-3:upcoming":       true,
		"already-overdue:overdue": true,
	}
	for _, msg := range pub.published {
		if !want[msg] {
			t.Errorf("unexpected message %q", msg)
		}
	}
}

func TestScheduleRemindersDeduplicates(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := reminderFixtureStore(now)
	store.reminders = append(store.reminders, core.Reminder{
		ID: "r1", InvoiceID: "already-overdue", Kind: core.ReminderOverdue,
		ScheduledAt: now.Add(-2 * time.Hour),
	})
	pub := &fakePublisher{}
	svc := NewReminderService(store, pub, fakeClock{now}, 50, 7*24*time.Hour)

	published, err := svc.ScheduleReminders(context.Background())
	if err != nil {
		t.Fatalf("ScheduleReminders: %v", err)
	}
	if published != 1 {
		t.Fatalf("published = %d, want 1 (recent reminder skipped): %v", published, pub.published)
	}
	if pub.published[0] != "due-in-3:upcoming" {
		t.Errorf("published = %v, want only the upcoming reminder", pub.published)
	}

	// A reminder older than the gap does not suppress.
	store.reminders[0].ScheduledAt = now.Add(-25 * time.Hour)
	pub.published = nil
	if published, err = svc.ScheduleReminders(context.Background()); err != nil {
		t.Fatalf("ScheduleReminders: %v", err)
	}
	if published != 2 {
		t.Errorf("published = %d, want 2 after gap elapsed", published)
	}
}

func TestPendingReminders(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := reminderFixtureStore(now)
	svc := NewReminderService(store, nil, fakeClock{now}, 50, 7*24*time.Hour)

	pending, err := svc.Pending(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}

	// due-in-30 is outside the window; paid is settled. Everything else is
	// either past due or inside the 7-day window, soonest due first.
	want := []struct {
		id   string
		kind core.ReminderKind
		days int
	}{
		{"already-overdue", core.ReminderOverdue, -40},
		{"lapsed-sent", core.ReminderOverdue, -2},
		{"lapsed-viewed", core.ReminderOverdue, -1},
		{"due-in-3", core.ReminderUpcoming, 3},
	}
	if len(pending) != len(want) {
		t.Fatalf("len(pending) = %d, want %d: %+v", len(pending), len(want), pending)
	}
	for i, w := range want {
		got := pending[i]
		if got.Invoice.ID != w.id || got.Kind != w.kind || got.DaysUntilDue != w.days {
			t.Errorf("pending[%d] = {%s %s %d}, want {%s %s %d}",
				i, got.Invoice.ID, got.Kind, got.DaysUntilDue, w.id, w.kind, w.days)
		}
	}
}

func TestPendingRemindersScopedToOwner(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := reminderFixtureStore(now)
	svc := NewReminderService(store, nil, fakeClock{now}, 50, 7*24*time.Hour)

	pending, err := svc.Pending(context.Background(), "someone-else")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending for other owner = %+v, want none", pending)
	}
}

func TestScheduleRemindersWithoutPublisher(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	svc := NewReminderService(reminderFixtureStore(now), nil, fakeClock{now}, 50, 7*24*time.Hour)

	published, err := svc.ScheduleReminders(context.Background())
	if err != nil {
		t.Fatalf("ScheduleReminders: %v", err)
	}
	if published != 0 {
		t.Errorf("published = %d, want 0 without a broker", published)
	}
}
