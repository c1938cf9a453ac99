package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/storage"
)

// fakeClock pins time for deterministic derivation.
type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// fakeStore is an in-memory stand-in for the repository, implementing the
// narrow store interfaces the services consume.
type fakeStore struct {
	users     map[string]core.User // keyed by email
	clients   map[string]core.Client
	invoices  map[string]core.Invoice
	payments  []core.Payment
	reminders []core.Reminder

	listInvoiceCalls int
	countClientCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]core.User{},
		clients:  map[string]core.Client{},
		invoices: map[string]core.Invoice{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, u core.User) error {
	if _, ok := f.users[u.Email]; ok {
		return fmt.Errorf("unique constraint: %s", u.Email)
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	u, ok := f.users[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateClient(_ context.Context, c core.Client) error {
	f.clients[c.ID] = c
	return nil
}

func (f *fakeStore) UpdateClient(_ context.Context, c core.Client) error {
	old, ok := f.clients[c.ID]
	if !ok || old.OwnerID != c.OwnerID {
		return core.ErrNotFound
	}
	f.clients[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteClient(_ context.Context, ownerID, id string) error {
	c, ok := f.clients[id]
	if !ok || c.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(f.clients, id)
	return nil
}

func (f *fakeStore) GetClient(_ context.Context, ownerID, id string) (core.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.OwnerID != ownerID {
		return core.Client{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListClients(_ context.Context, ownerID string) ([]core.Client, error) {
	var out []core.Client
	for _, c := range f.clients {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CountClients(_ context.Context, ownerID string) (int, error) {
	f.countClientCalls++
	n := 0
	for _, c := range f.clients {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv core.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeStore) UpdateInvoice(_ context.Context, inv core.Invoice) error {
	old, ok := f.invoices[inv.ID]
	if !ok || old.OwnerID != inv.OwnerID {
		return core.ErrNotFound
	}
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeStore) DeleteInvoice(_ context.Context, ownerID, id string) error {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeStore) GetInvoice(_ context.Context, ownerID, id string) (core.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return core.Invoice{}, core.ErrNotFound
	}
	inv.Payments = f.paymentsFor(id)
	return inv, nil
}

func (f *fakeStore) ListInvoices(_ context.Context, ownerID string, filter storage.InvoiceFilter) ([]core.Invoice, error) {
	f.listInvoiceCalls++
	var out []core.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && inv.ClientID != filter.ClientID {
			continue
		}
		inv.Payments = f.paymentsFor(inv.ID)
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeStore) UpdateInvoiceStatus(_ context.Context, id string, status core.Status) error {
	inv, ok := f.invoices[id]
	if !ok {
		return core.ErrNotFound
	}
	inv.Status = status
	f.invoices[id] = inv
	return nil
}

func (f *fakeStore) RecordPayment(_ context.Context, p core.Payment, newStatus core.Status) error {
	inv, ok := f.invoices[p.InvoiceID]
	if !ok {
		return core.ErrNotFound
	}
	f.payments = append(f.payments, p)
	if newStatus != "" {
		inv.Status = newStatus
		f.invoices[p.InvoiceID] = inv
	}
	return nil
}

func (f *fakeStore) ListPayments(_ context.Context, ownerID, invoiceID string) ([]core.Payment, error) {
	var out []core.Payment
	for _, p := range f.payments {
		inv, ok := f.invoices[p.InvoiceID]
		if !ok || inv.OwnerID != ownerID {
			continue
		}
		if invoiceID != "" && p.InvoiceID != invoiceID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) paymentsFor(invoiceID string) []core.Payment {
	var out []core.Payment
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeStore) ListDueSoon(_ context.Context, now time.Time, window time.Duration, limit int) ([]core.Invoice, error) {
	var out []core.Invoice
	for _, inv := range f.invoices {
		if !inv.Status.Open() || inv.Status == core.StatusOverdue {
			continue
		}
		if inv.DueDate.Before(now) || !inv.DueDate.Before(now.Add(window)) {
			continue
		}
		out = append(out, inv)
	}
	return capped(out, limit), nil
}

func (f *fakeStore) ListOverdue(_ context.Context, limit int) ([]core.Invoice, error) {
	var out []core.Invoice
	for _, inv := range f.invoices {
		if inv.Status == core.StatusOverdue {
			out = append(out, inv)
		}
	}
	return capped(out, limit), nil
}

func (f *fakeStore) ListOverdueCandidates(_ context.Context, now time.Time, limit int) ([]core.Invoice, error) {
	var out []core.Invoice
	for _, inv := range f.invoices {
		if inv.Status != core.StatusSent && inv.Status != core.StatusViewed {
			continue
		}
		if !inv.DueDate.Before(now) {
			continue
		}
		out = append(out, inv)
	}
	return capped(out, limit), nil
}

func (f *fakeStore) HasRecentReminder(_ context.Context, invoiceID string, kind core.ReminderKind, since time.Time) (bool, error) {
	for _, r := range f.reminders {
		if r.InvoiceID == invoiceID && r.Kind == kind && !r.ScheduledAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListReminders(_ context.Context, ownerID string) ([]core.Reminder, error) {
	var out []core.Reminder
	for _, r := range f.reminders {
		inv, ok := f.invoices[r.InvoiceID]
		if ok && inv.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func capped(invoices []core.Invoice, limit int) []core.Invoice {
	if limit > 0 && len(invoices) > limit {
		return invoices[:limit]
	}
	return invoices
}

// fakePublisher records published reminders.
type fakePublisher struct {
	published []string // invoiceID:kind
	err       error
}

func (p *fakePublisher) PublishReminder(_ context.Context, invoiceID, kind string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, invoiceID+":"+kind)
	return nil
}
