package http

import (
	"time"

	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/services"
)

// Monetary fields travel as decimal strings on requests ("125.50") and as
// cents plus a formatted string on responses, so clients never do float
// math on money.

type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func toMoney(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Formatted: core.FormatUSD(m.Cents)}
}

type userJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUser(u core.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type authResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type clientJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Zip          string    `json:"zip,omitempty"`
	Country      string    `json:"country,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	InvoiceCount int       `json:"invoiceCount"`
	TotalRevenue moneyJSON `json:"totalRevenue"`
	Outstanding  moneyJSON `json:"outstanding"`
}

func toClient(c core.Client) clientJSON {
	return clientJSON{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Company:      c.Company,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
		Zip:          c.Zip,
		Country:      c.Country,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		InvoiceCount: c.InvoiceCount,
		TotalRevenue: toMoney(c.TotalRevenue),
		Outstanding:  toMoney(c.Outstanding),
	}
}

func toClients(clients []core.Client) []clientJSON {
	out := make([]clientJSON, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClient(c))
	}
	return out
}

type lineItemJSON struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   moneyJSON `json:"unitPrice"`
	Amount      moneyJSON `json:"amount"`
}

type paymentJSON struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber,omitempty"`
	ClientName    string    `json:"clientName,omitempty"`
	Amount        moneyJSON `json:"amount"`
	PaymentDate   string    `json:"paymentDate"`
	Method        string    `json:"method"`
	Reference     string    `json:"reference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toPayment(p core.Payment) paymentJSON {
	return paymentJSON{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		InvoiceNumber: p.InvoiceNumber,
		ClientName:    p.ClientName,
		Amount:        toMoney(p.Amount),
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
		Method:        string(p.Method),
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func toPayments(payments []core.Payment) []paymentJSON {
	out := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPayment(p))
	}
	return out
}

type invoiceJSON struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"clientId"`
	ClientName  string         `json:"clientName,omitempty"`
	ClientEmail string         `json:"clientEmail,omitempty"`
	Number      string         `json:"number"`
	IssueDate   string         `json:"issueDate"`
	DueDate     string         `json:"dueDate"`
	Status      string         `json:"status"`
	Subtotal    moneyJSON      `json:"subtotal"`
	Tax         moneyJSON      `json:"tax"`
	Total       moneyJSON      `json:"total"`
	Paid        moneyJSON      `json:"paid"`
	Outstanding moneyJSON      `json:"outstanding"`
	Notes       string         `json:"notes,omitempty"`
	Items       []lineItemJSON `json:"items"`
	Payments    []paymentJSON  `json:"payments"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func toInvoice(inv core.Invoice) invoiceJSON {
	items := make([]lineItemJSON, 0, len(inv.Items))
	for _, li := range inv.Items {
		items = append(items, lineItemJSON{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   toMoney(li.UnitPrice),
			Amount:      toMoney(li.Amount),
		})
	}
	return invoiceJSON{
		ID:          inv.ID,
		ClientID:    inv.ClientID,
		ClientName:  inv.ClientName,
		ClientEmail: inv.ClientEmail,
		Number:      inv.Number,
		IssueDate:   inv.IssueDate.Format("2006-01-02"),
		DueDate:     inv.DueDate.Format("2006-01-02"),
		Status:      string(inv.Status),
		Subtotal:    toMoney(inv.Subtotal),
		Tax:         toMoney(inv.Tax),
		Total:       toMoney(inv.Total),
		Paid:        toMoney(inv.PaidAmount()),
		Outstanding: toMoney(inv.Outstanding()),
		Notes:       inv.Notes,
		Items:       items,
		Payments:    toPayments(inv.Payments),
		CreatedAt:   inv.CreatedAt,
	}
}

func toInvoices(invoices []core.Invoice) []invoiceJSON {
	out := make([]invoiceJSON, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoice(inv))
	}
	return out
}

type bucketJSON struct {
	Count  int       `json:"count"`
	Amount moneyJSON `json:"amount"`
}

func toBucket(b core.BucketTotals) bucketJSON {
	return bucketJSON{Count: b.Count, Amount: toMoney(b.Amount)}
}

type agingSummaryJSON struct {
	Current    bucketJSON `json:"current"`
	Days1To30  bucketJSON `json:"days1to30"`
	Days31To60 bucketJSON `json:"days31to60"`
	Days61To90 bucketJSON `json:"days61to90"`
	Days90Plus bucketJSON `json:"days90plus"`
	Total      moneyJSON  `json:"total"`
}

type agedInvoiceJSON struct {
	Invoice     invoiceJSON `json:"invoice"`
	Outstanding moneyJSON   `json:"outstanding"`
	DaysOverdue int         `json:"daysOverdue"`
	Bucket      string      `json:"bucket"`
}

type clientAgingJSON struct {
	ClientID string       `json:"clientId"`
	Name     string       `json:"name"`
	Buckets  [5]moneyJSON `json:"buckets"`
	Total    moneyJSON    `json:"total"`
}

type agingReportJSON struct {
	Summary  agingSummaryJSON  `json:"summary"`
	Invoices []agedInvoiceJSON `json:"invoices"`
	ByClient []clientAgingJSON `json:"byClient"`
}

func toAgingReport(r core.AgingReport) agingReportJSON {
	out := agingReportJSON{
		Summary: agingSummaryJSON{
			Current:    toBucket(r.Summary.Current),
			Days1To30:  toBucket(r.Summary.Days1To30),
			Days31To60: toBucket(r.Summary.Days31To60),
			Days61To90: toBucket(r.Summary.Days61To90),
			Days90Plus: toBucket(r.Summary.Days90Plus),
			Total:      toMoney(r.Summary.Total),
		},
		Invoices: make([]agedInvoiceJSON, 0, len(r.Invoices)),
		ByClient: make([]clientAgingJSON, 0, len(r.ByClient)),
	}
	for _, ai := range r.Invoices {
		out.Invoices = append(out.Invoices, agedInvoiceJSON{
			Invoice:     toInvoice(ai.Invoice),
			Outstanding: toMoney(ai.Outstanding),
			DaysOverdue: ai.DaysOverdue,
			Bucket:      ai.Bucket,
		})
	}
	for _, ca := range r.ByClient {
		row := clientAgingJSON{ClientID: ca.ClientID, Name: ca.Name, Total: toMoney(ca.Total)}
		for i, b := range ca.Buckets {
			row.Buckets[i] = toMoney(b)
		}
		out.ByClient = append(out.ByClient, row)
	}
	return out
}

type dashboardJSON struct {
	TotalOutstanding moneyJSON     `json:"totalOutstanding"`
	OverdueAmount    moneyJSON     `json:"overdueAmount"`
	PaidThisMonth    moneyJSON     `json:"paidThisMonth"`
	ClientCount      int           `json:"clientCount"`
	RecentInvoices   []invoiceJSON `json:"recentInvoices"`
	OverdueInvoices  []invoiceJSON `json:"overdueInvoices"`
}

func toDashboard(s core.DashboardStats) dashboardJSON {
	return dashboardJSON{
		TotalOutstanding: toMoney(s.TotalOutstanding),
		OverdueAmount:    toMoney(s.OverdueAmount),
		PaidThisMonth:    toMoney(s.PaidThisMonth),
		ClientCount:      s.ClientCount,
		RecentInvoices:   toInvoices(s.RecentInvoices),
		OverdueInvoices:  toInvoices(s.OverdueInvoices),
	}
}

type pendingReminderJSON struct {
	Invoice      invoiceJSON `json:"invoice"`
	Kind         string      `json:"kind"`
	DaysUntilDue int         `json:"daysUntilDue"`
}

func toPendingReminders(pending []services.PendingReminder) []pendingReminderJSON {
	out := make([]pendingReminderJSON, 0, len(pending))
	for _, p := range pending {
		out = append(out, pendingReminderJSON{
			Invoice:      toInvoice(p.Invoice),
			Kind:         string(p.Kind),
			DaysUntilDue: p.DaysUntilDue,
		})
	}
	return out
}

type remindersResponse struct {
	Pending []pendingReminderJSON `json:"pending"`
	History []reminderJSON        `json:"history"`
}

type reminderJSON struct {
	ID          string     `json:"id"`
	InvoiceID   string     `json:"invoiceId"`
	Kind        string     `json:"kind"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
}

func toReminders(reminders []core.Reminder) []reminderJSON {
	out := make([]reminderJSON, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, reminderJSON{
			ID:          rem.ID,
			InvoiceID:   rem.InvoiceID,
			Kind:        string(rem.Kind),
			ScheduledAt: rem.ScheduledAt,
			SentAt:      rem.SentAt,
		})
	}
	return out
}
