package core

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates the invoice lifecycle states.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusViewed    Status = "VIEWED"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// PaymentMethod enumerates how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCheck        PaymentMethod = "CHECK"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodPayPal       PaymentMethod = "PAYPAL"
	MethodOther        PaymentMethod = "OTHER"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrOverpayment        = errors.New("payment exceeds outstanding balance")
	ErrEmptyItems         = errors.New("invoice requires at least one line item")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidUnitPrice   = errors.New("unit price must be positive")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidStatus      = errors.New("invalid invoice status")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrInvalidDate        = errors.New("invalid date")
)

// Valid reports whether s is one of the known invoice statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusPartial, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Open reports whether an invoice in this status still carries a receivable.
// DRAFT, PAID and CANCELLED invoices are excluded from outstanding reports.
func (s Status) Open() bool {
	switch s {
	case StatusSent, StatusViewed, StatusPartial, StatusOverdue:
		return true
	}
	return false
}

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodBankTransfer, MethodCreditCard, MethodPayPal, MethodOther:
		return true
	}
	return false
}

// User is an account holder. All clients, invoices and payments hang off
// exactly one user; nothing is shared across accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// Client is a customer owned by a single user.
type Client struct {
	ID      string
	OwnerID string
	Name    string
	Email   string
	Phone   string
	Company string
	Address string
	City    string
	State   string
	Zip     string
	Country string
	Notes   string

	CreatedAt time.Time

	// Derived on list/detail reads, never persisted.
	InvoiceCount int
	TotalRevenue Money
	Outstanding  Money
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// LineItem is a single billed line on an invoice. Items are replaced
// wholesale on invoice updates, never edited individually.
type LineItem struct {
	ID          string
	Description string
	Quantity    int64
	UnitPrice   Money
	Amount      Money
}

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return ErrEmptyDescription
	}
	if li.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if li.UnitPrice.Cents <= 0 {
		return ErrInvalidUnitPrice
	}
	return nil
}

// Invoice is an owner's receivable against a client.
type Invoice struct {
	ID        string
	OwnerID   string
	ClientID  string
	Number    string
	IssueDate time.Time
	DueDate   time.Time
	Status    Status
	Subtotal  Money
	Tax       Money
	Total     Money
	Notes     string

	Items    []LineItem
	Payments []Payment

	CreatedAt time.Time

	// Derived on reads that join the owning client.
	ClientName  string
	ClientEmail string
}

// PaidAmount sums the recorded payments.
func (in Invoice) PaidAmount() Money {
	var cents int64
	for _, p := range in.Payments {
		cents += p.Amount.Cents
	}
	return Money{Cents: cents}
}

// Outstanding is the invoice total minus recorded payments.
func (in Invoice) Outstanding() Money {
	return Money{Cents: in.Total.Cents - in.PaidAmount().Cents}
}

// Payment is an append-only record against exactly one invoice.
type Payment struct {
	ID          string
	InvoiceID   string
	Amount      Money
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	Notes       string
	CreatedAt   time.Time

	// Derived on list reads.
	InvoiceNumber string
	ClientName    string
}

func (p Payment) Validate() error {
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if p.PaymentDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ReminderKind classifies a reminder as pre-due or past-due.
type ReminderKind string

const (
	ReminderUpcoming ReminderKind = "upcoming"
	ReminderOverdue  ReminderKind = "overdue"
)

// Reminder records that an owner was nudged about an invoice.
type Reminder struct {
	ID          string
	InvoiceID   string
	Kind        ReminderKind
	ScheduledAt time.Time
	SentAt      *time.Time
}
