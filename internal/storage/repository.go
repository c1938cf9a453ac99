package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ttracx/invoicetracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistence layer. Every read and write is scoped
// to an owner: a row belonging to another user behaves exactly like a row
// that does not exist.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The _pragma options apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports database reachability; used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// --- clients ---

// clientColumns selects a client row plus its derived receivable stats.
// Revenue counts every recorded payment; outstanding only open invoices.
const clientColumns = `
	c.id, c.owner_id, c.name, c.email, c.phone, c.company, c.address,
	c.city, c.state, c.zip, c.country, c.notes, c.created_at,
	(SELECT COUNT(*) FROM invoices i WHERE i.client_id = c.id) AS invoice_count,
	COALESCE((SELECT SUM(p.amount_cents) FROM payments p
		JOIN invoices i ON p.invoice_id = i.id
		WHERE i.client_id = c.id), 0) AS total_revenue_cents,
	COALESCE((SELECT SUM(i.total_cents - COALESCE(
			(SELECT SUM(p.amount_cents) FROM payments p WHERE p.invoice_id = i.id), 0))
		FROM invoices i
		WHERE i.client_id = c.id
		AND i.status IN ('SENT','VIEWED','PARTIAL','OVERDUE')), 0) AS outstanding_cents`

func scanClient(row interface{ Scan(...any) error }) (core.Client, error) {
	var c core.Client
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Company,
		&c.Address, &c.City, &c.State, &c.Zip, &c.Country, &c.Notes, &c.CreatedAt,
		&c.InvoiceCount, &c.TotalRevenue.Cents, &c.Outstanding.Cents)
	return c, err
}

func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, owner_id, name, email, phone, company, address, city, state, zip, country, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Company, c.Address,
		c.City, c.State, c.Zip, c.Country, c.Notes, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateClient(ctx context.Context, c core.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, address = ?,
			city = ?, state = ?, zip = ?, country = ?, notes = ?
		WHERE id = ? AND owner_id = ?`,
		c.Name, c.Email, c.Phone, c.Company, c.Address,
		c.City, c.State, c.Zip, c.Country, c.Notes,
		c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteClient(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetClient(ctx context.Context, ownerID, id string) (core.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients c WHERE c.id = ? AND c.owner_id = ?`, id, ownerID)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, core.ErrNotFound
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context, ownerID string) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients c WHERE c.owner_id = ? ORDER BY c.name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []core.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

func (r *SQLiteRepository) CountClients(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE owner_id = ?`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

// --- invoices ---

// InvoiceFilter narrows ListInvoices. Zero values mean no filtering.
type InvoiceFilter struct {
	Status   core.Status
	ClientID string
}

const invoiceColumns = `
	i.id, i.owner_id, i.client_id, i.number, i.issue_date, i.due_date, i.status,
	i.subtotal_cents, i.tax_cents, i.total_cents, i.notes, i.created_at,
	c.name, c.email`

func scanInvoice(row interface{ Scan(...any) error }) (core.Invoice, error) {
	var inv core.Invoice
	err := row.Scan(&inv.ID, &inv.OwnerID, &inv.ClientID, &inv.Number,
		&inv.IssueDate, &inv.DueDate, &inv.Status,
		&inv.Subtotal.Cents, &inv.Tax.Cents, &inv.Total.Cents, &inv.Notes, &inv.CreatedAt,
		&inv.ClientName, &inv.ClientEmail)
	return inv, err
}

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, owner_id, client_id, number, issue_date, due_date, status,
			subtotal_cents, tax_cents, total_cents, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.ClientID, inv.Number, inv.IssueDate, inv.DueDate, inv.Status,
		inv.Subtotal.Cents, inv.Tax.Cents, inv.Total.Cents, inv.Notes, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice: %w", err)
	}
	return nil
}

// UpdateInvoice rewrites the invoice row and replaces its line items
// wholesale in a single transaction.
func (r *SQLiteRepository) UpdateInvoice(ctx context.Context, inv core.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE invoices SET client_id = ?, issue_date = ?, due_date = ?, status = ?,
			subtotal_cents = ?, tax_cents = ?, total_cents = ?, notes = ?
		WHERE id = ? AND owner_id = ?`,
		inv.ClientID, inv.IssueDate, inv.DueDate, inv.Status,
		inv.Subtotal.Cents, inv.Tax.Cents, inv.Total.Cents, inv.Notes,
		inv.ID, inv.OwnerID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM line_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice update: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, invoiceID string, items []core.LineItem) error {
	for _, li := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (id, invoice_id, description, quantity, unit_price_cents, amount_cents)
			VALUES (?, ?, ?, ?, ?, ?)`,
			li.ID, invoiceID, li.Description, li.Quantity, li.UnitPrice.Cents, li.Amount.Cents)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetInvoice(ctx context.Context, ownerID, id string) (core.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.id = ? AND i.owner_id = ?`, id, ownerID)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, core.ErrNotFound
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	if inv.Items, err = r.itemsFor(ctx, inv.ID); err != nil {
		return core.Invoice{}, err
	}
	if inv.Payments, err = r.paymentsFor(ctx, inv.ID); err != nil {
		return core.Invoice{}, err
	}
	return inv, nil
}

// GetInvoiceByID fetches an invoice without owner scoping. Only the
// reminder worker uses it; request paths must go through GetInvoice.
// Payments are attached so outstanding amounts reflect partial payments.
func (r *SQLiteRepository) GetInvoiceByID(ctx context.Context, id string) (core.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.id = ?`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, core.ErrNotFound
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice by id: %w", err)
	}

	if inv.Payments, err = r.paymentsFor(ctx, inv.ID); err != nil {
		return core.Invoice{}, err
	}
	return inv, nil
}

// ListInvoices returns the owner's invoices, newest first, with payments
// attached. Line items are only loaded on single-invoice reads.
func (r *SQLiteRepository) ListInvoices(ctx context.Context, ownerID string, f InvoiceFilter) ([]core.Invoice, error) {
	where := []string{"i.owner_id = ?"}
	args := []any{ownerID}
	if f.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, f.Status)
	}
	if f.ClientID != "" {
		where = append(where, "i.client_id = ?")
		args = append(args, f.ClientID)
	}
	cond := strings.Join(where, " AND ")

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE `+cond+` ORDER BY i.created_at DESC, i.number`, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	index := map[string]int{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		index[inv.ID] = len(invoices)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	// One pass over the matching payments instead of a query per invoice.
	prows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.invoice_id, p.amount_cents, p.payment_date, p.method, p.reference, p.notes, p.created_at
		FROM payments p JOIN invoices i ON i.id = p.invoice_id
		JOIN clients c ON c.id = i.client_id
		WHERE `+cond+` ORDER BY p.payment_date`, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var p core.Payment
		if err := prows.Scan(&p.ID, &p.InvoiceID, &p.Amount.Cents, &p.PaymentDate,
			&p.Method, &p.Reference, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if i, ok := index[p.InvoiceID]; ok {
			invoices[i].Payments = append(invoices[i].Payments, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return invoices, nil
}

// UpdateInvoiceStatus moves the persisted status. Used by the payment
// allocator and the overdue sweep.
func (r *SQLiteRepository) UpdateInvoiceStatus(ctx context.Context, id string, status core.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return requireRow(res)
}

// ListDueSoon returns open invoices whose due date falls inside
// [now, now+window), for upcoming reminder scheduling.
func (r *SQLiteRepository) ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.status IN ('SENT','VIEWED','PARTIAL') AND i.due_date >= ? AND i.due_date < ?
		ORDER BY i.due_date LIMIT ?`, now, now.Add(window), limit)
	if err != nil {
		return nil, fmt.Errorf("list due soon: %w", err)
	}
	return collectInvoices(rows)
}

// ListOverdueCandidates returns invoices still marked SENT or VIEWED whose
// due date has passed; the sweep promotes them to OVERDUE.
func (r *SQLiteRepository) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.status IN ('SENT','VIEWED') AND i.due_date < ?
		ORDER BY i.due_date LIMIT ?`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue candidates: %w", err)
	}
	return collectInvoices(rows)
}

// ListOverdue returns invoices already in OVERDUE status, for past-due
// reminder scheduling.
func (r *SQLiteRepository) ListOverdue(ctx context.Context, limit int) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.status = 'OVERDUE'
		ORDER BY i.due_date LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}
	return collectInvoices(rows)
}

func collectInvoices(rows *sql.Rows) ([]core.Invoice, error) {
	defer rows.Close()
	var invoices []core.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}

func (r *SQLiteRepository) itemsFor(ctx context.Context, invoiceID string) ([]core.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, quantity, unit_price_cents, amount_cents
		FROM line_items WHERE invoice_id = ? ORDER BY rowid`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var items []core.LineItem
	for rows.Next() {
		var li core.LineItem
		if err := rows.Scan(&li.ID, &li.Description, &li.Quantity,
			&li.UnitPrice.Cents, &li.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) paymentsFor(ctx context.Context, invoiceID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, amount_cents, payment_date, method, reference, notes, created_at
		FROM payments WHERE invoice_id = ? ORDER BY payment_date`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount.Cents, &p.PaymentDate,
			&p.Method, &p.Reference, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// --- payments ---

// RecordPayment inserts the payment and, when newStatus is non-empty, moves
// the invoice status in the same transaction. Either both land or neither.
func (r *SQLiteRepository) RecordPayment(ctx context.Context, p core.Payment, newStatus core.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, invoice_id, amount_cents, payment_date, method, reference, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InvoiceID, p.Amount.Cents, p.PaymentDate, p.Method, p.Reference, p.Notes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if newStatus != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE invoices SET status = ? WHERE id = ?`, newStatus, p.InvoiceID)
		if err != nil {
			return fmt.Errorf("update invoice status: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}

// ListPayments returns the owner's payments, newest first, annotated with
// invoice number and client name. invoiceID optionally narrows to one
// invoice.
func (r *SQLiteRepository) ListPayments(ctx context.Context, ownerID, invoiceID string) ([]core.Payment, error) {
	q := `SELECT p.id, p.invoice_id, p.amount_cents, p.payment_date, p.method,
			p.reference, p.notes, p.created_at, i.number, c.name
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		JOIN clients c ON c.id = i.client_id
		WHERE i.owner_id = ?`
	args := []any{ownerID}
	if invoiceID != "" {
		q += ` AND p.invoice_id = ?`
		args = append(args, invoiceID)
	}
	q += ` ORDER BY p.payment_date DESC, p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount.Cents, &p.PaymentDate,
			&p.Method, &p.Reference, &p.Notes, &p.CreatedAt,
			&p.InvoiceNumber, &p.ClientName); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// --- reminders ---

func (r *SQLiteRepository) CreateReminder(ctx context.Context, rem core.Reminder) error {
	var sentAt any
	if rem.SentAt != nil {
		sentAt = *rem.SentAt
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, invoice_id, kind, scheduled_at, sent_at) VALUES (?, ?, ?, ?, ?)`,
		rem.ID, rem.InvoiceID, rem.Kind, rem.ScheduledAt, sentAt)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListReminders(ctx context.Context, ownerID string) ([]core.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rm.id, rm.invoice_id, rm.kind, rm.scheduled_at, rm.sent_at
		FROM reminders rm
		JOIN invoices i ON i.id = rm.invoice_id
		WHERE i.owner_id = ?
		ORDER BY rm.scheduled_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []core.Reminder
	for rows.Next() {
		var rem core.Reminder
		var sentAt sql.NullTime
		if err := rows.Scan(&rem.ID, &rem.InvoiceID, &rem.Kind, &rem.ScheduledAt, &sentAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			rem.SentAt = &t
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return reminders, nil
}

// HasRecentReminder reports whether a reminder of the given kind was
// already scheduled for the invoice since the cutoff. Keeps the hourly
// sweep from nagging about the same invoice.
func (r *SQLiteRepository) HasRecentReminder(ctx context.Context, invoiceID string, kind core.ReminderKind, since time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE invoice_id = ? AND kind = ? AND scheduled_at >= ?`,
		invoiceID, kind, since).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check recent reminder: %w", err)
	}
	return n > 0, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
