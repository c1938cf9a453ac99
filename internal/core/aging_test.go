package core

import (
	"testing"
	"time"
)

func openInvoice(id, clientID, clientName string, total, paid int64, daysOverdue int, now time.Time) Invoice {
	inv := Invoice{
		ID:         id,
		ClientID:   clientID,
		ClientName: clientName,
		Number:     "INV-" + id,
		Status:     StatusSent,
		Total:      Money{Cents: total},
		DueDate:    now.AddDate(0, 0, -daysOverdue),
	}
	if daysOverdue > 0 {
		inv.Status = StatusOverdue
	}
	if paid > 0 {
		inv.Status = StatusPartial
		inv.Payments = []Payment{{Amount: Money{Cents: paid}}}
	}
	return inv
}

func TestBuildAgingReport(t *testing.T) {
	now := date(2025, time.June, 15)

	invoices := []Invoice{
		openInvoice("a", "c1", "Acme", 50000, 0, -5, now),     // current
		openInvoice("b", "c1", "Acme", 30000, 0, 45, now),     // 31-60, fully outstanding
		openInvoice("c", "c2", "Globex", 30000, 20000, 45, now), // 31-60, 100.00 left
		openInvoice("d", "c2", "Globex", 10000, 0, 120, now),  // 90+
		{ID: "e", ClientID: "c1", Status: StatusPaid, Total: Money{Cents: 99999}, DueDate: now},
		{ID: "f", ClientID: "c2", Status: StatusDraft, Total: Money{Cents: 11111}, DueDate: now},
	}

	report := BuildAgingReport(now, invoices)

	if got := len(report.Invoices); got != 4 {
		t.Fatalf("open invoice count = %d, want 4", got)
	}

	if report.Summary.Current.Amount.Cents != 50000 || report.Summary.Current.Count != 1 {
		t.Errorf("Current = {%d %d}, want {1 50000}",
			report.Summary.Current.Count, report.Summary.Current.Amount.Cents)
	}
	if report.Summary.Days31To60.Amount.Cents != 40000 || report.Summary.Days31To60.Count != 2 {
		t.Errorf("Days31To60 = {%d %d}, want {2 40000}",
			report.Summary.Days31To60.Count, report.Summary.Days31To60.Amount.Cents)
	}
	if report.Summary.Days90Plus.Amount.Cents != 10000 {
		t.Errorf("Days90Plus.Amount = %d, want 10000", report.Summary.Days90Plus.Amount.Cents)
	}

	// Grand total equals the sum across buckets.
	bucketSum := report.Summary.Current.Amount.Cents +
		report.Summary.Days1To30.Amount.Cents +
		report.Summary.Days31To60.Amount.Cents +
		report.Summary.Days61To90.Amount.Cents +
		report.Summary.Days90Plus.Amount.Cents
	if report.Summary.Total.Cents != bucketSum {
		t.Errorf("Total = %d, bucket sum = %d", report.Summary.Total.Cents, bucketSum)
	}

	if len(report.ByClient) != 2 {
		t.Fatalf("client rollup count = %d, want 2", len(report.ByClient))
	}
	// Acme owes 800.00, Globex 200.00; ordered by descending total.
	if report.ByClient[0].Name != "Acme" || report.ByClient[0].Total.Cents != 80000 {
		t.Errorf("ByClient[0] = %s %d, want Acme 80000",
			report.ByClient[0].Name, report.ByClient[0].Total.Cents)
	}
	if report.ByClient[1].Name != "Globex" || report.ByClient[1].Total.Cents != 20000 {
		t.Errorf("ByClient[1] = %s %d, want Globex 20000",
			report.ByClient[1].Name, report.ByClient[1].Total.Cents)
	}
}

func TestBuildAgingReportPartialOutstanding(t *testing.T) {
	now := date(2025, time.June, 15)

	// 300.00 invoice 45 days past due with 100.00 paid: 200.00 sits in 31-60.
	inv := openInvoice("p", "c1", "Acme", 30000, 10000, 45, now)
	report := BuildAgingReport(now, []Invoice{inv})

	if report.Summary.Days31To60.Amount.Cents != 20000 {
		t.Errorf("Days31To60.Amount = %d, want 20000", report.Summary.Days31To60.Amount.Cents)
	}
	if report.Invoices[0].Bucket != Bucket31To60 {
		t.Errorf("Bucket = %q, want %q", report.Invoices[0].Bucket, Bucket31To60)
	}
	if report.Invoices[0].DaysOverdue != 45 {
		t.Errorf("DaysOverdue = %d, want 45", report.Invoices[0].DaysOverdue)
	}
}

func TestBuildAgingReportDeterministic(t *testing.T) {
	now := date(2025, time.June, 15)
	invoices := []Invoice{
		openInvoice("a", "c1", "Acme", 10000, 0, 10, now),
		openInvoice("b", "c2", "Globex", 10000, 0, 10, now),
		openInvoice("c", "c3", "Initech", 10000, 0, 10, now),
	}

	first := BuildAgingReport(now, invoices)
	for i := 0; i < 10; i++ {
		again := BuildAgingReport(now, invoices)
		for j := range first.ByClient {
			if again.ByClient[j].ClientID != first.ByClient[j].ClientID {
				t.Fatalf("run %d: ByClient order changed", i)
			}
		}
	}
	// Equal totals tie-break on name.
	if first.ByClient[0].Name != "Acme" || first.ByClient[2].Name != "Initech" {
		t.Errorf("tie-break order = %s, %s, %s",
			first.ByClient[0].Name, first.ByClient[1].Name, first.ByClient[2].Name)
	}
}
