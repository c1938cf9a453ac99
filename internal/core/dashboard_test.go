package core

import (
	"testing"
	"time"
)

func TestBuildDashboardStats(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	invoices := []Invoice{
		{
			ID: "a", Number: "INV-A", Status: StatusSent,
			Total:     Money{Cents: 70000},
			DueDate:   now.AddDate(0, 0, 10),
			CreatedAt: now.AddDate(0, 0, -1),
		},
		{
			ID: "b", Number: "INV-B", Status: StatusOverdue,
			Total:     Money{Cents: 50000},
			DueDate:   now.AddDate(0, 0, -20),
			CreatedAt: now.AddDate(0, 0, -30),
		},
		{
			ID: "c", Number: "INV-C", Status: StatusPaid,
			Total:     Money{Cents: 20000},
			DueDate:   now.AddDate(0, 0, -5),
			CreatedAt: now.AddDate(0, 0, -40),
			Payments: []Payment{
				{Amount: Money{Cents: 20000}, PaymentDate: now.AddDate(0, 0, -3)},
			},
		},
		{
			ID: "d", Number: "INV-D", Status: StatusPartial,
			Total:     Money{Cents: 10000},
			DueDate:   now.AddDate(0, 0, 5),
			CreatedAt: now.AddDate(0, 0, -2),
			Payments: []Payment{
				// Last month: excluded from paid-this-month.
				{Amount: Money{Cents: 4000}, PaymentDate: now.AddDate(0, -1, 0)},
			},
		},
	}

	stats := BuildDashboardStats(now, invoices, 3)

	// 700 + 500 + 100 open; paid invoice excluded.
	if stats.TotalOutstanding.Cents != 130000 {
		t.Errorf("TotalOutstanding = %d, want 130000", stats.TotalOutstanding.Cents)
	}
	if stats.OverdueAmount.Cents != 50000 {
		t.Errorf("OverdueAmount = %d, want 50000", stats.OverdueAmount.Cents)
	}
	if stats.PaidThisMonth.Cents != 20000 {
		t.Errorf("PaidThisMonth = %d, want 20000", stats.PaidThisMonth.Cents)
	}
	if stats.ClientCount != 3 {
		t.Errorf("ClientCount = %d, want 3", stats.ClientCount)
	}

	if len(stats.RecentInvoices) != 4 {
		t.Fatalf("RecentInvoices len = %d, want 4", len(stats.RecentInvoices))
	}
	if stats.RecentInvoices[0].ID != "a" || stats.RecentInvoices[1].ID != "d" {
		t.Errorf("recent order = %s, %s; want a, d",
			stats.RecentInvoices[0].ID, stats.RecentInvoices[1].ID)
	}

	if len(stats.OverdueInvoices) != 1 || stats.OverdueInvoices[0].ID != "b" {
		t.Errorf("OverdueInvoices = %+v, want single invoice b", stats.OverdueInvoices)
	}
}

func TestBuildDashboardStatsCapsLists(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	var invoices []Invoice
	for i := 0; i < 8; i++ {
		invoices = append(invoices, Invoice{
			ID:        string(rune('a' + i)),
			Number:    "INV-" + string(rune('A'+i)),
			Status:    StatusOverdue,
			Total:     Money{Cents: 1000},
			DueDate:   now.AddDate(0, 0, -i-1),
			CreatedAt: now.AddDate(0, 0, -i),
		})
	}

	stats := BuildDashboardStats(now, invoices, 1)

	if len(stats.RecentInvoices) != 5 {
		t.Errorf("RecentInvoices len = %d, want 5", len(stats.RecentInvoices))
	}
	if len(stats.OverdueInvoices) != 5 {
		t.Errorf("OverdueInvoices len = %d, want 5", len(stats.OverdueInvoices))
	}
	// Overdue list is earliest due first.
	if stats.OverdueInvoices[0].ID != "a" {
		t.Errorf("OverdueInvoices[0] = %s, want a", stats.OverdueInvoices[0].ID)
	}
	// Recent list is newest first.
	if stats.RecentInvoices[0].ID != "a" {
		t.Errorf("RecentInvoices[0] = %s, want a", stats.RecentInvoices[0].ID)
	}
}

func TestBuildDashboardStatsEmpty(t *testing.T) {
	now := time.Now()
	stats := BuildDashboardStats(now, nil, 0)

	if stats.TotalOutstanding.Cents != 0 || stats.OverdueAmount.Cents != 0 || stats.PaidThisMonth.Cents != 0 {
		t.Errorf("empty snapshot produced non-zero amounts: %+v", stats)
	}
	if len(stats.RecentInvoices) != 0 || len(stats.OverdueInvoices) != 0 {
		t.Errorf("empty snapshot produced invoice lists: %+v", stats)
	}
}
