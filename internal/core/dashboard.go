package core

import (
	"sort"
	"time"
)

// DashboardStats summarizes one owner's receivables at a glance.
//
// TotalOutstanding sums invoice totals over open statuses, not net of
// payments; the original dashboard made the same simplification and the
// aging report is the net view.
type DashboardStats struct {
	TotalOutstanding Money
	OverdueAmount    Money
	PaidThisMonth    Money
	ClientCount      int
	RecentInvoices   []Invoice
	OverdueInvoices  []Invoice
}

// BuildDashboardStats folds the owner's invoice snapshot into dashboard
// numbers as of now. "Paid this month" counts payments dated from the
// first of the current local month through now.
func BuildDashboardStats(now time.Time, invoices []Invoice, clientCount int) DashboardStats {
	stats := DashboardStats{ClientCount: clientCount}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, inv := range invoices {
		if inv.Status.Open() {
			stats.TotalOutstanding.Cents += inv.Total.Cents
		}
		if inv.Status == StatusOverdue {
			stats.OverdueAmount.Cents += inv.Total.Cents
		}
		for _, p := range inv.Payments {
			if !p.PaymentDate.Before(startOfMonth) && !p.PaymentDate.After(now) {
				stats.PaidThisMonth.Cents += p.Amount.Cents
			}
		}
	}

	recent := make([]Invoice, len(invoices))
	copy(recent, invoices)
	sort.Slice(recent, func(i, j int) bool {
		if !recent[i].CreatedAt.Equal(recent[j].CreatedAt) {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		}
		return recent[i].Number < recent[j].Number
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentInvoices = recent

	var overdue []Invoice
	for _, inv := range invoices {
		if inv.Status == StatusOverdue {
			overdue = append(overdue, inv)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		if !overdue[i].DueDate.Equal(overdue[j].DueDate) {
			return overdue[i].DueDate.Before(overdue[j].DueDate)
		}
		return overdue[i].Number < overdue[j].Number
	})
	if len(overdue) > 5 {
		overdue = overdue[:5]
	}
	stats.OverdueInvoices = overdue

	return stats
}
