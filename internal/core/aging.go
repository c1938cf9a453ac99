package core

import (
	"sort"
	"time"
)

// BucketTotals is one aging bucket's share of the receivables.
type BucketTotals struct {
	Count  int
	Amount Money
}

// AgingSummary is the per-bucket rollup across all open invoices, plus the
// grand total of outstanding amounts.
type AgingSummary struct {
	Current    BucketTotals
	Days1To30  BucketTotals
	Days31To60 BucketTotals
	Days61To90 BucketTotals
	Days90Plus BucketTotals
	Total      Money
}

// ClientAging is one client's outstanding amount split across buckets.
type ClientAging struct {
	ClientID string
	Name     string
	Buckets  [5]Money // current, 1-30, 31-60, 61-90, 90+
	Total    Money
}

// AgedInvoice is one open invoice annotated with its computed aging data.
type AgedInvoice struct {
	Invoice     Invoice
	Outstanding Money
	DaysOverdue int
	Bucket      string // display label
}

// AgingReport is the full receivables aging view for one owner.
type AgingReport struct {
	Summary  AgingSummary
	Invoices []AgedInvoice
	ByClient []ClientAging
}

// BuildAgingReport buckets the owner's open invoices by days overdue as of
// now. Invoices whose status is not open (DRAFT, PAID, CANCELLED) are
// skipped even if present in the snapshot. Output is deterministic for a
// fixed snapshot and now: the client rollup is ordered by descending total
// with client name as tie-break.
func BuildAgingReport(now time.Time, invoices []Invoice) AgingReport {
	var report AgingReport
	byClient := make(map[string]*ClientAging)

	buckets := [5]*BucketTotals{
		&report.Summary.Current,
		&report.Summary.Days1To30,
		&report.Summary.Days31To60,
		&report.Summary.Days61To90,
		&report.Summary.Days90Plus,
	}

	for _, inv := range invoices {
		if !inv.Status.Open() {
			continue
		}
		outstanding := inv.Outstanding()
		days := DaysOverdue(now, inv.DueDate)
		idx := bucketIndex(days)

		buckets[idx].Count++
		buckets[idx].Amount.Cents += outstanding.Cents
		report.Summary.Total.Cents += outstanding.Cents

		report.Invoices = append(report.Invoices, AgedInvoice{
			Invoice:     inv,
			Outstanding: outstanding,
			DaysOverdue: days,
			Bucket:      AgingBucket(now, inv.DueDate),
		})

		ca, ok := byClient[inv.ClientID]
		if !ok {
			ca = &ClientAging{ClientID: inv.ClientID, Name: inv.ClientName}
			byClient[inv.ClientID] = ca
		}
		ca.Buckets[idx].Cents += outstanding.Cents
		ca.Total.Cents += outstanding.Cents
	}

	report.ByClient = make([]ClientAging, 0, len(byClient))
	for _, ca := range byClient {
		report.ByClient = append(report.ByClient, *ca)
	}
	sort.Slice(report.ByClient, func(i, j int) bool {
		a, b := report.ByClient[i], report.ByClient[j]
		if a.Total.Cents != b.Total.Cents {
			return a.Total.Cents > b.Total.Cents
		}
		return a.Name < b.Name
	})

	return report
}
