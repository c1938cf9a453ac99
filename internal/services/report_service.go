package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ttracx/invoicetracker/internal/cache"
	"github.com/ttracx/invoicetracker/internal/core"
	"github.com/ttracx/invoicetracker/internal/storage"
)

// ReportStore is the slice of the repository reports are built from.
type ReportStore interface {
	ListInvoices(ctx context.Context, ownerID string, f storage.InvoiceFilter) ([]core.Invoice, error)
	CountClients(ctx context.Context, ownerID string) (int, error)
}

// ReportService builds the dashboard and aging views. Both are derived
// wholly from the invoice snapshot, so results are cached per owner and
// dropped whenever that owner writes.
type ReportService struct {
	store ReportStore
	clock Clock

	dashboards *cache.LRUCache[core.DashboardStats]
	aging      *cache.LRUCache[core.AgingReport]
}

func NewReportService(store ReportStore, clock Clock, manager *cache.Manager) *ReportService {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &ReportService{
		store:      store,
		clock:      clock,
		dashboards: cache.NewLRUCache[core.DashboardStats](256, time.Minute),
		aging:      cache.NewLRUCache[core.AgingReport](256, time.Minute),
	}
	if manager != nil {
		manager.Register(s.dashboards)
		manager.Register(s.aging)
	}
	return s
}

// Dashboard returns the owner's receivables summary as of now.
func (s *ReportService) Dashboard(ctx context.Context, ownerID string) (core.DashboardStats, error) {
	if stats, ok := s.dashboards.Get(ownerID); ok {
		return stats, nil
	}

	var (
		invoices    []core.Invoice
		clientCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = s.store.ListInvoices(gctx, ownerID, storage.InvoiceFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		clientCount, err = s.store.CountClients(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardStats{}, fmt.Errorf("load dashboard snapshot: %w", err)
	}

	stats := core.BuildDashboardStats(s.clock.Now(), invoices, clientCount)
	s.dashboards.Set(ownerID, stats)
	return stats, nil
}

// Aging returns the owner's receivables aging report as of now.
func (s *ReportService) Aging(ctx context.Context, ownerID string) (core.AgingReport, error) {
	if report, ok := s.aging.Get(ownerID); ok {
		return report, nil
	}

	invoices, err := s.store.ListInvoices(ctx, ownerID, storage.InvoiceFilter{})
	if err != nil {
		return core.AgingReport{}, fmt.Errorf("load aging snapshot: %w", err)
	}

	report := core.BuildAgingReport(s.clock.Now(), invoices)
	s.aging.Set(ownerID, report)
	return report, nil
}

// Invalidate drops the owner's cached reports. Called after every write
// that can move a number on the dashboard.
func (s *ReportService) Invalidate(ownerID string) {
	s.dashboards.Delete(ownerID)
	s.aging.Delete(ownerID)
}
