package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ttracx/invoicetracker/internal/core"
)

// ClientStore is the slice of the repository the client flow needs.
type ClientStore interface {
	CreateClient(ctx context.Context, c core.Client) error
	UpdateClient(ctx context.Context, c core.Client) error
	DeleteClient(ctx context.Context, ownerID, id string) error
	GetClient(ctx context.Context, ownerID, id string) (core.Client, error)
	ListClients(ctx context.Context, ownerID string) ([]core.Client, error)
}

// ReportInvalidator drops cached reports after a write. The concrete
// implementation is ReportService; a nil invalidator is a no-op.
type ReportInvalidator interface {
	Invalidate(ownerID string)
}

// ClientService handles client CRUD for one owner at a time.
type ClientService struct {
	store   ClientStore
	clock   Clock
	reports ReportInvalidator
}

func NewClientService(store ClientStore, clock Clock, reports ReportInvalidator) *ClientService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ClientService{store: store, clock: clock, reports: reports}
}

// ClientInput is the mutable surface of a client record.
type ClientInput struct {
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
}

func (in ClientInput) apply(c *core.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.Company = strings.TrimSpace(in.Company)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.State = strings.TrimSpace(in.State)
	c.Zip = strings.TrimSpace(in.Zip)
	c.Country = strings.TrimSpace(in.Country)
	c.Notes = strings.TrimSpace(in.Notes)
}

func (s *ClientService) Create(ctx context.Context, ownerID string, in ClientInput) (core.Client, error) {
	c := core.Client{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	in.apply(&c)

	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	if err := s.store.CreateClient(ctx, c); err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	s.invalidate(ownerID)
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, ownerID, id string, in ClientInput) (core.Client, error) {
	c, err := s.store.GetClient(ctx, ownerID, id)
	if err != nil {
		return core.Client{}, err
	}
	in.apply(&c)

	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return core.Client{}, err
	}
	s.invalidate(ownerID)
	return c, nil
}

// Delete removes the client and, through the schema's cascade, every
// invoice and payment hanging off it.
func (s *ClientService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteClient(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ownerID)
	return nil
}

func (s *ClientService) Get(ctx context.Context, ownerID, id string) (core.Client, error) {
	return s.store.GetClient(ctx, ownerID, id)
}

func (s *ClientService) List(ctx context.Context, ownerID string) ([]core.Client, error) {
	return s.store.ListClients(ctx, ownerID)
}

func (s *ClientService) invalidate(ownerID string) {
	if s.reports != nil {
		s.reports.Invalidate(ownerID)
	}
}
