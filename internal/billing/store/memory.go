package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clientdesk/internal/billing/models"
	"clientdesk/pkg/sentinel"
)

// InMemoryLinkStore stores organization links in memory for development and
// tests.
type InMemoryLinkStore struct {
	mu    sync.RWMutex
	links []models.OrganizationLink
}

func NewInMemoryLinks() *InMemoryLinkStore {
	return &InMemoryLinkStore{}
}

func (s *InMemoryLinkStore) Add(link models.OrganizationLink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, link)
}

func (s *InMemoryLinkStore) FindActiveByAccount(_ context.Context, accountID uuid.UUID) (*models.OrganizationLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.links {
		if s.links[i].AccountID == accountID && s.links[i].Status == models.LinkActive {
			link := s.links[i]
			return &link, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// InMemoryInvoiceStore stores invoices in memory for development and tests.
type InMemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices []models.Invoice
}

func NewInMemoryInvoices() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{}
}

func (s *InMemoryInvoiceStore) Add(inv models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, inv)
}

func (s *InMemoryInvoiceStore) ListDelinquent(_ context.Context, organizationID uuid.UUID, cutoff time.Time) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Invoice
	for _, inv := range s.invoices {
		if inv.OrganizationID != organizationID {
			continue
		}
		if inv.BalanceCents <= 0 || inv.DueDate == nil {
			continue
		}
		if inv.DueDate.After(cutoff) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}
