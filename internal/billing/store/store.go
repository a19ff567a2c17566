package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clientdesk/internal/billing/models"
)

// LinkStore reads organization links. Returns sentinel.ErrNotFound when the
// account has no ACTIVE link.
type LinkStore interface {
	FindActiveByAccount(ctx context.Context, accountID uuid.UUID) (*models.OrganizationLink, error)
}

// InvoiceStore reads invoices for an organization.
//
// ListDelinquent returns invoices with a positive balance and a due date at
// or before the cutoff. No ordering is guaranteed; callers must not rely on
// it.
type InvoiceStore interface {
	ListDelinquent(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]models.Invoice, error)
}
