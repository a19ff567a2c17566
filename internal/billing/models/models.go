package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkStatus is the organization link state.
type LinkStatus string

const (
	LinkActive   LinkStatus = "ACTIVE"
	LinkInactive LinkStatus = "INACTIVE"
)

// OrganizationLink ties a client account to the organization it is billed
// under. Modeled 1:N with at most one ACTIVE row per account expected.
type OrganizationLink struct {
	AccountID      uuid.UUID
	OrganizationID uuid.UUID
	Status         LinkStatus
	CreatedAt      time.Time
}

// InvoiceStatus is the billing-store invoice state. Billing mutations happen
// outside this console; the gate only reads.
type InvoiceStatus string

const (
	InvoiceOpen InvoiceStatus = "OPEN"
	InvoicePaid InvoiceStatus = "PAID"
)

// Invoice is a read model over the billing store.
type Invoice struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BalanceCents   int64
	DueDate        *time.Time
	Period         string
	Status         InvoiceStatus
	CreatedAt      time.Time
}

// BillingState is derived per request from account, link, and invoices. It is
// never persisted or cached.
type BillingState struct {
	Blocked        bool
	OrganizationID uuid.UUID
	Delinquent     []Invoice
}
