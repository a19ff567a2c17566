package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clientdesk/internal/billing/models"
	"clientdesk/pkg/sentinel"
)

// PostgresLinkStore reads organization links from PostgreSQL.
type PostgresLinkStore struct {
	db *sql.DB
}

func NewPostgresLinks(db *sql.DB) *PostgresLinkStore {
	return &PostgresLinkStore{db: db}
}

func (s *PostgresLinkStore) FindActiveByAccount(ctx context.Context, accountID uuid.UUID) (*models.OrganizationLink, error) {
	query := `
		SELECT account_id, organization_id, status, created_at
		FROM organization_links
		WHERE account_id = $1 AND status = 'ACTIVE'
		LIMIT 1
	`
	var link models.OrganizationLink
	var status string
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&link.AccountID,
		&link.OrganizationID,
		&status,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active link: %w", err)
	}
	link.Status = models.LinkStatus(status)
	return &link, nil
}

// PostgresInvoiceStore reads invoices from PostgreSQL.
type PostgresInvoiceStore struct {
	db *sql.DB
}

func NewPostgresInvoices(db *sql.DB) *PostgresInvoiceStore {
	return &PostgresInvoiceStore{db: db}
}

func (s *PostgresInvoiceStore) ListDelinquent(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]models.Invoice, error) {
	query := `
		SELECT id, organization_id, balance_cents, due_date, period, status, created_at
		FROM invoices
		WHERE organization_id = $1
		  AND balance_cents > 0
		  AND due_date IS NOT NULL
		  AND due_date <= $2
	`
	rows, err := s.db.QueryContext(ctx, query, organizationID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list delinquent invoices: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []models.Invoice
	for rows.Next() {
		var (
			inv    models.Invoice
			due    sql.NullTime
			status string
		)
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.BalanceCents, &due, &inv.Period, &status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("list delinquent invoices: %w", err)
		}
		if due.Valid {
			d := due.Time
			inv.DueDate = &d
		}
		inv.Status = models.InvoiceStatus(status)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delinquent invoices: %w", err)
	}
	return out, nil
}
