package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"clientdesk/internal/account/models"
	"clientdesk/pkg/sentinel"
)

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, email, display_name, role, admin_tier, status, identity_id, updated_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.DisplayName,
		string(account.Role.Kind()),
		account.Role.TierString(),
		string(account.Status),
		account.IdentityID,
		account.UpdatedBy,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return account, nil
}

func (s *PostgresStore) FindByIdentity(ctx context.Context, identityID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE identity_id = $1`
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, identityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account by identity: %w", err)
	}
	return account, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY email`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	query := `
		UPDATE accounts
		SET email = $2, display_name = $3, role = $4, admin_tier = NULLIF($5, ''),
		    status = $6, updated_by = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.DisplayName,
		string(account.Role.Kind()),
		account.Role.TierString(),
		string(account.Status),
		account.UpdatedBy,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByEmails(ctx context.Context, emails []string) ([]DeletedAccount, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}
	query := `
		DELETE FROM accounts
		WHERE lower(email) = ANY($1::text[])
		RETURNING email, identity_id
	`
	rows, err := s.db.QueryContext(ctx, query, lowered)
	if err != nil {
		return nil, fmt.Errorf("delete accounts by email: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var deleted []DeletedAccount
	for rows.Next() {
		var d DeletedAccount
		if err := rows.Scan(&d.Email, &d.IdentityID); err != nil {
			return nil, fmt.Errorf("delete accounts by email: %w", err)
		}
		deleted = append(deleted, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete accounts by email: %w", err)
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a         models.Account
		roleKind  string
		adminTier sql.NullString
		status    string
		updatedBy uuid.NullUUID
	)
	if err := row.Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&roleKind,
		&adminTier,
		&status,
		&a.IdentityID,
		&updatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(roleKind, adminTier.String)
	if err != nil {
		return nil, fmt.Errorf("stored role invalid: %w", err)
	}
	a.Role = role
	a.Status = models.Status(status)
	if updatedBy.Valid {
		a.UpdatedBy = &updatedBy.UUID
	}
	return &a, nil
}
