package store

import (
	"context"

	"github.com/google/uuid"

	"clientdesk/internal/account/models"
)

// DeletedAccount reports one row removed by DeleteByEmails, carrying the
// identity id so the caller can remove the identity afterwards.
type DeletedAccount struct {
	Email      string
	IdentityID string
}

// AccountStore persists account records. Implementations return
// sentinel.ErrNotFound when a record cannot be located.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByIdentity(ctx context.Context, identityID string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	// DeleteByEmails removes rows matching the given emails in one statement
	// and reports what was removed. Emails with no matching row are skipped.
	DeleteByEmails(ctx context.Context, emails []string) ([]DeletedAccount, error)
}
