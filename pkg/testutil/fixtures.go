package testutil

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clientdesk/internal/account/models"
)

// DiscardLogger returns a logger that swallows output, for tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewAccount builds an account fixture linked to the given identity.
func NewAccount(email string, role models.Role, status models.Status, identityID string) *models.Account {
	now := time.Now().UTC()
	return &models.Account{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: email,
		Role:        role,
		Status:      status,
		IdentityID:  identityID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
