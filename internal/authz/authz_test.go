package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"clientdesk/internal/account/models"
	dErrors "clientdesk/pkg/domain-errors"
)

func account(role models.Role, status models.Status) *models.Account {
	return &models.Account{ID: uuid.New(), Role: role, Status: status}
}

func TestRequireActive(t *testing.T) {
	assert.NoError(t, RequireActive(account(models.ClientRole(), models.StatusActive)))

	err := RequireActive(account(models.ClientRole(), models.StatusInactive))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	err = RequireActive(account(models.ClientRole(), models.StatusDeleted))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	err = RequireActive(nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestRequireRole(t *testing.T) {
	admin := account(models.AdminRole(models.TierSecondary), models.StatusActive)
	assert.NoError(t, RequireRole(admin, models.KindAdmin))

	err := RequireRole(admin, models.KindClient)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestRequireAdmin(t *testing.T) {
	t.Run("active admin passes regardless of tier", func(t *testing.T) {
		assert.NoError(t, RequireAdmin(account(models.AdminRole(models.TierPrimary), models.StatusActive)))
		assert.NoError(t, RequireAdmin(account(models.AdminRole(models.TierSecondary), models.StatusActive)))
	})

	t.Run("inactive admin is rejected", func(t *testing.T) {
		err := RequireAdmin(account(models.AdminRole(models.TierPrimary), models.StatusInactive))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("active non-admin is rejected", func(t *testing.T) {
		err := RequireAdmin(account(models.CollaboratorRole(), models.StatusActive))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
