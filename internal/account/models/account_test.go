package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clientdesk/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	t.Run("admin with primary tier", func(t *testing.T) {
		role, err := ParseRole("ADMIN", "PRIMARY")
		require.NoError(t, err)
		assert.True(t, role.IsAdmin())
		tier, ok := role.Tier()
		assert.True(t, ok)
		assert.Equal(t, TierPrimary, tier)
	})

	t.Run("admin without tier defaults to secondary", func(t *testing.T) {
		role, err := ParseRole("ADMIN", "")
		require.NoError(t, err)
		tier, ok := role.Tier()
		assert.True(t, ok)
		assert.Equal(t, TierSecondary, tier)
	})

	t.Run("tier on non-admin is rejected", func(t *testing.T) {
		_, err := ParseRole("CLIENT", "PRIMARY")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := ParseRole("SUPERUSER", "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestNonAdminRolesHaveNoTier(t *testing.T) {
	for _, role := range []Role{CollaboratorRole(), ClientRole()} {
		_, ok := role.Tier()
		assert.False(t, ok)
		assert.Empty(t, role.TierString())
	}
}

func TestDeactivate(t *testing.T) {
	actor := uuid.New()
	now := time.Now()

	t.Run("active account", func(t *testing.T) {
		a := &Account{ID: uuid.New(), Status: StatusActive}
		require.NoError(t, a.Deactivate(actor, now))
		assert.Equal(t, StatusInactive, a.Status)
		require.NotNil(t, a.UpdatedBy)
		assert.Equal(t, actor, *a.UpdatedBy)
	})

	t.Run("already inactive", func(t *testing.T) {
		a := &Account{ID: uuid.New(), Status: StatusInactive}
		err := a.Deactivate(actor, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("deleted", func(t *testing.T) {
		a := &Account{ID: uuid.New(), Status: StatusDeleted}
		err := a.Deactivate(actor, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestToggleRoundTrip(t *testing.T) {
	a := &Account{ID: uuid.New(), Status: StatusActive}
	now := time.Now()

	require.NoError(t, a.Toggle(now))
	assert.Equal(t, StatusInactive, a.Status)
	require.NoError(t, a.Toggle(now))
	assert.Equal(t, StatusActive, a.Status)
}

func TestToggleDeletedFails(t *testing.T) {
	a := &Account{ID: uuid.New(), Status: StatusDeleted}
	err := a.Toggle(time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}
