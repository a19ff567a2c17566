// Package authz is the single predicate set every privileged handler runs
// before touching domain data. Handlers must not re-derive these checks
// inline.
package authz

import (
	"clientdesk/internal/account/models"
	dErrors "clientdesk/pkg/domain-errors"
)

// RequireActive fails unless the account is ACTIVE.
func RequireActive(account *models.Account) error {
	if account == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "no account")
	}
	if !account.IsActive() {
		return dErrors.New(dErrors.CodeForbidden, "account is not active")
	}
	return nil
}

// RequireRole fails unless the account holds the given role kind.
// Admin tier is deliberately not consulted: Primary and Secondary admins
// are equivalent for authorization.
func RequireRole(account *models.Account, kind models.RoleKind) error {
	if account == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "no account")
	}
	if account.Role.Kind() != kind {
		return dErrors.New(dErrors.CodeForbidden, "insufficient role")
	}
	return nil
}

// RequireAdmin is the composite check for admin-only endpoints: the account
// must be active and hold the admin role.
func RequireAdmin(account *models.Account) error {
	if err := RequireActive(account); err != nil {
		return err
	}
	return RequireRole(account, models.KindAdmin)
}
