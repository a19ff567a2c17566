// Package session turns an inbound credential context into a canonical
// account record or a definitive failure reason.
package session

import (
	"context"
	"errors"
	"net/http"

	"clientdesk/internal/account/models"
	"clientdesk/internal/identity"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/sentinel"
)

// CookieName is the session cookie the console issues and the edge gate
// forwards.
const CookieName = "clientdesk_session"

// AccountFinder is the slice of the account store the resolver needs.
type AccountFinder interface {
	FindByIdentity(ctx context.Context, identityID string) (*models.Account, error)
}

// Resolver composes the identity provider and the account store. It has no
// side effects and is safe to run on every request.
type Resolver struct {
	provider identity.Provider
	accounts AccountFinder
}

func NewResolver(provider identity.Provider, accounts AccountFinder) *Resolver {
	return &Resolver{provider: provider, accounts: accounts}
}

// Resolve maps a session token to the account it belongs to.
//
// Failure reasons are definitive: unauthorized when no valid identity session
// exists, not_found when the identity has no account row, forbidden when the
// account is not active.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no session")
	}

	ident, err := r.provider.ResolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNoSession) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "no valid session")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "identity provider failure")
	}

	account, err := r.accounts.FindByIdentity(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no account for identity")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "account lookup failure")
	}

	if !account.IsActive() {
		return nil, dErrors.New(dErrors.CodeForbidden, "account is not active")
	}
	return account, nil
}

// ResolveRequest resolves the account from the request's session cookie.
func (r *Resolver) ResolveRequest(req *http.Request) (*models.Account, error) {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no session")
	}
	return r.Resolve(req.Context(), cookie.Value)
}
