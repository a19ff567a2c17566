package identity

import (
	"context"
	"time"
)

// Identity is the authentication subject owned by the identity provider.
// The console never mutates it beyond ban state.
type Identity struct {
	ID     string
	Email  string
	Banned bool
}

// Ban describes a credential ban. Forever is explicit rather than a sentinel
// huge duration; Duration is ignored when Forever is set.
type Ban struct {
	Duration time.Duration
	Forever  bool
}

// Provider is the port to the external identity provider.
//
// ResolveSession returns sentinel.ErrNoSession when the token is absent,
// invalid, expired, or the identity is currently banned.
type Provider interface {
	ResolveSession(ctx context.Context, token string) (*Identity, error)
	Ban(ctx context.Context, identityID string, ban Ban) error
	Unban(ctx context.Context, identityID string) error
	// Delete removes the identity entirely. Irreversible.
	Delete(ctx context.Context, identityID string) error
}

// Authenticator is implemented by providers that can verify first-party
// credentials and mint a session token. The dev provider implements it; a
// hosted IdP handles login on its own pages instead.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
