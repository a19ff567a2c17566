package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clientdesk/internal/account/models"
	"clientdesk/internal/account/store"
	"clientdesk/internal/authz"
	"clientdesk/internal/identity"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/requestcontext"
	"clientdesk/pkg/sentinel"
)

// hardDeleteConcurrency bounds the identity-provider fan-out in HardDelete.
const hardDeleteConcurrency = 4

// Service guards account-state mutations. It enforces the structural
// invariants (self-protection, admin-tier shape) and coordinates the
// identity-store side effects.
type Service struct {
	accounts   store.AccountStore
	identities identity.Provider
	log        *slog.Logger
}

func New(accounts store.AccountStore, identities identity.Provider, log *slog.Logger) *Service {
	return &Service{accounts: accounts, identities: identities, log: log}
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, wrapAccountErr(err)
	}
	return account, nil
}

// List returns all accounts for the console.
func (s *Service) List(ctx context.Context, actor *models.Account) ([]*models.Account, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list accounts")
	}
	return accounts, nil
}

// Deactivate sets the target to INACTIVE, recording the actor. An admin may
// never deactivate its own account through this path.
func (s *Service) Deactivate(ctx context.Context, actor *models.Account, targetID uuid.UUID) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return dErrors.New(dErrors.CodeBadRequest, "cannot deactivate your own account")
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return wrapAccountErr(err)
	}
	if err := target.Deactivate(actor.ID, requestcontext.Now(ctx)); err != nil {
		return err
	}
	if err := s.accounts.Update(ctx, target); err != nil {
		return wrapAccountErr(err)
	}
	return nil
}

// ToggleActivation flips ACTIVE and INACTIVE, then applies the inverse effect
// on the linked identity: activating lifts any ban, deactivating applies a
// permanent ban.
//
// Concurrent toggles on the same account race on a read-then-write of current
// state; last write wins. Acceptable for human-triggered admin actions.
// Account state and identity ban state are two independent writes, not a
// transaction; a crash between them leaves them inconsistent.
func (s *Service) ToggleActivation(ctx context.Context, actor *models.Account, targetID uuid.UUID) (*models.Account, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return nil, wrapAccountErr(err)
	}
	if err := target.Toggle(requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.accounts.Update(ctx, target); err != nil {
		return nil, wrapAccountErr(err)
	}

	if target.Status == models.StatusInactive {
		err = s.identities.Ban(ctx, target.IdentityID, identity.Ban{Forever: true})
	} else {
		err = s.identities.Unban(ctx, target.IdentityID)
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		// The account row outlived its identity. The toggle itself succeeded,
		// but the drift needs to show up somewhere.
		s.log.Warn("identity missing during activation toggle",
			"account_id", target.ID,
			"identity_id", target.IdentityID,
			"status", target.Status,
		)
	} else if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update identity ban state")
	}
	return target, nil
}

// UpdatePatch is the admissible profile mutation set. Nil fields are left
// untouched.
type UpdatePatch struct {
	DisplayName *string
	Role        *string
	AdminTier   *string
}

// UpdateProfile applies a patch to the target account. Setting a non-admin
// role forces the admin tier to null; promoting to admin without an explicit
// tier defaults to SECONDARY.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.Account, targetID uuid.UUID, patch UpdatePatch) (*models.Account, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	target, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return nil, wrapAccountErr(err)
	}

	if patch.DisplayName != nil {
		target.DisplayName = *patch.DisplayName
	}
	if patch.Role != nil {
		role, err := resolveRolePatch(*patch.Role, patch.AdminTier)
		if err != nil {
			return nil, err
		}
		target.Role = role
	} else if patch.AdminTier != nil {
		if !target.Role.IsAdmin() {
			return nil, dErrors.New(dErrors.CodeValidation, "admin tier is only valid for admin accounts")
		}
		role, err := models.ParseRole(string(models.KindAdmin), *patch.AdminTier)
		if err != nil {
			return nil, err
		}
		target.Role = role
	}

	target.UpdatedBy = &actor.ID
	target.UpdatedAt = requestcontext.Now(ctx)
	if err := s.accounts.Update(ctx, target); err != nil {
		return nil, wrapAccountErr(err)
	}
	return target, nil
}

// resolveRolePatch builds the new role. The tier is only consulted when the
// new role is admin; any other role discards it.
func resolveRolePatch(kind string, tier *string) (models.Role, error) {
	if models.RoleKind(kind) == models.KindAdmin {
		t := ""
		if tier != nil {
			t = *tier
		}
		return models.ParseRole(kind, t)
	}
	return models.ParseRole(kind, "")
}

// HardDeleteResult reports the outcome of a hard delete. IdentityErrors maps
// account email to the failure removing its identity; those identities can be
// retried, the profile rows are already gone.
type HardDeleteResult struct {
	Deleted        []string
	IdentityErrors map[string]string
}

// HardDelete removes account rows matching the given emails, then removes
// each linked identity. Profile rows go first in one statement; identity
// removals are attempted independently and a failure for one does not roll
// back the others.
func (s *Service) HardDelete(ctx context.Context, actor *models.Account, emails []string) (*HardDeleteResult, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one email is required")
	}

	deleted, err := s.accounts.DeleteByEmails(ctx, emails)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete account rows")
	}

	result := &HardDeleteResult{IdentityErrors: make(map[string]string)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hardDeleteConcurrency)
	for _, d := range deleted {
		g.Go(func() error {
			err := s.identities.Delete(gctx, d.IdentityID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				result.IdentityErrors[d.Email] = err.Error()
			} else {
				result.Deleted = append(result.Deleted, d.Email)
			}
			return nil
		})
	}
	// Goroutines never return errors; partial failures are reported per
	// identity instead.
	_ = g.Wait()

	return result, nil
}

func wrapAccountErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "account store failure")
}
