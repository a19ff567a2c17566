package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "clientdesk/pkg/domain-errors"
)

// Status is the account activation state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

// AdminTier distinguishes admins. It only exists inside an admin role.
//
// TierPrimary currently carries no authorization semantics anywhere in the
// console; it is stored and surfaced but never checked.
type AdminTier string

const (
	TierPrimary   AdminTier = "PRIMARY"
	TierSecondary AdminTier = "SECONDARY"
)

// RoleKind names the three fixed roles of the console.
type RoleKind string

const (
	KindAdmin        RoleKind = "ADMIN"
	KindCollaborator RoleKind = "COLLABORATOR"
	KindClient       RoleKind = "CLIENT"
)

// Role is a closed variant over (kind, admin tier). A tier without the admin
// kind is unrepresentable: the only way to attach a tier is AdminRole.
type Role struct {
	kind RoleKind
	tier AdminTier
}

// AdminRole returns an admin role with the given tier.
func AdminRole(tier AdminTier) Role {
	if tier != TierPrimary {
		tier = TierSecondary
	}
	return Role{kind: KindAdmin, tier: tier}
}

// CollaboratorRole returns the collaborator role.
func CollaboratorRole() Role { return Role{kind: KindCollaborator} }

// ClientRole returns the client role.
func ClientRole() Role { return Role{kind: KindClient} }

// ParseRole reconstructs a Role from its stored representation. A non-empty
// tier on a non-admin kind is rejected rather than silently dropped.
func ParseRole(kind, tier string) (Role, error) {
	switch RoleKind(kind) {
	case KindAdmin:
		switch AdminTier(tier) {
		case TierPrimary:
			return AdminRole(TierPrimary), nil
		case TierSecondary, "":
			return AdminRole(TierSecondary), nil
		default:
			return Role{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown admin tier %q", tier))
		}
	case KindCollaborator, KindClient:
		if tier != "" {
			return Role{}, dErrors.New(dErrors.CodeValidation, "admin tier is only valid for admin accounts")
		}
		return Role{kind: RoleKind(kind)}, nil
	default:
		return Role{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown role %q", kind))
	}
}

// Kind returns the role kind.
func (r Role) Kind() RoleKind { return r.kind }

// IsAdmin reports whether the role is an admin role of any tier.
func (r Role) IsAdmin() bool { return r.kind == KindAdmin }

// Tier returns the admin tier and whether one exists.
func (r Role) Tier() (AdminTier, bool) {
	if r.kind != KindAdmin {
		return "", false
	}
	return r.tier, true
}

// TierString returns the stored tier representation, empty for non-admins.
func (r Role) TierString() string {
	tier, ok := r.Tier()
	if !ok {
		return ""
	}
	return string(tier)
}

// Account is the application-level user record, distinct from the external
// identity it links to.
type Account struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        Role
	Status      Status
	IdentityID  string
	UpdatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the account may use the console.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// Deactivate transitions the account to INACTIVE, recording the actor.
func (a *Account) Deactivate(actor uuid.UUID, now time.Time) error {
	if a.Status == StatusDeleted {
		return dErrors.New(dErrors.CodeConflict, "account is deleted")
	}
	if a.Status == StatusInactive {
		return dErrors.New(dErrors.CodeConflict, "account is already inactive")
	}
	a.Status = StatusInactive
	a.UpdatedBy = &actor
	a.UpdatedAt = now
	return nil
}

// Toggle flips ACTIVE and INACTIVE. Deleted accounts cannot be toggled.
func (a *Account) Toggle(now time.Time) error {
	switch a.Status {
	case StatusActive:
		a.Status = StatusInactive
	case StatusInactive:
		a.Status = StatusActive
	default:
		return dErrors.New(dErrors.CodeConflict, "account is deleted")
	}
	a.UpdatedAt = now
	return nil
}
