// Package access holds the authorization gates and the moderation state
// machines for accounts and listings.
package access

import (
	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// Identity is the verified caller as embedded in the session credential.
// Role and Status reflect issuance time and may lag behind the store by up to the token lifetime.
type Identity struct {
	UserID string
	Role   entity.Role
	Status entity.UserStatus
}

// IsAdmin reports whether the caller has the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == entity.RoleAdmin
}

// RequireAdmin fails with domain.ErrForbidden unless the caller is an admin.
func RequireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// RequireApprovedOrAdmin gates listing creation: approved accounts and admins only.
func RequireApprovedOrAdmin(id Identity) error {
	if id.Status == entity.UserApproved || id.IsAdmin() {
		return nil
	}
	return domain.ErrPendingApproval
}

// RequireOwnerOrAdmin gates listing deletion.
func RequireOwnerOrAdmin(id Identity, farm *entity.Farm) error {
	if id.IsAdmin() || (farm != nil && farm.IsOwnedBy(id.UserID)) {
		return nil
	}
	return domain.ErrForbidden
}
