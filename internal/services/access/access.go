// Package access decides whether a caller may perform a gated operation.
package access

import (
	"fmt"

	"github.com/gamerverse/backend/internal/domain/apperrors"
	"github.com/gamerverse/backend/internal/domain/enums"
)

// ModeratorRoles may flag, delete and resolve. Each call returns a fresh slice.
func ModeratorRoles() []enums.Role {
	return []enums.Role{enums.RoleAdmin, enums.RoleModerator}
}

// AdminRoles may decide appeals and trigger the digest.
func AdminRoles() []enums.Role {
	return []enums.Role{enums.RoleAdmin}
}

// ErrForbidden is returned for every denied check, whatever the cause.
var ErrForbidden = fmt.Errorf("Forbidden: %w", apperrors.ErrPermission)

type Caller struct {
	UserID int64
	Roles  []enums.Role
}

// CheckRole denies a nil caller, a caller without roles, an empty allow list,
// and any caller whose roles do not intersect it.
func CheckRole(caller *Caller, allowed ...enums.Role) error {
	if caller == nil || caller.UserID <= 0 || len(caller.Roles) == 0 || len(allowed) == 0 {
		return ErrForbidden
	}

	for _, have := range caller.Roles {
		h := enums.NormalizeRole(string(have))
		for _, want := range allowed {
			if h != "" && h == enums.NormalizeRole(string(want)) {
				return nil
			}
		}
	}
	return ErrForbidden
}
