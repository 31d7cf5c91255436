package auth

import (
	"fmt"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
)

// Authorize is the decision point: nil means allow, otherwise the returned
// AppError is the deny reason. Rules in order:
//
//  1. absent context denies UNAUTHENTICATED
//  2. the admin role allows unconditionally, even with an empty permission
//     list in the context
//  3. otherwise allow iff "resource.action" is in the context's permission
//     set, else deny FORBIDDEN naming the missing permission
func Authorize(actx *AuthContext, resource, action string) error {
	if actx == nil {
		return internal.ErrUnauthenticated
	}
	if actx.IsAdmin() {
		return nil
	}
	if actx.HasPermission(resource, action) {
		return nil
	}
	required := roledm.PermissionName(resource, action)
	return internal.NewForbiddenError(
		fmt.Sprintf("missing permission %s", required),
		internal.ErrCodeForbidden,
	).WithDetails(map[string]string{"required_permission": required})
}

// RequireRoleName is the role-gate variant: allow iff the context's role is
// one of the named roles. Used where the check is "must be one of these
// roles" rather than a resource/action pair. No admin bypass here — an
// admin-only gate names ADMIN explicitly.
func RequireRoleName(actx *AuthContext, names ...string) error {
	if actx == nil {
		return internal.ErrUnauthenticated
	}
	for _, name := range names {
		if actx.RoleName == name {
			return nil
		}
	}
	return internal.NewForbiddenError(
		fmt.Sprintf("role %s is not permitted", actx.RoleName),
		internal.ErrCodeForbidden,
	)
}
