package auth

import (
	"context"

	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

// AuthContext is the resolved authorization identity attached to a request.
// Both the claim fast path and the store-backed fallback path produce this
// exact shape, so the decision point never knows which path supplied it.
type AuthContext struct {
	UserID      int64    `json:"user_id"`
	RoleID      int64    `json:"role_id,omitempty"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports membership of the flattened "resource.action" grant.
// It does not apply the admin bypass; that belongs to Authorize.
func (c *AuthContext) HasPermission(resource, action string) bool {
	if c == nil {
		return false
	}
	want := roledm.PermissionName(resource, action)
	for _, p := range c.Permissions {
		if p == want {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the context carries the admin role. Admin is
// defined as holding every permission without needing it enumerated.
func (c *AuthContext) IsAdmin() bool {
	return c != nil && c.RoleName == RoleAdmin
}

// UserRepository is the slice of the user store the engine consumes.
// Implementations return (nil, nil) for a missing record; errors are reserved
// for store failures.
type UserRepository interface {
	FindUserByID(ctx context.Context, id int64) (*userdm.User, error)
	FindUserByUsername(ctx context.Context, username string, caseInsensitive bool) (*userdm.User, error)
}

// RoleRepository is the slice of the role store the engine consumes.
type RoleRepository interface {
	FindRoleByID(ctx context.Context, id int64) (*roledm.Role, error)
	FindRoleByName(ctx context.Context, name string) (*roledm.Role, error)
	ListRoles(ctx context.Context) ([]roledm.Role, error)
	ReplaceRolePermissions(ctx context.Context, roleID int64, matrix []roledm.ResourcePermission) (*roledm.Role, error)
}

type ctxKey string

const contextAuthKey ctxKey = "authContext"

// WithAuthContext stores the resolved AuthContext on the request context.
func WithAuthContext(ctx context.Context, actx *AuthContext) context.Context {
	return context.WithValue(ctx, contextAuthKey, actx)
}

// FromContext returns the AuthContext placed by the auth middleware.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	actx, ok := ctx.Value(contextAuthKey).(*AuthContext)
	return actx, ok && actx != nil
}
