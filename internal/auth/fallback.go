package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
)

// FallbackResolver builds an AuthContext from the store when token claims
// are incomplete (legacy tokens, or roles that had no permissions at
// issuance). It is the only consumer of the RoleCache; the cache is never
// exposed past this interface so it can later be swapped for a shared store
// without touching callers.
type FallbackResolver struct {
	users  UserRepository
	roles  RoleRepository
	cache  *RoleCache
	logger *slog.Logger
}

func NewFallbackResolver(users UserRepository, roles RoleRepository, cache *RoleCache, logger *slog.Logger) *FallbackResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackResolver{
		users:  users,
		roles:  roles,
		cache:  cache,
		logger: logger,
	}
}

// Resolve loads the user, resolves its role through the cache, and returns
// the same AuthContext shape the fast path produces.
//
// A dangling role reference is a hard ROLE_NOT_FOUND deny, never a silent
// fall back to group inference: the user already authenticated once, so a
// broken reference at this point is a data-integrity fault to surface.
func (f *FallbackResolver) Resolve(ctx context.Context, userID int64) (*AuthContext, error) {
	u, err := f.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	if !u.IsActive() {
		return nil, internal.ErrAccountInactive
	}
	if u.RoleID == nil {
		f.logger.Warn("fallback resolve: user has no role reference", "user_id", userID)
		return nil, internal.ErrRoleNotFound
	}

	snapshot, ok := f.cache.Get(*u.RoleID)
	if !ok {
		snapshot, err = f.loadRole(ctx, *u.RoleID)
		if err != nil {
			return nil, err
		}
	}
	if !snapshot.IsActive {
		return nil, internal.ErrRoleInactive
	}

	return &AuthContext{
		UserID:      u.ID,
		RoleID:      snapshot.RoleID,
		RoleName:    snapshot.RoleName,
		Permissions: snapshot.Permissions,
	}, nil
}

// loadRole fetches the role from the store, flattens its matrix, and
// repopulates the cache entry (overwriting any stale one). Inactive roles
// are cached too: the deny they carry is just as valid a snapshot.
func (f *FallbackResolver) loadRole(ctx context.Context, roleID int64) (RoleSnapshot, error) {
	r, err := f.roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return RoleSnapshot{}, internal.NewInternalError("failed to load role", err)
	}
	if r == nil {
		f.logger.Warn("fallback resolve: dangling role reference", "role_id", roleID)
		return RoleSnapshot{}, internal.ErrRoleNotFound
	}

	snapshot := snapshotRole(r)
	f.cache.Set(snapshot)
	return snapshot, nil
}

func snapshotRole(r *roledm.Role) RoleSnapshot {
	return RoleSnapshot{
		RoleID:      r.ID,
		RoleName:    r.Name,
		DisplayName: r.DisplayName,
		IsActive:    r.IsActive,
		Permissions: r.Flatten(),
		CachedAt:    time.Now(),
	}
}
