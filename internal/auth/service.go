package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
	"github.com/mfauzirh/workforce-management/internal/core/events"
)

// ServiceAPI is the contract the HTTP layer consumes.
type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*AuthContext, error)
	ListRoles(ctx context.Context) ([]roledm.Role, error)
	GetRole(ctx context.Context, roleID int64) (*roledm.Role, error)
	UpdateRolePermissions(ctx context.Context, roleID int64, matrix []roledm.ResourcePermission) (*roledm.Role, error)
	PermissionCatalog() []roledm.CatalogEntry
}

// Service wires the resolver, issuer, cache and fallback path together.
type Service struct {
	users      UserRepository
	roles      RoleRepository
	issuer     *TokenIssuer
	fallback   *FallbackResolver
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, roles RoleRepository, issuer *TokenIssuer, cache *RoleCache, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		roles:      roles,
		issuer:     issuer,
		fallback:   NewFallbackResolver(users, roles, cache, logger),
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login authenticates credentials, resolves the user's effective role, and
// mints a token with the role's flattened permissions embedded.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.FindUserByUsername(ctx, dto.Username, true)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, internal.ErrAccountInactive
	}

	roleName, source := ResolveEffectiveRole(u)
	if source != SourceExplicitRole {
		s.logger.Info("login: effective role inferred",
			"user_id", u.ID, "role", roleName, "source", source.String())
	}

	r := s.loadRoleForIssuance(ctx, u, roleName)

	token, claims, err := s.issuer.Issue(u, r)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.issuer.TokenTTL().Seconds()),
		User:      toUserResponse(u, claims.RoleName),
	}, nil
}

// loadRoleForIssuance fetches the role content whose permissions get embedded
// in the claims. The stored reference wins; the resolved name covers legacy
// records without one. Any load failure degrades to a nil role — the token
// is still issued, with empty permissions, and authorization denies
// downstream instead of login breaking.
func (s *Service) loadRoleForIssuance(ctx context.Context, u *userdm.User, roleName string) *roledm.Role {
	if u.RoleID != nil {
		r, err := s.roles.FindRoleByID(ctx, *u.RoleID)
		if err != nil {
			s.logger.Error("login: role lookup failed", "role_id", *u.RoleID, "error", err)
			return nil
		}
		if r != nil {
			return r
		}
		s.logger.Warn("login: dangling role reference", "user_id", u.ID, "role_id", *u.RoleID)
	}

	r, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		s.logger.Error("login: role lookup by name failed", "role", roleName, "error", err)
		return nil
	}
	if r == nil {
		s.logger.Warn("login: resolved role not in store", "role", roleName)
	}
	return r
}

// Authenticate verifies the bearer token and produces the AuthContext.
// Complete claims terminate here with zero store access; incomplete or
// legacy claims route through the fallback resolver.
func (s *Service) Authenticate(ctx context.Context, token string) (*AuthContext, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	if claims.Complete() {
		return &AuthContext{
			UserID:      claims.UserID,
			RoleID:      claims.RoleID,
			RoleName:    claims.RoleName,
			Permissions: claims.Permissions,
		}, nil
	}

	return s.fallback.Resolve(ctx, claims.UserID)
}

func (s *Service) ListRoles(ctx context.Context) ([]roledm.Role, error) {
	list, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return list, nil
}

func (s *Service) GetRole(ctx context.Context, roleID int64) (*roledm.Role, error) {
	r, err := s.roles.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if r == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
	}
	return r, nil
}

// UpdateRolePermissions fully replaces the role's permission matrix. It is
// the single mutation path for permission content. It deliberately does not
// invalidate the permission cache or already-issued tokens: those staleness
// windows are bounded by the cache TTL and the token lifetime.
func (s *Service) UpdateRolePermissions(ctx context.Context, roleID int64, matrix []roledm.ResourcePermission) (*roledm.Role, error) {
	normalized := roledm.Normalize(matrix)

	updated, err := s.roles.ReplaceRolePermissions(ctx, roleID, normalized)
	if err != nil {
		return nil, internal.NewInternalError("failed to replace role permissions", err)
	}
	if updated == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
	}

	if s.bus != nil {
		event := events.NewRolePermissionsReplacedEvent(updated.ID, updated.Name, updated.Flatten())
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("role permissions event publish failed", "role_id", updated.ID, "error", err)
		}
	}

	return updated, nil
}

// PermissionCatalog exposes the static catalog for administrative UIs.
func (s *Service) PermissionCatalog() []roledm.CatalogEntry {
	return Catalog()
}

// HashPassword creates a bcrypt hash with the configured cost. Used by the
// seeder and account tooling.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
