package auth

import (
	"strings"

	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

// RoleSource tags where the effective role of a user came from. The resolver
// is an ordered chain over these sources; the first one that produces a
// recognized role wins.
type RoleSource int

const (
	SourceExplicitRole RoleSource = iota
	SourceGroupCode
	SourceGroupName
	SourceDefault
)

func (s RoleSource) String() string {
	switch s {
	case SourceExplicitRole:
		return "explicit_role"
	case SourceGroupCode:
		return "group_code"
	case SourceGroupName:
		return "group_name"
	default:
		return "default"
	}
}

// groupRoleTable maps organizational group codes and legacy free-text group
// names to role names. Keys are compared after trimming and upper-casing, so
// HR exports with inconsistent casing still resolve. The table intentionally
// covers both the short HR codes and the spelled-out department labels that
// predate them.
var groupRoleTable = map[string]string{
	"ADM":           RoleAdmin,
	"ADMIN":         RoleAdmin,
	"ADMINISTRATOR": RoleAdmin,
	"SPV":           RoleSupervisor,
	"SUPERVISOR":    RoleSupervisor,
	"FK":            RoleFrontliner,
	"FRONTLINER":    RoleFrontliner,
	"FRONT KANTOR":  RoleFrontliner,
	"STF":           RoleStaff,
	"STAF":          RoleStaff,
	"STAFF":         RoleStaff,
}

func lookupGroup(value string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	name, ok := groupRoleTable[key]
	return name, ok
}

// roleSourceFn inspects one source on the user record. It reports a role
// name only when that source yields a recognized role.
type roleSourceFn func(*userdm.User) (string, bool)

var resolverChain = []struct {
	source  RoleSource
	resolve roleSourceFn
}{
	{SourceExplicitRole, func(u *userdm.User) (string, bool) {
		name := strings.ToUpper(strings.TrimSpace(u.RoleName))
		return name, KnownRole(name)
	}},
	{SourceGroupCode, func(u *userdm.User) (string, bool) {
		return lookupGroup(u.GroupCode)
	}},
	{SourceGroupName, func(u *userdm.User) (string, bool) {
		return lookupGroup(u.GroupName)
	}},
}

// ResolveEffectiveRole determines the single role used for authorization.
// Total and pure: it never errors, and an unresolvable user degrades to
// DefaultRole so that broken HR metadata cannot block authentication. The
// flip side is that a mis-tagged user silently gets default-role permissions;
// the returned source exists so callers can log when that happens.
func ResolveEffectiveRole(u *userdm.User) (string, RoleSource) {
	if u == nil {
		return DefaultRole, SourceDefault
	}
	for _, step := range resolverChain {
		if name, ok := step.resolve(u); ok {
			return name, step.source
		}
	}
	return DefaultRole, SourceDefault
}
