package auth

import (
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
)

// Role names form a closed set. New roles are an administrative/seed concern,
// not something the engine invents at runtime.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SPV"
	RoleFrontliner = "FK"
	RoleStaff      = "STAFF"
)

// DefaultRole is the lowest-privilege operational role. The effective-role
// resolver degrades to it rather than failing, so that missing HR metadata
// can never block authentication.
const DefaultRole = RoleStaff

// Resources gated by the engine. These mirror the application modules that
// consume the guards; the engine itself only treats them as opaque strings.
const (
	ResourceSchedules = "schedules"
	ResourceSeats     = "seats"
	ResourceLeaves    = "leaves"
	ResourceTasks     = "tasks"
	ResourceBills     = "bills"
	ResourceUsers     = "users"
	ResourceRoles     = "roles"
)

var knownRoles = map[string]struct{}{
	RoleAdmin:      {},
	RoleSupervisor: {},
	RoleFrontliner: {},
	RoleStaff:      {},
}

// KnownRole reports whether name belongs to the closed role set.
func KnownRole(name string) bool {
	_, ok := knownRoles[name]
	return ok
}

type catalogSeed struct {
	Resource    string
	Category    string
	DisplayName string
}

var catalogResources = []catalogSeed{
	{ResourceSchedules, "operations", "Shift schedules"},
	{ResourceSeats, "operations", "Seat layout"},
	{ResourceLeaves, "operations", "Leave requests"},
	{ResourceTasks, "operations", "Task tracking"},
	{ResourceBills, "finance", "Bill notifications"},
	{ResourceUsers, "administration", "User accounts"},
	{ResourceRoles, "administration", "Roles and permissions"},
}

// Catalog returns the full (resource, action) catalog used to seed the
// permission_catalog table. Purely descriptive; the decision point never
// reads it.
func Catalog() []roledm.CatalogEntry {
	actions := []string{roledm.ActionView, roledm.ActionEdit, roledm.ActionDelete}
	entries := make([]roledm.CatalogEntry, 0, len(catalogResources)*len(actions))
	for _, seed := range catalogResources {
		for _, action := range actions {
			entries = append(entries, roledm.CatalogEntry{
				Resource:    seed.Resource,
				Action:      action,
				DisplayName: seed.DisplayName + ": " + action,
				Category:    seed.Category,
				IsActive:    true,
			})
		}
	}
	return entries
}

// DefaultMatrix is the bootstrap permission matrix for a role. Used by the
// seeder when a role record is first created; afterwards the stored matrix is
// authoritative and edits go through ReplaceRolePermissions.
func DefaultMatrix(roleName string) []roledm.ResourcePermission {
	switch roleName {
	case RoleAdmin:
		// The admin bypass makes this matrix redundant at decision time, but
		// seeding it keeps the stored record self-describing.
		matrix := make([]roledm.ResourcePermission, 0, len(catalogResources))
		for _, seed := range catalogResources {
			matrix = append(matrix, roledm.ResourcePermission{
				Resource: seed.Resource,
				Actions:  []string{roledm.ActionView, roledm.ActionEdit, roledm.ActionDelete},
			})
		}
		return matrix
	case RoleSupervisor:
		return []roledm.ResourcePermission{
			{Resource: ResourceSchedules, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			{Resource: ResourceSeats, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			{Resource: ResourceLeaves, Actions: []string{roledm.ActionView, roledm.ActionEdit, roledm.ActionDelete}},
			{Resource: ResourceTasks, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			{Resource: ResourceBills, Actions: []string{roledm.ActionView}},
			{Resource: ResourceUsers, Actions: []string{roledm.ActionView}},
		}
	case RoleFrontliner:
		return []roledm.ResourcePermission{
			{Resource: ResourceSchedules, Actions: []string{roledm.ActionView}},
			{Resource: ResourceSeats, Actions: []string{roledm.ActionView}},
			{Resource: ResourceLeaves, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
			{Resource: ResourceTasks, Actions: []string{roledm.ActionView, roledm.ActionEdit}},
		}
	case RoleStaff:
		return []roledm.ResourcePermission{
			{Resource: ResourceSchedules, Actions: []string{roledm.ActionView}},
			{Resource: ResourceLeaves, Actions: []string{roledm.ActionView}},
			{Resource: ResourceTasks, Actions: []string{roledm.ActionView}},
		}
	default:
		return nil
	}
}
