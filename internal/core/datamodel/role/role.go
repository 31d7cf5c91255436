package role

import (
	"sort"
	"time"
)

// Actions that can be granted on a resource. The set is closed; anything
// outside it is stripped during normalization.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

var validActions = map[string]struct{}{
	ActionView:   {},
	ActionEdit:   {},
	ActionDelete: {},
}

// ResourcePermission grants a set of actions on a single resource.
type ResourcePermission struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// Role is the authoritative owner of permission content. Users only hold a
// reference to it.
type Role struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"is_active"`
	Permissions []ResourcePermission `json:"permissions"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CatalogEntry describes a single (resource, action) pair. Seed data only;
// never consulted at decision time.
type CatalogEntry struct {
	ID          int64     `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	DisplayName string    `json:"display_name"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PermissionName renders the flattened "resource.action" form.
func PermissionName(resource, action string) string {
	return resource + "." + action
}

// ValidAction reports whether action belongs to the closed action set.
func ValidAction(action string) bool {
	_, ok := validActions[action]
	return ok
}

// Flatten expands the permission matrix into sorted, deduplicated
// "resource.action" strings. Two roles with identical matrices flatten to
// identical sets.
func Flatten(matrix []ResourcePermission) []string {
	seen := make(map[string]struct{})
	for _, rp := range matrix {
		for _, action := range rp.Actions {
			if !ValidAction(action) {
				continue
			}
			seen[PermissionName(rp.Resource, action)] = struct{}{}
		}
	}
	flat := make([]string, 0, len(seen))
	for name := range seen {
		flat = append(flat, name)
	}
	sort.Strings(flat)
	return flat
}

// Normalize collapses a matrix to at most one entry per resource with
// deduplicated, valid actions. Entries left with no actions are dropped.
func Normalize(matrix []ResourcePermission) []ResourcePermission {
	byResource := make(map[string]map[string]struct{})
	order := make([]string, 0, len(matrix))
	for _, rp := range matrix {
		if rp.Resource == "" {
			continue
		}
		if _, ok := byResource[rp.Resource]; !ok {
			byResource[rp.Resource] = make(map[string]struct{})
			order = append(order, rp.Resource)
		}
		for _, action := range rp.Actions {
			if ValidAction(action) {
				byResource[rp.Resource][action] = struct{}{}
			}
		}
	}
	sort.Strings(order)

	normalized := make([]ResourcePermission, 0, len(order))
	for _, resource := range order {
		actions := make([]string, 0, len(byResource[resource]))
		for action := range byResource[resource] {
			actions = append(actions, action)
		}
		if len(actions) == 0 {
			continue
		}
		sort.Strings(actions)
		normalized = append(normalized, ResourcePermission{Resource: resource, Actions: actions})
	}
	return normalized
}

// Flatten is the flattened permission set of the role itself.
func (r *Role) Flatten() []string {
	if r == nil {
		return nil
	}
	return Flatten(r.Permissions)
}
