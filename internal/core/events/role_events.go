package events

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeRolePermissionsReplaced fires after a role's permission matrix has
// been fully replaced. Subscribers are observers only (audit logging); they
// must not invalidate the permission cache or issued tokens — both staleness
// windows are contractual and bounded by TTL and token expiry.
const EventTypeRolePermissionsReplaced = "role.permissions_replaced"

func NewRolePermissionsReplacedEvent(roleID int64, roleName string, permissions []string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeRolePermissionsReplaced,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"role_id":     roleID,
			"role_name":   roleName,
			"permissions": permissions,
		},
	}
}
