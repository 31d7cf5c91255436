package user

import "time"

// StatusActive is the only account status that may pass authorization. Any
// other value (suspended, resigned, free text from HR imports) denies.
const StatusActive = "active"

// User carries only the fields the authorization engine needs. RoleID is the
// owned reference to the role record; RoleName mirrors the role's name for
// backward compatibility with records written before the reference existed.
// GroupCode and GroupName are organizational HR attributes, not security
// primitives; they feed the effective-role inference chain.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	RoleID       *int64    `json:"role_id,omitempty"`
	RoleName     string    `json:"role_name,omitempty"`
	GroupCode    string    `json:"group_code,omitempty"`
	GroupName    string    `json:"group_name,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}
