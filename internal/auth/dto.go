package auth

import (
	"fmt"

	errors "github.com/mfauzirh/workforce-management/internal"
	"github.com/mfauzirh/workforce-management/internal/core/common/validation"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login
// requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(100)
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// LoginResponse is returned on successful authentication. ExpiresIn is in
// seconds, matching the token's embedded expiry.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// UserResponse is the role-relevant projection of a user record.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	RoleName string `json:"role_name"`
}

func toUserResponse(u *userdm.User, roleName string) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		RoleName: roleName,
	}
}

// UpdateRolePermissionsDTO carries a full replacement matrix. There is no
// incremental patch: the stored list becomes exactly this, normalized.
type UpdateRolePermissionsDTO struct {
	Permissions []roledm.ResourcePermission `json:"permissions"`
}

func (d UpdateRolePermissionsDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	for i, rp := range d.Permissions {
		field := fmt.Sprintf("permissions[%d]", i)
		v.Field(field+".resource", rp.Resource).Required()
		entry := rp
		v.Field(field+".actions", "").Custom(func(interface{}) *errors.AppError {
			if len(entry.Actions) == 0 {
				return errors.NewValidationFieldError(field+".actions", "actions must not be empty", errors.ErrCodeInvalidAction)
			}
			for _, action := range entry.Actions {
				if !roledm.ValidAction(action) {
					return errors.NewValidationFieldError(field+".actions", fmt.Sprintf("unknown action %q", action), errors.ErrCodeInvalidAction)
				}
			}
			return nil
		})
	}
	return v.Validate()
}
