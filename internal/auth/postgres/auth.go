package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

// Repository implements the engine's UserRepository and RoleRepository
// against the relational store. A missing record is (nil, nil); errors are
// reserved for store failures so the fallback path can keep INTERNAL and
// deny reasons apart.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, name, password_hash, role_id, role_name, group_code, group_name, status, created_at, updated_at`

func (r *Repository) FindUserByID(ctx context.Context, id int64) (*userdm.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.WithContext(ctx).Raw(query, id).Row())
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string, caseInsensitive bool) (*userdm.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	if caseInsensitive {
		query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?)`
	}
	return r.scanUser(r.db.WithContext(ctx).Raw(query, username).Row())
}

func (r *Repository) scanUser(row *sql.Row) (*userdm.User, error) {
	var u userdm.User
	var roleID sql.NullInt64
	var roleName, groupCode, groupName sql.NullString

	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &roleID, &roleName,
		&groupCode, &groupName, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if roleID.Valid {
		u.RoleID = &roleID.Int64
	}
	u.RoleName = roleName.String
	u.GroupCode = groupCode.String
	u.GroupName = groupName.String
	return &u, nil
}

func (r *Repository) FindRoleByID(ctx context.Context, id int64) (*roledm.Role, error) {
	query := `SELECT id, name, display_name, description, is_active, created_at, updated_at FROM roles WHERE id = ?`
	return r.loadRole(ctx, r.db.WithContext(ctx).Raw(query, id).Row())
}

func (r *Repository) FindRoleByName(ctx context.Context, name string) (*roledm.Role, error) {
	query := `SELECT id, name, display_name, description, is_active, created_at, updated_at FROM roles WHERE name = ?`
	return r.loadRole(ctx, r.db.WithContext(ctx).Raw(query, name).Row())
}

func (r *Repository) loadRole(ctx context.Context, row *sql.Row) (*roledm.Role, error) {
	var role roledm.Role
	err := row.Scan(&role.ID, &role.Name, &role.DisplayName, &role.Description,
		&role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	matrix, err := r.loadMatrix(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = matrix
	return &role, nil
}

// loadMatrix regroups the flat (resource, action) rows into the matrix
// shape: one entry per resource, actions ordered.
func (r *Repository) loadMatrix(ctx context.Context, roleID int64) ([]roledm.ResourcePermission, error) {
	query := `SELECT resource, action FROM role_permissions WHERE role_id = ? ORDER BY resource, action`
	rows, err := r.db.WithContext(ctx).Raw(query, roleID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matrix []roledm.ResourcePermission
	for rows.Next() {
		var resource, action string
		if err := rows.Scan(&resource, &action); err != nil {
			return nil, err
		}
		if n := len(matrix); n > 0 && matrix[n-1].Resource == resource {
			matrix[n-1].Actions = append(matrix[n-1].Actions, action)
		} else {
			matrix = append(matrix, roledm.ResourcePermission{Resource: resource, Actions: []string{action}})
		}
	}
	return matrix, rows.Err()
}

func (r *Repository) ListRoles(ctx context.Context) ([]roledm.Role, error) {
	query := `SELECT id, name, display_name, description, is_active, created_at, updated_at FROM roles ORDER BY name`
	rows, err := r.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []roledm.Role
	for rows.Next() {
		var role roledm.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.DisplayName, &role.Description,
			&role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range roles {
		matrix, err := r.loadMatrix(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = matrix
	}
	return roles, nil
}

// ReplaceRolePermissions swaps the role's entire permission list inside a
// transaction: delete everything, reinsert the new matrix. Returns the
// reloaded role, or (nil, nil) when the role does not exist.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, roleID int64, matrix []roledm.ResourcePermission) (*roledm.Role, error) {
	existing, err := r.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, roleID).Error; err != nil {
			return err
		}
		for _, rp := range matrix {
			for _, action := range rp.Actions {
				insert := `INSERT INTO role_permissions (role_id, resource, action, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`
				if err := tx.Exec(insert, roleID, rp.Resource, action).Error; err != nil {
					return err
				}
			}
		}
		return tx.Exec(`UPDATE roles SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, roleID).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindRoleByID(ctx, roleID)
}
