package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfauzirh/workforce-management/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, the permission catalog and sample users",
	Long:  `Seed the permission catalog, the default roles with their bootstrap matrices, and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"role_permissions", "permission_catalog"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared permission data")
		}

		seedCatalog(db)
		seedRoles(db)
		seedUsers(db, cfg.Security.BCryptCost)
	},
}

func seedCatalog(db *gorm.DB) {
	for _, entry := range auth.Catalog() {
		var exists int
		row := db.Raw("SELECT 1 FROM permission_catalog WHERE resource = ? AND action = ?", entry.Resource, entry.Action).Row()
		if err := row.Scan(&exists); err == nil {
			continue
		}
		err := db.Exec(
			"INSERT INTO permission_catalog (resource, action, display_name, category, is_active, created_at) VALUES (?, ?, ?, ?, ?, now())",
			entry.Resource, entry.Action, entry.DisplayName, entry.Category, entry.IsActive,
		).Error
		if err != nil {
			log.Fatalf("failed to insert catalog entry %s.%s: %v", entry.Resource, entry.Action, err)
		}
	}
	fmt.Println("Seeded permission catalog")
}

func seedRoles(db *gorm.DB) {
	roles := []struct {
		Name        string
		DisplayName string
		Description string
	}{
		{auth.RoleAdmin, "Administrator", "Full access to every module"},
		{auth.RoleSupervisor, "Supervisor", "Manages schedules, seats, leave approvals and tasks"},
		{auth.RoleFrontliner, "Frontliner", "Operational staff handling schedules and tasks"},
		{auth.RoleStaff, "Staff", "Read-mostly access to own schedules, leaves and tasks"},
	}

	for _, r := range roles {
		var roleID int64
		row := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row()
		if err := row.Scan(&roleID); err != nil {
			err := db.Exec(
				"INSERT INTO roles (name, display_name, description, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				r.Name, r.DisplayName, r.Description,
			).Error
			if err != nil {
				log.Fatalf("failed to insert role %s: %v", r.Name, err)
			}
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found after insert %s: %v", r.Name, err)
			}
			fmt.Println("Seeded role:", r.Name)
		}

		// Bootstrap the matrix only when the role has none; afterwards the
		// stored matrix is authoritative and edits go through the API.
		var count int64
		if err := db.Raw("SELECT COUNT(1) FROM role_permissions WHERE role_id = ?", roleID).Row().Scan(&count); err != nil {
			log.Fatalf("failed to count role permissions for %s: %v", r.Name, err)
		}
		if count > 0 {
			continue
		}
		for _, rp := range auth.DefaultMatrix(r.Name) {
			for _, action := range rp.Actions {
				err := db.Exec(
					"INSERT INTO role_permissions (role_id, resource, action, created_at) VALUES (?, ?, ?, now())",
					roleID, rp.Resource, action,
				).Error
				if err != nil {
					log.Fatalf("failed to grant %s.%s to %s: %v", rp.Resource, action, r.Name, err)
				}
			}
		}
		fmt.Println("Seeded default matrix for role:", r.Name)
	}
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)

	users := []struct {
		Username  string
		Name      string
		RoleName  string // empty means no explicit role reference
		GroupCode string
		GroupName string
	}{
		{"padil.admin", "Padil Admin", auth.RoleAdmin, "ADM", ""},
		{"sari.spv", "Sari Supervisor", auth.RoleSupervisor, "SPV", ""},
		{"bayu.fk", "Bayu Frontliner", auth.RoleFrontliner, "FK", ""},
		// Legacy record: no role reference at all, group code drives the
		// effective-role inference at login.
		{"legacy.fk", "Legacy Frontliner", "", "FK", "Frontliner"},
		{"dina.staff", "Dina Staff", auth.RoleStaff, "STF", ""},
	}

	for _, u := range users {
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE username = ?", u.Username).Row().Scan(&exists); err == nil {
			continue
		}

		if u.RoleName == "" {
			err := db.Exec(
				"INSERT INTO users (username, name, password_hash, group_code, group_name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 'active', now(), now())",
				u.Username, u.Name, string(hash), u.GroupCode, u.GroupName,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, err)
			}
		} else {
			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.RoleName).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found for user %s: %v", u.Username, err)
			}
			err := db.Exec(
				"INSERT INTO users (username, name, password_hash, role_id, role_name, group_code, group_name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, 'active', now(), now())",
				u.Username, u.Name, string(hash), roleID, u.RoleName, u.GroupCode, u.GroupName,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, err)
			}
		}
		fmt.Println("Seeded user:", u.Username)
	}
}
