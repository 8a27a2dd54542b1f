package migrations

import (
	"os"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/scstore/catalog/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedReferenceData inserts the roles, the initial admin account, and a
// starter category set so generated imports have a valid reference set.
func seedReferenceData() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000005_seed_reference_data",
		Migrate: func(tx *gorm.DB) error {
			adminRole := repository.RoleModel{
				Name:        "admin",
				Permissions: `{"products":["read","write"],"categories":["read","write"],"imports":["read","write"]}`,
			}
			userRole := repository.RoleModel{
				Name:        "user",
				Permissions: `{"products":["read"],"categories":["read"]}`,
			}
			if err := tx.Create(&adminRole).Error; err != nil {
				return err
			}
			if err := tx.Create(&userRole).Error; err != nil {
				return err
			}

			password := os.Getenv("ADMIN_INITIAL_PASSWORD")
			if password == "" {
				password = "ChangeMe123!"
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			admin := repository.UserModel{
				Username:     "admin",
				Email:        "admin@scstore.local",
				PasswordHash: string(hash),
				RoleID:       adminRole.ID,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}

			categories := []repository.CategoryModel{
				{Name: "Physical Servers", Description: strPtr("Rack and tower servers")},
				{Name: "Virtualization", Description: strPtr("Hypervisors and virtual infrastructure")},
				{Name: "Cloud Compute", Description: strPtr("Public cloud compute instances")},
				{Name: "Containers", Description: strPtr("Container platforms and orchestration")},
			}
			return tx.Create(&categories).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec(`DELETE FROM users WHERE username = 'admin'`).Error; err != nil {
				return err
			}
			return tx.Exec(`DELETE FROM roles WHERE name IN ('admin', 'user')`).Error
		},
	}
}

func strPtr(s string) *string { return &s }
