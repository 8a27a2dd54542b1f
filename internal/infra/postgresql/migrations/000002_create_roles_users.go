package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/scstore/catalog/internal/repository"
	"gorm.io/gorm"
)

func createRolesAndUsersTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_roles_users",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.RoleModel{}); err != nil {
				return err
			}
			return tx.AutoMigrate(&repository.UserModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Migrator().DropTable(&repository.UserModel{}); err != nil {
				return err
			}
			return tx.Migrator().DropTable(&repository.RoleModel{})
		},
	}
}
