package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/scstore/catalog/internal/repository"
	"gorm.io/gorm"
)

func createCategoriesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_categories",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.CategoryModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.CategoryModel{})
		},
	}
}
