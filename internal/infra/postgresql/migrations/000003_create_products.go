package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/scstore/catalog/internal/repository"
	"gorm.io/gorm"
)

func createProductsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_products",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.ProductModel{}); err != nil {
				return err
			}
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name)`,
				`CREATE INDEX IF NOT EXISTS idx_products_price ON products (price)`,
			}
			for _, sql := range indexes {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ProductModel{})
		},
	}
}
