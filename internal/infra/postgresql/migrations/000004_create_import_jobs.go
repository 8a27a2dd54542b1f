package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/scstore/catalog/internal/repository"
	"gorm.io/gorm"
)

func createImportJobsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000004_create_import_jobs",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.ImportJobModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_import_jobs_created_at ON import_jobs (created_at DESC)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.ImportJobModel{})
		},
	}
}
