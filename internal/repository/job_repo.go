package repository

import (
	"context"
	"errors"

	"github.com/scstore/catalog/internal/domain"
	"gorm.io/gorm"
)

type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	GetByID(ctx context.Context, id string) (*domain.ImportJob, error)
	Update(ctx context.Context, job *domain.ImportJob) error
	List(ctx context.Context) ([]domain.ImportJob, error)
}

type GormImportJobRepo struct {
	db *gorm.DB
}

func NewGormImportJobRepo(db *gorm.DB) *GormImportJobRepo {
	return &GormImportJobRepo{db: db}
}

func (r *GormImportJobRepo) Create(ctx context.Context, job *domain.ImportJob) error {
	model := jobModelFromDomain(job)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if job != nil {
		*job = *jobModelToDomain(model)
	}
	return nil
}

func (r *GormImportJobRepo) GetByID(ctx context.Context, id string) (*domain.ImportJob, error) {
	var model ImportJobModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return jobModelToDomain(&model), nil
}

func (r *GormImportJobRepo) Update(ctx context.Context, job *domain.ImportJob) error {
	if job == nil {
		return domain.ErrValidation
	}

	model := jobModelFromDomain(job)
	result := r.db.WithContext(ctx).
		Model(&ImportJobModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":            model.Status,
			"total_records":     model.TotalRecords,
			"processed_records": model.ProcessedRecords,
			"failed_records":    model.FailedRecords,
			"started_at":        model.StartedAt,
			"completed_at":      model.CompletedAt,
			"error_message":     model.ErrorMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormImportJobRepo) List(ctx context.Context) ([]domain.ImportJob, error) {
	var models []ImportJobModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.ImportJob, 0, len(models))
	for i := range models {
		jobs = append(jobs, *jobModelToDomain(&models[i]))
	}

	return jobs, nil
}
