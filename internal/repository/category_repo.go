package repository

import (
	"context"
	"errors"

	"github.com/scstore/catalog/internal/domain"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int) (*domain.Category, error)
	GetAll(ctx context.Context) ([]domain.Category, error)
	// GetAllIDs returns the valid category reference set. Import runs load
	// it once up front instead of checking per record.
	GetAllIDs(ctx context.Context) ([]int, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int) error
}

type GormCategoryRepo struct {
	db *gorm.DB
}

func NewGormCategoryRepo(db *gorm.DB) *GormCategoryRepo {
	return &GormCategoryRepo{db: db}
}

func (r *GormCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	model := categoryModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if c != nil {
		*c = *categoryModelToDomain(model)
	}
	return nil
}

func (r *GormCategoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	var model CategoryModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return categoryModelToDomain(&model), nil
}

func (r *GormCategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	var models []CategoryModel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(models))
	for i := range models {
		categories = append(categories, *categoryModelToDomain(&models[i]))
	}

	return categories, nil
}

func (r *GormCategoryRepo) GetAllIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if c == nil {
		return domain.ErrValidation
	}

	model := categoryModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"image_url":   model.ImageURL,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormCategoryRepo) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
