package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
	"gorm.io/gorm"
)

// ProductListParams filters and pages the product listing.
type ProductListParams struct {
	Search     string
	CategoryID *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinStock   *int
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"createdat": "created_at",
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	GetPaged(ctx context.Context, params ProductListParams) ([]domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int) error
	CountByCategoryID(ctx context.Context, categoryID int) (int64, error)
	BulkInsert(ctx context.Context, products []domain.Product) error
}

type GormProductRepo struct {
	db *gorm.DB
}

func NewGormProductRepo(db *gorm.DB) *GormProductRepo {
	return &GormProductRepo{db: db}
}

func (r *GormProductRepo) Create(ctx context.Context, p *domain.Product) error {
	model := productModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if p != nil {
		*p = *productModelToDomain(model)
	}
	return nil
}

func (r *GormProductRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return productModelToDomain(&model), nil
}

func (r *GormProductRepo) GetPaged(ctx context.Context, params ProductListParams) ([]domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}
	if params.MinStock != nil {
		query = query.Where("stock >= ?", *params.MinStock)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	pageSize = min(pageSize, 100)

	column, ok := productSortColumns[params.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if params.SortOrder == "desc" {
		direction = "DESC"
	}

	var models []ProductModel
	err := query.
		Preload("Category").
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, *productModelToDomain(&models[i]))
	}

	return products, total, nil
}

func (r *GormProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return domain.ErrValidation
	}

	model := productModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"price":       model.Price,
			"stock":       model.Stock,
			"category_id": model.CategoryID,
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

func (r *GormProductRepo) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormProductRepo) CountByCategoryID(ctx context.Context, categoryID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// BulkInsert persists one import batch in a single statement. The caller
// controls batch size; an error fails the whole batch.
func (r *GormProductRepo) BulkInsert(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	models := make([]ProductModel, 0, len(products))
	for i := range products {
		models = append(models, *productModelFromDomain(&products[i]))
	}

	return r.db.WithContext(ctx).Create(&models).Error
}
