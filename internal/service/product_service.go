package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/repository"
	"go.uber.org/zap"
)

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items    []domain.Product
	Total    int64
	Page     int
	PageSize int
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) (*ProductService, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, categories: categories, logger: logger}, nil
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.ensureCategoryExists(ctx, product.CategoryID); err != nil {
		return err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.Int("productId", product.ID),
		zap.String("name", product.Name),
	)
	return nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) (*ProductPage, error) {
	items, total, err := s.products.GetPaged(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	pageSize = min(pageSize, 100)

	return &ProductPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *ProductService) Update(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.ensureCategoryExists(ctx, product.CategoryID); err != nil {
		return err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return err
	}

	s.logger.Info("product updated", zap.Int("productId", product.ID))
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.Int("productId", id))
	return nil
}

func (s *ProductService) ensureCategoryExists(ctx context.Context, categoryID int) error {
	_, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: category %d does not exist", domain.ErrValidation, categoryID)
	}
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	return nil
}
