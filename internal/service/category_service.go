package service

import (
	"context"
	"fmt"

	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/repository"
	"go.uber.org/zap"
)

type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     *zap.Logger
}

func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	logger *zap.Logger,
) (*CategoryService, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{categories: categories, products: products, logger: logger}, nil
}

func (s *CategoryService) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created",
		zap.Int("categoryId", category.ID),
		zap.String("name", category.Name),
	)
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id int) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *CategoryService) Update(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return err
	}

	s.logger.Info("category updated", zap.Int("categoryId", category.ID))
	return nil
}

// Delete removes a category unless products still reference it; deleting a
// referenced category would orphan those rows.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	count, err := s.products.CountByCategoryID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category has %d products", domain.ErrConflict, count)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", zap.Int("categoryId", id))
	return nil
}
