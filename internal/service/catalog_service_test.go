package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/repository"
)

type stubCategoryRepo struct {
	fakeCategoryRepo

	getByIDFn func(ctx context.Context, id int) (*domain.Category, error)
	deleteFn  func(ctx context.Context, id int) error
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id int) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubProductRepo struct {
	fakeProductRepo

	createFn            func(ctx context.Context, p *domain.Product) error
	countByCategoryIDFn func(ctx context.Context, categoryID int) (int64, error)
}

func (s *stubProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if s.createFn != nil {
		return s.createFn(ctx, p)
	}
	return nil
}

func (s *stubProductRepo) CountByCategoryID(ctx context.Context, categoryID int) (int64, error) {
	if s.countByCategoryIDFn != nil {
		return s.countByCategoryIDFn(ctx, categoryID)
	}
	return 0, nil
}

func existingCategory(id int) func(ctx context.Context, got int) (*domain.Category, error) {
	return func(_ context.Context, got int) (*domain.Category, error) {
		if got != id {
			return nil, domain.ErrNotFound
		}
		return &domain.Category{ID: id, Name: "Servers"}, nil
	}
}

func TestProductServiceCreate(t *testing.T) {
	t.Parallel()

	var created *domain.Product
	products := &stubProductRepo{
		createFn: func(_ context.Context, p *domain.Product) error {
			created = p
			return nil
		},
	}
	categories := &stubCategoryRepo{getByIDFn: existingCategory(1)}

	service, err := NewProductService(products, categories, nil)
	if err != nil {
		t.Fatalf("NewProductService() error = %v", err)
	}

	product := &domain.Product{
		Name:       "Dell PowerEdge R750",
		Price:      decimal.NewFromFloat(4999.99),
		Stock:      3,
		CategoryID: 1,
	}
	if err := service.Create(context.Background(), product); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created == nil || created.Name != "Dell PowerEdge R750" {
		t.Fatalf("repository did not receive the product: %+v", created)
	}
}

func TestProductServiceCreateRejections(t *testing.T) {
	t.Parallel()

	products := &stubProductRepo{
		createFn: func(context.Context, *domain.Product) error {
			return errors.New("create must not be reached")
		},
	}
	categories := &stubCategoryRepo{getByIDFn: existingCategory(1)}

	service, err := NewProductService(products, categories, nil)
	if err != nil {
		t.Fatalf("NewProductService() error = %v", err)
	}

	tests := []struct {
		name    string
		product domain.Product
	}{
		{
			name:    "empty name",
			product: domain.Product{Price: decimal.NewFromInt(10), Stock: 1, CategoryID: 1},
		},
		{
			name:    "zero price",
			product: domain.Product{Name: "X", Stock: 1, CategoryID: 1},
		},
		{
			name:    "negative stock",
			product: domain.Product{Name: "X", Price: decimal.NewFromInt(10), Stock: -1, CategoryID: 1},
		},
		{
			name:    "unknown category",
			product: domain.Product{Name: "X", Price: decimal.NewFromInt(10), Stock: 1, CategoryID: 42},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			product := tt.product
			if err := service.Create(context.Background(), &product); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestProductServiceListNormalizesPaging(t *testing.T) {
	t.Parallel()

	service, err := NewProductService(&stubProductRepo{}, &stubCategoryRepo{}, nil)
	if err != nil {
		t.Fatalf("NewProductService() error = %v", err)
	}

	page, err := service.List(context.Background(), repository.ProductListParams{Page: -3, PageSize: 10000})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Page != 1 {
		t.Errorf("Page = %d, want 1", page.Page)
	}
	if page.PageSize != 100 {
		t.Errorf("PageSize = %d, want clamped to 100", page.PageSize)
	}
}

func TestCategoryServiceDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		productCount int64
		wantErr      error
	}{
		{name: "unreferenced category", productCount: 0, wantErr: nil},
		{name: "referenced category", productCount: 4, wantErr: domain.ErrConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deleted := false
			categories := &stubCategoryRepo{
				deleteFn: func(context.Context, int) error {
					deleted = true
					return nil
				},
			}
			products := &stubProductRepo{
				countByCategoryIDFn: func(context.Context, int) (int64, error) {
					return tt.productCount, nil
				},
			}

			service, err := NewCategoryService(categories, products, nil)
			if err != nil {
				t.Fatalf("NewCategoryService() error = %v", err)
			}

			err = service.Delete(context.Background(), 1)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				if !deleted {
					t.Fatal("repository delete was not called")
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
			}
			if deleted {
				t.Fatal("repository delete must not run for referenced category")
			}
		})
	}
}

func TestCategoryServiceCreateValidates(t *testing.T) {
	t.Parallel()

	service, err := NewCategoryService(&stubCategoryRepo{}, &stubProductRepo{}, nil)
	if err != nil {
		t.Fatalf("NewCategoryService() error = %v", err)
	}

	if err := service.Create(context.Background(), &domain.Category{Name: "   "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
}
