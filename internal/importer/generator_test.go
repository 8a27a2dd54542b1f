package importer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
)

func TestGeneratorGenerate(t *testing.T) {
	t.Parallel()

	generator := NewGenerator(rand.New(rand.NewSource(42)))
	categoryIDs := []int{1, 2, 3}

	products, err := generator.Generate(50, categoryIDs)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(products) != 50 {
		t.Fatalf("Generate() returned %d products, want 50", len(products))
	}

	minPrice := decimal.NewFromInt(1000)
	maxPrice := decimal.NewFromInt(100000)
	seenNames := make(map[string]struct{}, len(products))

	for i, product := range products {
		if err := product.Validate(); err != nil {
			t.Fatalf("product %d invalid: %v", i, err)
		}
		if product.Price.LessThan(minPrice) || product.Price.GreaterThanOrEqual(maxPrice) {
			t.Errorf("product %d price %s outside [1000, 100000)", i, product.Price)
		}
		if product.Price.Exponent() < -2 {
			t.Errorf("product %d price %s has more than two decimal places", i, product.Price)
		}
		if product.Stock < 0 || product.Stock >= 1000 {
			t.Errorf("product %d stock %d outside [0, 1000)", i, product.Stock)
		}
		if product.CategoryID < 1 || product.CategoryID > 3 {
			t.Errorf("product %d category %d not in supplied set", i, product.CategoryID)
		}
		if product.Description == nil || *product.Description == "" {
			t.Errorf("product %d has no description", i)
		}
		if _, dup := seenNames[product.Name]; dup {
			t.Errorf("product %d name %q duplicated", i, product.Name)
		}
		seenNames[product.Name] = struct{}{}
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	first, err := NewGenerator(rand.New(rand.NewSource(7))).Generate(10, []int{4, 5})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := NewGenerator(rand.New(rand.NewSource(7))).Generate(10, []int{4, 5})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i := range first {
		if first[i].Name != second[i].Name ||
			!first[i].Price.Equal(second[i].Price) ||
			first[i].Stock != second[i].Stock ||
			first[i].CategoryID != second[i].CategoryID {
			t.Fatalf("seeded runs diverge at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGeneratorCountZero(t *testing.T) {
	t.Parallel()

	products, err := NewGenerator(rand.New(rand.NewSource(1))).Generate(0, []int{1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("Generate() returned %d products, want 0", len(products))
	}
}

func TestGeneratorRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator(nil).Generate(5, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty category set: error = %v, want ErrValidation", err)
	}

	if _, err := NewGenerator(nil).Generate(-1, []int{1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative count: error = %v, want ErrValidation", err)
	}
}
