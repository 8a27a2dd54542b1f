package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. During a bulk import the same type carries
// candidate records between the record source and the batch committer.
type Product struct {
	ID          int
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	Category *Category
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("%w: categoryId must be greater than 0", ErrValidation)
	}
	return nil
}
