package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category groups products and is the reference set bulk imports are
// validated against.
type Category struct {
	ID          int
	Name        string
	Description *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}
