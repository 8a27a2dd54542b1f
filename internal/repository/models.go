package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
)

// ImportJobModel is the persistence model for the import_jobs table.
type ImportJobModel struct {
	ID               string           `gorm:"type:uuid;primaryKey"`
	Status           domain.JobStatus `gorm:"type:varchar(20);not null"`
	TotalRecords     int              `gorm:"not null;default:0"`
	ProcessedRecords int              `gorm:"not null;default:0"`
	FailedRecords    int              `gorm:"not null;default:0"`
	StartedAt        *time.Time       `gorm:"type:timestamptz"`
	CompletedAt      *time.Time       `gorm:"type:timestamptz"`
	ErrorMessage     *string          `gorm:"type:text"`
	CreatedAt        time.Time
}

func (ImportJobModel) TableName() string {
	return "import_jobs"
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	ID          int             `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	CategoryID  int             `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel is the persistence model for categories.
type CategoryModel struct {
	ID          int     `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	ImageURL    *string `gorm:"type:varchar(500)"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

// UserModel is the persistence model for users.
type UserModel struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	RoleID       int    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    *time.Time

	Role *RoleModel `gorm:"foreignKey:RoleID"`
}

func (UserModel) TableName() string {
	return "users"
}

// RoleModel is the persistence model for roles.
type RoleModel struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Permissions string `gorm:"type:text;not null;default:'{}'"`
	CreatedAt   time.Time
}

func (RoleModel) TableName() string {
	return "roles"
}

func jobModelFromDomain(j *domain.ImportJob) *ImportJobModel {
	if j == nil {
		return nil
	}

	return &ImportJobModel{
		ID:               j.ID,
		Status:           j.Status,
		TotalRecords:     j.TotalRecords,
		ProcessedRecords: j.ProcessedRecords,
		FailedRecords:    j.FailedRecords,
		StartedAt:        j.StartedAt,
		CompletedAt:      j.CompletedAt,
		ErrorMessage:     j.ErrorMessage,
		CreatedAt:        j.CreatedAt,
	}
}

func jobModelToDomain(m *ImportJobModel) *domain.ImportJob {
	if m == nil {
		return nil
	}

	return &domain.ImportJob{
		ID:               m.ID,
		Status:           m.Status,
		TotalRecords:     m.TotalRecords,
		ProcessedRecords: m.ProcessedRecords,
		FailedRecords:    m.FailedRecords,
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
	}
}

func productModelFromDomain(p *domain.Product) *ProductModel {
	if p == nil {
		return nil
	}

	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productModelToDomain(m *ProductModel) *domain.Product {
	if m == nil {
		return nil
	}

	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Category:    categoryModelToDomain(m.Category),
	}
}

func categoryModelFromDomain(c *domain.Category) *CategoryModel {
	if c == nil {
		return nil
	}

	return &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func categoryModelToDomain(m *CategoryModel) *domain.Category {
	if m == nil {
		return nil
	}

	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func userModelToDomain(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}

	user := &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		RoleID:       m.RoleID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Role != nil {
		user.Role = &domain.Role{
			ID:          m.Role.ID,
			Name:        m.Role.Name,
			Permissions: m.Role.Permissions,
			CreatedAt:   m.Role.CreatedAt,
		}
	}
	return user
}
