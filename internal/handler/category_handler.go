package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/scstore/catalog/internal/domain"
)

var validate = validator.New()

type CategoryService interface {
	Create(ctx context.Context, category *domain.Category) error
	Get(ctx context.Context, id int) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int) error
}

type CategoryHandler struct {
	service CategoryService
}

func NewCategoryHandler(service CategoryService) (*CategoryHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("category service is required")
	}
	return &CategoryHandler{service: service}, nil
}

// RegisterCategoryRoutes wires the CRUD surface. Reads are open to any
// authenticated caller; writes take the extra middleware, typically an
// admin role check.
func RegisterCategoryRoutes(router fiber.Router, service CategoryService, writeGuard fiber.Handler) error {
	h, err := NewCategoryHandler(service)
	if err != nil {
		return err
	}

	router.Get("/categories", h.ListCategories)
	router.Get("/categories/:id", h.GetCategory)
	router.Post("/categories", writeGuard, h.CreateCategory)
	router.Put("/categories/:id", writeGuard, h.UpdateCategory)
	router.Delete("/categories/:id", writeGuard, h.DeleteCategory)

	return nil
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

type categoryResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	category := domain.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.service.Create(c.Context(), &category); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(&category))
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	category, err := h.service.Get(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toCategoryResponse(category))
}

func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		data = append(data, toCategoryResponse(&categories[i]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		UpdatedAt:   &now,
	}
	if err := h.service.Update(c.Context(), &category); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toCategoryResponse(&category))
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toCategoryResponse(category *domain.Category) categoryResponse {
	if category == nil {
		return categoryResponse{}
	}
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
