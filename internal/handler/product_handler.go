package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/repository"
	"github.com/scstore/catalog/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 100
)

type ProductService interface {
	Create(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id int) (*domain.Product, error)
	List(ctx context.Context, params repository.ProductListParams) (*service.ProductPage, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) error
}

type ProductHandler struct {
	service ProductService
}

func NewProductHandler(service ProductService) (*ProductHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("product service is required")
	}
	return &ProductHandler{service: service}, nil
}

func RegisterProductRoutes(router fiber.Router, service ProductService, writeGuard fiber.Handler) error {
	h, err := NewProductHandler(service)
	if err != nil {
		return err
	}

	router.Get("/products", h.ListProducts)
	router.Get("/products/:id", h.GetProduct)
	router.Post("/products", writeGuard, h.CreateProduct)
	router.Put("/products/:id", writeGuard, h.UpdateProduct)
	router.Delete("/products/:id", writeGuard, h.DeleteProduct)

	return nil
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  int             `json:"categoryId" validate:"required,gt=0"`
}

type productResponse struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	CategoryID  int               `json:"categoryId"`
	Category    *categoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}

type listProductsResponse struct {
	Data []productResponse `json:"data"`
	Meta listMeta          `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	product := requestToDomainProduct(req, 0)
	if err := h.service.Create(c.Context(), &product); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProductResponse(product))
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	params, err := parseProductListParams(c)
	if err != nil {
		return toHTTPError(err)
	}

	page, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]productResponse, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, toProductResponse(&page.Items[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listProductsResponse{
		Data: data,
		Meta: listMeta{
			Page:     page.Page,
			PageSize: page.PageSize,
			Total:    page.Total,
		},
	})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	product := requestToDomainProduct(req, id)
	now := time.Now().UTC()
	product.UpdatedAt = &now

	if err := h.service.Update(c.Context(), &product); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProductResponse(&product))
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseProductListParams(c *fiber.Ctx) (repository.ProductListParams, error) {
	params := repository.ProductListParams{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    strings.ToLower(strings.TrimSpace(c.Query("sortBy"))),
		SortOrder: strings.ToLower(strings.TrimSpace(c.Query("sortOrder"))),
		Page:      c.QueryInt("page", defaultPage),
		PageSize:  c.QueryInt("pageSize", defaultPageSize),
	}

	if params.Page < 1 {
		return repository.ProductListParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		return repository.ProductListParams{}, fmt.Errorf(
			"%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}

	if raw := c.Query("categoryId"); raw != "" {
		categoryID := c.QueryInt("categoryId")
		if categoryID < 1 {
			return repository.ProductListParams{}, fmt.Errorf(
				"%w: categoryId must be a positive integer", domain.ErrValidation)
		}
		params.CategoryID = &categoryID
	}

	minPrice, err := parseDecimalQuery(c.Query("minPrice"), "minPrice")
	if err != nil {
		return repository.ProductListParams{}, err
	}
	maxPrice, err := parseDecimalQuery(c.Query("maxPrice"), "maxPrice")
	if err != nil {
		return repository.ProductListParams{}, err
	}
	params.MinPrice = minPrice
	params.MaxPrice = maxPrice

	if raw := c.Query("minStock"); raw != "" {
		minStock := c.QueryInt("minStock", -1)
		if minStock < 0 {
			return repository.ProductListParams{}, fmt.Errorf(
				"%w: minStock must be >= 0", domain.ErrValidation)
		}
		params.MinStock = &minStock
	}

	return params, nil
}

func parseDecimalQuery(value string, field string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a decimal number", domain.ErrValidation, field)
	}
	return &d, nil
}

func requestToDomainProduct(req productRequest, id int) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}
}

func toProductResponse(product *domain.Product) productResponse {
	if product == nil {
		return productResponse{}
	}

	resp := productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		category := toCategoryResponse(product.Category)
		resp.Category = &category
	}
	return resp
}
