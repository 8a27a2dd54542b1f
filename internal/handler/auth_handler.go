package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scstore/catalog/internal/auth"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) (*AuthHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	return &AuthHandler{service: service}, nil
}

func RegisterAuthRoutes(router fiber.Router, service AuthService) error {
	h, err := NewAuthHandler(service)
	if err != nil {
		return err
	}

	router.Post("/auth/login", h.Login)
	return nil
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      loginUser `json:"user"`
}

type loginUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: loginUser{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
			Role:     result.User.RoleName(),
		},
	})
}
