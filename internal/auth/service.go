package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult carries the signed token and the user it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type Service struct {
	users  repository.UserRepository
	tokens *TokenManager
	logger *zap.Logger
}

func NewService(users repository.UserRepository, tokens *TokenManager, logger *zap.Logger) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, logger: logger}, nil
}

// Login verifies the credentials and issues a token. Unknown usernames and
// wrong passwords both surface as ErrUnauthorized to keep the two cases
// indistinguishable to callers.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected", zap.String("username", username))
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", user.RoleName()),
	)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
