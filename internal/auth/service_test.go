package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scstore/catalog/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return f.getByUsernameFn(ctx, username)
}

func newTestAuthService(t *testing.T, users *fakeUserRepo) *Service {
	t.Helper()

	tokens, err := NewTokenManager("test-secret", "catalog-api", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	service, err := NewService(users, tokens, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return service
}

func TestServiceLogin(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}

	users := &fakeUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, domain.ErrNotFound
			}
			return &domain.User{
				ID:           1,
				Username:     "alice",
				PasswordHash: string(hash),
				Role:         &domain.Role{Name: domain.RoleAdmin},
			}, nil
		},
	}
	service := newTestAuthService(t, users)

	result, err := service.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User.Username != "alice" {
		t.Errorf("User.Username = %q, want alice", result.User.Username)
	}

	claims, err := service.tokens.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("token role = %q, want %q", claims.Role, domain.RoleAdmin)
	}
}

func TestServiceLoginFailures(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}

	users := &fakeUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, domain.ErrNotFound
			}
			return &domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}
	service := newTestAuthService(t, users)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown user", username: "mallory", password: "s3cret", wantErr: domain.ErrUnauthorized},
		{name: "wrong password", username: "alice", password: "nope", wantErr: domain.ErrUnauthorized},
		{name: "empty username", username: "", password: "s3cret", wantErr: domain.ErrValidation},
		{name: "empty password", username: "alice", password: "", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
