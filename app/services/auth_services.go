package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/pkg/auth"
	"github.com/sudeviagro/backoffice/pkg/rbac"
)

var (
	ErrInvalidCredentials = errors.New("services: invalid credentials")
	ErrInvalidRole        = errors.New("services: unknown role")
	ErrWeakPassword       = errors.New("services: password must be at least 8 characters")
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{
		users: repositories.NewUserRepository(),
	}
}

// Login checks the password and issues a token. Unknown emails and bad
// passwords both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("services: login: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("services: login: %w", err)
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, id uint) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateUser adds an admin-panel account.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, role string) (models.User, error) {
	if !rbac.Valid(role) {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if len(password) < 8 {
		return models.User{}, ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("services: create user: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("services: create user: %w", err)
	}
	return user, nil
}
