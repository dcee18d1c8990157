package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/inkwell/internal/domain"
)

// AuthService handles user registration, login, and session tokens.
type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher domain.PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user account. A taken username yields
// domain.ErrDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the user with a signed session token.
// An unknown username yields domain.ErrNotFound and a wrong password
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *AuthService) VerifyToken(token string) (*domain.Claims, error) {
	return s.tokens.Verify(token)
}
