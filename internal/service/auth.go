// Package service contains the business logic layer: authentication and
// verdict synthesis. Handlers parse HTTP and delegate here; this package
// knows nothing about HTTP, and reaches storage and the reasoning service
// only through injected interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nayeem/foodjudge/internal/apperror"
	"github.com/nayeem/foodjudge/internal/auth"
	"github.com/nayeem/foodjudge/internal/model"
	"github.com/nayeem/foodjudge/internal/repository"
)

// AuthService issues sessions: it validates credentials against the user
// store and hands out signed bearer tokens.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued token so the handler
// can build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new account and issues a session token.
//
// Fails with a conflict if the email is already taken, leaving the
// existing record untouched. The new account starts with an empty
// persona; the password is stored only as a salted bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "Email & password required")
	}

	// Pre-check for a friendlier conflict path. The UNIQUE constraint in
	// the store still catches a concurrent signup racing past this read.
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("User already exists")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking existing user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user signed up", slog.String("email", email))

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", email, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login validates credentials and issues a session token.
//
// An unknown email fails with not-found and a wrong password with a
// validation error; the bcrypt comparison is constant-time, so how close
// the guess was never shows in the response timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "Email & password required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("password", "Invalid password")
	}

	s.logger.Info("user logged in", slog.String("email", email))

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", email, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
