// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services enforce the
// domain rules and orchestrate repositories; repositories talk to the
// database. Services receive repository interfaces, never concrete
// types, so tests can inject in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mkarim/pettrack/internal/apperror"
	"github.com/mkarim/pettrack/internal/auth"
	"github.com/mkarim/pettrack/internal/model"
	"github.com/mkarim/pettrack/internal/repository"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxEmailLength    = 254
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService handles signup, login, token refresh, and user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

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

// Signup registers a new account. The email is normalized to lower
// case; a duplicate email yields a conflict error and never a second
// user record.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || len(email) > MaxEmailLength || !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d characters or less", MaxPasswordLength))
	}

	// Pre-check for a friendlier error; the UNIQUE constraint in the
	// repository still catches a concurrent signup with the same email.
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user signed up", slog.String("userID", user.ID))

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email
// and wrong password produce the identical unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// user must still exist; any verification failure is unauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	userID, err := s.tokens.Validate(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return pair, nil
}

// CurrentUser loads the account for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
