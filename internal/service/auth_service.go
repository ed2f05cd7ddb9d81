package service

import (
	"context"
	"errors"
	"fmt"

	"codearena/internal/auth"
	apperrors "codearena/internal/errors"
	"codearena/internal/model"
)

// AuthService handles the credential-facing side of authentication: it
// verifies passwords, issues tokens, and hands session transitions to the
// SessionService.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	SessionStatus(ctx context.Context, email string) (bool, error)
}

type authService struct {
	users      UserService
	sessions   SessionService
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, sessions SessionService, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		jwtService: jwtService,
	}
}

// Login verifies credentials, issues a session token, and claims the
// account's single session slot. A second login while a token is active
// surfaces ErrSessionConflict unchanged so the handler can answer 409.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	ok, err := s.sessions.CanLogin(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		// Only a missing account reads as bad credentials; a storage fault
		// must not dress up as a 401.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.sessions.VerifyPassword(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.sessions.Login(ctx, email, token); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout ends the session carried by the bearer token.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return s.sessions.Logout(ctx, claims.Email)
}

// SessionStatus reports whether the account is currently logged in.
func (s *authService) SessionStatus(ctx context.Context, email string) (bool, error) {
	return s.sessions.IsLoggedIn(ctx, email)
}
