package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"codearena/internal/auth"
	apperrors "codearena/internal/errors"
	"codearena/internal/model"
	"codearena/internal/repository"
)

// SessionService is the single point of truth for an account's session
// state: which token is active, and whether the account counts as logged in.
//
// Mutating operations return ErrUserNotFound for a missing account;
// read-only checks report a negative result instead of failing.
type SessionService interface {
	// Login installs token as the account's active session. Fails with
	// ErrSessionConflict while another token is active; the stored token is
	// left untouched in that case.
	Login(ctx context.Context, email, token string) error
	// Logout clears the session state. Idempotent.
	Logout(ctx context.Context, email string) error
	// ForceLogout revokes the active token via the blacklist before
	// clearing session state. No-op when no token is active.
	ForceLogout(ctx context.Context, email string) error
	// ForceLogoutByID is ForceLogout keyed by account ID.
	ForceLogoutByID(ctx context.Context, id uint) error
	IsLoggedIn(ctx context.Context, email string) (bool, error)
	// IsActiveToken reports whether token is the account's current session
	// token. False for unknown accounts and logged-out sessions.
	IsActiveToken(ctx context.Context, email, token string) (bool, error)
	// CanLogin is the login policy hook. Currently an existence check;
	// lockouts and bans would land here.
	CanLogin(ctx context.Context, email string) (bool, error)
	VerifyPassword(raw, hash string) bool
	UpdateLastLogin(ctx context.Context, email string) error
}

type sessionService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewSessionService creates a session lifecycle service.
func NewSessionService(userRepo repository.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) SessionService {
	return &sessionService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// Login claims the session slot with a single conditional write, so two
// concurrent logins for the same account cannot both succeed. Only after a
// failed claim does it look at the record to tell NotFound from a conflict.
func (s *sessionService) Login(ctx context.Context, email, token string) error {
	claimed, err := s.userRepo.ClaimSession(ctx, email, token, time.Now())
	if err != nil {
		return fmt.Errorf("claim session: %w", err)
	}
	if claimed {
		return nil
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return apperrors.ErrSessionConflict
}

func (s *sessionService) Logout(ctx context.Context, email string) error {
	if _, err := s.findByEmail(ctx, email); err != nil {
		return err
	}
	if err := s.userRepo.ClearSession(ctx, email); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *sessionService) ForceLogout(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.forceLogout(ctx, user)
}

func (s *sessionService) ForceLogoutByID(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return s.forceLogout(ctx, user)
}

// forceLogout blacklists the outgoing token before clearing session state;
// if the blacklist write fails, the session stays intact rather than leaving
// a live token untracked. Without an active token there is nothing to revoke
// and no write happens.
func (s *sessionService) forceLogout(ctx context.Context, user *model.User) error {
	if user.CurrentSessionToken == "" {
		return nil
	}
	ttl := s.jwtService.RemainingLife(user.CurrentSessionToken)
	if err := s.blacklist.Blacklist(ctx, user.CurrentSessionToken, ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	if err := s.userRepo.ClearSession(ctx, user.Email); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *sessionService) IsLoggedIn(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.LoggedIn, nil
}

func (s *sessionService) IsActiveToken(ctx context.Context, email, token string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.CurrentSessionToken == token, nil
}

func (s *sessionService) CanLogin(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return true, nil
}

func (s *sessionService) VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

func (s *sessionService) UpdateLastLogin(ctx context.Context, email string) error {
	if _, err := s.findByEmail(ctx, email); err != nil {
		return err
	}
	if err := s.userRepo.UpdateLastLogin(ctx, email, time.Now()); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (s *sessionService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
