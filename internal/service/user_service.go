package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "codearena/internal/errors"
	"codearena/internal/model"
	"codearena/internal/repository"
)

const bcryptCost = 10

// UserService exposes account management operations. Roles are fixed at
// creation time: Register assigns USER, RegisterAdmin assigns ADMIN.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	RegisterAdmin(ctx context.Context, name, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	AddAllowedDomain(ctx context.Context, domain string) (*model.AllowedDomain, error)
	ListAllowedDomains(ctx context.Context) ([]model.AllowedDomain, error)
}

type userService struct {
	userRepo   repository.UserRepository
	domainRepo repository.AllowedDomainRepository
	sessions   SessionService
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, domainRepo repository.AllowedDomainRepository, sessions SessionService) UserService {
	return &userService{
		userRepo:   userRepo,
		domainRepo: domainRepo,
		sessions:   sessions,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := s.checkDomainAllowed(ctx, email); err != nil {
		return nil, err
	}
	return s.create(ctx, name, email, password, model.RoleUser)
}

// RegisterAdmin provisions an ADMIN account. The allow-list only applies to
// self-registration.
func (s *userService) RegisterAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	return s.create(ctx, name, email, password, model.RoleAdmin)
}

func (s *userService) create(ctx context.Context, name, email, password, role string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Roles:        []string{role},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the unique email index decides the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes an account. Any active session token is revoked first,
// so a deleted account's bearer token stops working immediately instead of
// riding out its expiry.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.sessions.ForceLogoutByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) AddAllowedDomain(ctx context.Context, domain string) (*model.AllowedDomain, error) {
	d := &model.AllowedDomain{Domain: strings.ToLower(strings.TrimSpace(domain))}
	if err := s.domainRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create allowed domain: %w", err)
	}
	return d, nil
}

func (s *userService) ListAllowedDomains(ctx context.Context) ([]model.AllowedDomain, error) {
	return s.domainRepo.List(ctx)
}

// checkDomainAllowed enforces the registration allow-list. An empty list
// means registration is open.
func (s *userService) checkDomainAllowed(ctx context.Context, email string) error {
	domains, err := s.domainRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list allowed domains: %w", err)
	}
	if len(domains) == 0 {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return apperrors.ErrDomainNotAllowed
	}
	emailDomain := strings.ToLower(email[at+1:])
	for _, d := range domains {
		if d.Domain == emailDomain {
			return nil
		}
	}
	return apperrors.ErrDomainNotAllowed
}
