package repository

import (
	"context"

	"gorm.io/gorm"

	"codearena/internal/model"
)

// AllowedDomainRepository defines allow-list persistence operations.
type AllowedDomainRepository interface {
	Create(ctx context.Context, domain *model.AllowedDomain) error
	List(ctx context.Context) ([]model.AllowedDomain, error)
}

type allowedDomainRepository struct {
	db *gorm.DB
}

// NewAllowedDomainRepository builds a GORM-backed repository.
func NewAllowedDomainRepository(db *gorm.DB) AllowedDomainRepository {
	return &allowedDomainRepository{db: db}
}

func (r *allowedDomainRepository) Create(ctx context.Context, domain *model.AllowedDomain) error {
	return r.db.WithContext(ctx).Create(domain).Error
}

func (r *allowedDomainRepository) List(ctx context.Context) ([]model.AllowedDomain, error) {
	var domains []model.AllowedDomain
	if err := r.db.WithContext(ctx).Find(&domains).Error; err != nil {
		return nil, err
	}
	return domains, nil
}
