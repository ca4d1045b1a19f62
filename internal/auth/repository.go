package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/domain"
	"gorm.io/gorm"
)

// AdminRepository is the read-only credential store used by the login flow.
type AdminRepository interface {
	// GetByEmail returns gorm.ErrRecordNotFound (wrapped) when no admin matches.
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// GormAdminRepository is the GORM implementation of AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GORM-based repository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, errors.Wrap(err, "query admin by email")
	}
	return &admin, nil
}
