package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civiclens-app/CivicLens/app/models"
)

// adminRepository implements the AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// IsAdmin reports whether the identity-provider id belongs to an admin.
func (r *adminRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, storeErr(err)
	}
	return count > 0, nil
}
