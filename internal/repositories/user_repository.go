package repositories

import (
	"context"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for account operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)

	// Credential updates
	UpdatePasswordHash(ctx context.Context, tx *gorm.DB, email, passwordHash string) error
	SetTempPasswordHash(ctx context.Context, tx *gorm.DB, email, tempHash string) error

	// Validation and checks
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	HasRole(ctx context.Context, tx *gorm.DB, email string, role models.UserRole) (bool, error)
}
