package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/submission-service/internal/cache"
	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

// Create creates a new account. Any cached negative existence or role
// lookup from before registration must not outlive the insert.
func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := u.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.Email)

	return nil
}

// GetByEmail retrieves an account by email with caching.
// Credential hashes never enter the cache; they are reloaded from the
// database whenever a password is actually checked.
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := u.getDB(tx).WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdatePasswordHash replaces the permanent credential and retires any
// outstanding temporary password in the same statement.
func (u *UserPostgreSQL) UpdatePasswordHash(ctx context.Context, tx *gorm.DB, email, passwordHash string) error {
	result := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"temp_password_hash": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, email)

	return nil
}

// SetTempPasswordHash stores a recovery credential alongside the
// permanent one. Both stay valid until the next password change.
func (u *UserPostgreSQL) SetTempPasswordHash(ctx context.Context, tx *gorm.DB, email, tempHash string) error {
	result := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("temp_password_hash", tempHash)
	if result.Error != nil {
		return fmt.Errorf("failed to set temp password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, email)

	return nil
}

// ExistsByEmail checks account existence with caching
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	cacheKey := fmt.Sprintf("exists:%s", email)
	var exists bool

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &exists, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := u.getDB(tx).WithContext(ctx).
			Model(&models.User{}).
			Where("email = ?", email).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check user existence: %w", err)
		}
		return count > 0, nil
	})

	return exists, err
}

// HasRole checks whether the stored account carries the given role.
// This backs the access gate on every privileged request, so the
// result is cached.
func (u *UserPostgreSQL) HasRole(ctx context.Context, tx *gorm.DB, email string, role models.UserRole) (bool, error) {
	cacheKey := fmt.Sprintf("role:%s", email)
	var storedRole string

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &storedRole, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var user models.User
		err := u.getDB(tx).WithContext(ctx).
			Select("role").
			Where("email = ?", email).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil
			}
			return nil, fmt.Errorf("failed to get user role: %w", err)
		}
		return string(user.Role), nil
	})
	if err != nil {
		return false, err
	}

	return storedRole != "" && models.UserRole(storedRole) == role, nil
}
