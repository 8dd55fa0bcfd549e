package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/submission-service/internal/cache"
	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type NotificationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewNotificationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.NotificationRepository {
	return &NotificationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

// Create appends a notification and invalidates the recipient's list cache
func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if err := n.getDB(tx).WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, n.cacheManager.Notification, fmt.Sprintf("email:%s:*", notification.Email))

	return nil
}

// ListByEmail retrieves a recipient's notifications, newest first
func (n *NotificationPostgreSQL) ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	filters.Email = &email

	query := n.getDB(tx).WithContext(ctx).Model(&models.Notification{})
	query = n.helpers.ApplyNotificationFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var notifications []*models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, total, nil
}
