package repositories

import (
	"context"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository interface for notification operations.
// Notifications are append-only; there is no update or delete.
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters NotificationFilters) ([]*models.Notification, int64, error)
}
