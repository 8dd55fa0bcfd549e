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

type SubmissionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSubmissionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create creates a new submission and invalidates cache
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if err := s.getDB(tx).WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, s.cacheManager.Submission, fmt.Sprintf("owner:%s:*", submission.Email))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Submission, "list:*")

	return nil
}

// GetByID retrieves a submission by ID with caching
func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var submission models.Submission

	err := s.cacheManager.Submission.CacheOrExecute(ctx, cacheKey, &submission, cache.SubmissionCacheConfig.TTL, func() (interface{}, error) {
		var dbSubmission models.Submission
		err := s.getDB(tx).WithContext(ctx).First(&dbSubmission, id).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get submission: %w", err)
		}
		return &dbSubmission, nil
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// GetByStoredName retrieves a file submission by its stored artifact name.
// Download requests address artifacts by stored name, never by the
// client-supplied original name.
func (s *SubmissionPostgreSQL) GetByStoredName(ctx context.Context, tx *gorm.DB, storedName string) (*models.Submission, error) {
	var submission models.Submission
	err := s.getDB(tx).WithContext(ctx).
		Where("stored_name = ?", storedName).
		First(&submission).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get submission by stored name: %w", err)
	}
	return &submission, nil
}

// ListByEmail retrieves a student's submissions, newest first
func (s *SubmissionPostgreSQL) ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.Email = &email
	return s.List(ctx, tx, filters)
}

// List retrieves submissions with filters, newest first
func (s *SubmissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.Submission{})
	query = s.helpers.ApplySubmissionFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var submissions []*models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// Flag applies a review outcome guarded by an optimistic version check.
// The UPDATE only matches when the stored version equals the version
// the reviewer read, so two concurrent reviews cannot silently
// overwrite each other.
func (s *SubmissionPostgreSQL) Flag(ctx context.Context, tx *gorm.DB, id uint, update repositories.FlagUpdate) (*models.Submission, error) {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND version = ?", id, update.Version).
		Updates(map[string]interface{}{
			"status":      models.StatusFlagged,
			"fraud_score": update.FraudScore,
			"feedback":    update.Feedback,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to flag submission: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing submission from a lost race.
		var count int64
		if err := s.getDB(tx).WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check submission existence: %w", err)
		}
		if count == 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, repositories.ErrVersionConflict
	}

	var submission models.Submission
	if err := s.getDB(tx).WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload flagged submission: %w", err)
	}

	cache.InvalidateSubmissionCache(ctx, s.cacheManager, id, submission.Email)

	return &submission, nil
}

// Delete hard deletes a submission
func (s *SubmissionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var submission models.Submission
	if err := s.getDB(tx).WithContext(ctx).Select("id, email").First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return fmt.Errorf("failed to get submission before delete: %w", err)
	}

	if err := s.getDB(tx).WithContext(ctx).Delete(&models.Submission{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	cache.InvalidateSubmissionCache(ctx, s.cacheManager, id, submission.Email)

	return nil
}

// GetStats computes submission statistics for the review dashboard
func (s *SubmissionPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.SubmissionStats, error) {
	stats := &repositories.SubmissionStats{}

	type row struct {
		Total   int64
		Flagged int64
		Text    int64
		Files   int64
		AvgRisk float64
	}
	var r row

	err := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Select(`COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = ?) as flagged,
			COUNT(*) FILTER (WHERE kind = ?) as text,
			COUNT(*) FILTER (WHERE kind = ?) as files,
			COALESCE(AVG(fraud_score), 0) as avg_risk`,
			models.StatusFlagged, models.KindText, models.KindFile).
		Scan(&r).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute submission stats: %w", err)
	}

	stats.TotalSubmissions = int(r.Total)
	stats.FlaggedSubmissions = int(r.Flagged)
	stats.TextSubmissions = int(r.Text)
	stats.FileSubmissions = int(r.Files)
	stats.AverageFraudScore = r.AvgRisk

	return stats, nil
}
