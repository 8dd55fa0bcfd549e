package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when an optimistic version check finds
// the record was modified after the caller read it.
var ErrVersionConflict = errors.New("submission version conflict")

// SubmissionRepository interface for submission operations
type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	GetByStoredName(ctx context.Context, tx *gorm.DB, storedName string) (*models.Submission, error)

	// List operations, newest first
	ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters SubmissionFilters) ([]*models.Submission, int64, error)
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, int64, error)

	// Flag applies a review outcome guarded by the version the reviewer
	// read. Returns ErrVersionConflict when the guard fails.
	Flag(ctx context.Context, tx *gorm.DB, id uint, update FlagUpdate) (*models.Submission, error)

	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB) (*SubmissionStats, error)
}
