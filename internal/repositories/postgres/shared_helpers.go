package postgres

import (
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplySubmissionFilters applies common filters to submission queries
func (h *SharedHelpers) ApplySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Email != nil {
		query = query.Where("email = ?", *filters.Email)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.DateFrom != nil {
		query = query.Where("uploaded_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("uploaded_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyNotificationFilters applies common filters to notification queries
func (h *SharedHelpers) ApplyNotificationFilters(query *gorm.DB, filters repositories.NotificationFilters) *gorm.DB {
	if filters.Email != nil {
		query = query.Where("email = ?", *filters.Email)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"uploaded_at": true,
		"created_at":  true,
		"id":          true,
		"subject":     true,
		"status":      true,
		"fraud_score": true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "uploaded_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
