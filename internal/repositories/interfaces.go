package repositories

import (
	"time"

	"github.com/SAP-F-2025/submission-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	Email     *string                  `json:"email"`
	Subject   *string                  `json:"subject"`
	Status    *models.SubmissionStatus `json:"status"`
	Kind      *models.SubmissionKind   `json:"kind"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "uploaded_at", "subject", "fraud_score"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

type NotificationFilters struct {
	Email    *string    `json:"email"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// FlagUpdate carries the review outcome applied to a submission.
type FlagUpdate struct {
	FraudScore int    `json:"fraud_score"`
	Feedback   string `json:"feedback"`
	Version    int    `json:"version"` // version the reviewer read, for the optimistic check
}

// ===== SHARED STATISTICS STRUCTS =====

type SubmissionStats struct {
	TotalSubmissions   int     `json:"total_submissions"`
	FlaggedSubmissions int     `json:"flagged_submissions"`
	TextSubmissions    int     `json:"text_submissions"`
	FileSubmissions    int     `json:"file_submissions"`
	AverageFraudScore  float64 `json:"average_fraud_score"`
}
