package models

import (
	"time"
)

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ===== SUMMARY DTOs =====

// SubmissionSummary is the flat row shape used by the teacher export.
type SubmissionSummary struct {
	ID           uint             `json:"id"`
	Email        string           `json:"email"`
	Subject      string           `json:"subject"`
	Kind         SubmissionKind   `json:"kind"`
	OriginalName string           `json:"original_name"`
	Status       SubmissionStatus `json:"status"`
	FraudScore   int              `json:"fraud_score"`
	Feedback     string           `json:"feedback"`
	UploadedAt   time.Time        `json:"uploaded_at"`
}
