package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type UploadTextRequest = validator.UploadTextRequest
type FlagRequest = validator.FlagRequest

type AccountResponse struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// UploadFileRequest carries a streamed file submission.
type UploadFileRequest struct {
	Subject      string
	OriginalName string
	Size         int64
	ContentType  string
	Content      io.Reader
}

type SubmissionResponse struct {
	*models.Submission
	CanDelete bool `json:"can_delete"`
	CanFlag   bool `json:"can_flag"`
}

type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int64                 `json:"total"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
}

// DownloadResult streams an artifact back to the caller. The caller
// closes Content.
type DownloadResult struct {
	OriginalName string
	Size         int64
	Content      io.ReadCloser
}

// ===== SERVICE INTERFACES =====

type AccountService interface {
	// Register creates a student or teacher account with a hashed password
	Register(ctx context.Context, req *RegisterRequest) (*AccountResponse, error)

	// Login verifies credentials and the asserted role against the store.
	// A temporary recovery password is accepted alongside the permanent one.
	Login(ctx context.Context, req *LoginRequest) (*AccountResponse, error)

	// ChangePassword replaces the permanent credential and retires any
	// temporary password
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) error

	// VerifyRole checks an asserted role claim against the account store
	VerifyRole(ctx context.Context, email string, role models.UserRole) (bool, error)
}

type RecoveryService interface {
	// ForgotPassword generates a temporary password, delivers it by
	// email, and persists its hash only after confirmed delivery
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error
}

type SubmissionService interface {
	// Submission intake
	Upload(ctx context.Context, req *UploadFileRequest, studentEmail string) (*SubmissionResponse, error)
	UploadText(ctx context.Context, req *UploadTextRequest, studentEmail string) (*SubmissionResponse, error)

	// List operations, newest first
	ListForStudent(ctx context.Context, studentEmail string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)
	ListAll(ctx context.Context, reviewerEmail string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error)

	// Review
	Flag(ctx context.Context, id uint, req *FlagRequest, reviewerEmail string) (*SubmissionResponse, error)

	// Ownership-checked operations
	Delete(ctx context.Context, id uint, callerEmail string, callerRole models.UserRole) error
	Download(ctx context.Context, storedName string, callerEmail string, callerRole models.UserRole) (*DownloadResult, error)

	// Reporting
	ExportAll(ctx context.Context, reviewerEmail string) ([]byte, error)
	GetStats(ctx context.Context, reviewerEmail string) (*repositories.SubmissionStats, error)
}

type NotificationService interface {
	// ListFor returns a recipient's notifications, newest first
	ListFor(ctx context.Context, email string, filters repositories.NotificationFilters) (*NotificationListResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Account() AccountService
	Recovery() RecoveryService
	Submission() SubmissionService
	Notification() NotificationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
