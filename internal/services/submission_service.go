package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/submission-service/internal/events"
	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/SAP-F-2025/submission-service/internal/storage"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type submissionService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	store          storage.Storage
	eventPublisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, store storage.Storage, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		store:          store,
		eventPublisher: publisher,
	}
}

// ===== SUBMISSION INTAKE =====

func (s *submissionService) Upload(ctx context.Context, req *UploadFileRequest, studentEmail string) (*SubmissionResponse, error) {
	s.logger.Info("Uploading submission", "email", studentEmail, "original_name", req.OriginalName)

	if errs := s.validateUpload(req); len(errs) > 0 {
		return nil, errs
	}

	storedName, size, err := s.store.Save(ctx, req.OriginalName, req.Content)
	if err != nil {
		if err == storage.ErrTooLarge {
			return nil, validator.ValidationErrors{{
				Field:   "file",
				Message: "exceeds the upload size limit",
				Rule:    "business_logic",
			}}
		}
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	submission := &models.Submission{
		Email:        studentEmail,
		Subject:      strings.TrimSpace(req.Subject),
		Kind:         models.KindFile,
		OriginalName: req.OriginalName,
		StoredName:   storedName,
		Status:       models.StatusSubmitted,
		Version:      1,
	}
	submission.SetMeta(map[string]interface{}{
		"size":         size,
		"content_type": req.ContentType,
	})

	if err := s.repo.Submission().Create(ctx, s.db, submission); err != nil {
		// The artifact must not outlive a failed record.
		if rmErr := s.store.Remove(ctx, storedName); rmErr != nil {
			s.logger.ErrorContext(ctx, "Failed to remove orphaned artifact",
				"error", rmErr,
				"stored_name", storedName)
		}
		return nil, err
	}

	s.publishSubmissionEvent(ctx, events.SubmissionUploaded, submission, "")

	s.logger.Info("Submission uploaded", "submission_id", submission.ID, "stored_name", storedName)

	return s.toResponse(submission, studentEmail, models.RoleStudent), nil
}

func (s *submissionService) UploadText(ctx context.Context, req *UploadTextRequest, studentEmail string) (*SubmissionResponse, error) {
	s.logger.Info("Uploading text submission", "email", studentEmail, "subject", req.Subject)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		Email:   studentEmail,
		Subject: strings.TrimSpace(req.Subject),
		Kind:    models.KindText,
		Text:    req.Text,
		Status:  models.StatusSubmitted,
		Version: 1,
	}
	submission.SetMeta(map[string]interface{}{
		"length": len(req.Text),
	})

	if err := s.repo.Submission().Create(ctx, s.db, submission); err != nil {
		return nil, err
	}

	s.publishSubmissionEvent(ctx, events.SubmissionUploaded, submission, "")

	return s.toResponse(submission, studentEmail, models.RoleStudent), nil
}

// ===== LIST OPERATIONS =====

func (s *submissionService) ListForStudent(ctx context.Context, studentEmail string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	submissions, total, err := s.repo.Submission().ListByEmail(ctx, s.db, studentEmail, filters)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(submissions, total, studentEmail, models.RoleStudent), nil
}

func (s *submissionService) ListAll(ctx context.Context, reviewerEmail string, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	role, err := s.requireReviewer(ctx, reviewerEmail, "submissions", "list")
	if err != nil {
		return nil, err
	}

	submissions, total, err := s.repo.Submission().List(ctx, s.db, filters)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(submissions, total, reviewerEmail, role), nil
}

// ===== REVIEW =====

// Flag applies a review outcome and records the student notification in
// the same transaction, so a notification always reflects the feedback
// that actually won the write.
func (s *submissionService) Flag(ctx context.Context, id uint, req *FlagRequest, reviewerEmail string) (*SubmissionResponse, error) {
	s.logger.Info("Flagging submission", "submission_id", id, "reviewer", reviewerEmail)

	if errors := s.validator.GetBusinessValidator().ValidateFlag(req); len(errors) > 0 {
		return nil, errors
	}

	role, err := s.requireReviewer(ctx, reviewerEmail, "submission", "flag")
	if err != nil {
		return nil, err
	}

	var flagged *models.Submission
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Without an explicit version the flag applies to the revision
		// current inside this transaction. An explicit stale version
		// still fails the compare-and-set below.
		version := req.Version
		if version == 0 {
			current, getErr := txRepo.Submission().GetByID(ctx, nil, id)
			if getErr != nil {
				return getErr
			}
			version = current.Version
		}

		update := repositories.FlagUpdate{
			FraudScore: req.FraudScore,
			Feedback:   req.Feedback,
			Version:    version,
		}

		var flagErr error
		flagged, flagErr = txRepo.Submission().Flag(ctx, nil, id, update)
		if flagErr != nil {
			return flagErr
		}

		notification := &models.Notification{
			Email: flagged.Email,
			Message: fmt.Sprintf("Your submission %q was flagged (fraud score %d): %s",
				flagged.ArtifactName(), req.FraudScore, req.Feedback),
		}
		return txRepo.Notification().Create(ctx, nil, notification)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("submission", id)
		}
		if repositories.IsVersionConflict(err) {
			return nil, NewConflictError("submission", "it was modified by another review; reload and retry")
		}
		return nil, err
	}

	s.publishSubmissionEvent(ctx, events.SubmissionFlagged, flagged, reviewerEmail)

	s.logger.Info("Submission flagged", "submission_id", id, "fraud_score", req.FraudScore)

	return s.toResponse(flagged, reviewerEmail, role), nil
}

// ===== OWNERSHIP-CHECKED OPERATIONS =====

func (s *submissionService) Delete(ctx context.Context, id uint, callerEmail string, callerRole models.UserRole) error {
	submission, err := s.repo.Submission().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("submission", id)
		}
		return err
	}

	if !s.canTouch(submission, callerEmail, callerRole) {
		return NewPermissionError(callerEmail, "submission", "delete", "not the owner")
	}

	if err := s.repo.Submission().Delete(ctx, s.db, id); err != nil {
		return err
	}

	// Artifact removal is best effort once the record is gone.
	if submission.Kind == models.KindFile {
		if err := s.store.Remove(ctx, submission.StoredName); err != nil {
			s.logger.ErrorContext(ctx, "Failed to remove artifact",
				"error", err,
				"stored_name", submission.StoredName)
		}
	}

	s.publishSubmissionEvent(ctx, events.SubmissionDeleted, submission, callerEmail)

	s.logger.Info("Submission deleted", "submission_id", id, "deleted_by", callerEmail)

	return nil
}

func (s *submissionService) Download(ctx context.Context, storedName string, callerEmail string, callerRole models.UserRole) (*DownloadResult, error) {
	submission, err := s.repo.Submission().GetByStoredName(ctx, s.db, storedName)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("submission", storedName)
		}
		return nil, err
	}

	if !s.canTouch(submission, callerEmail, callerRole) {
		return nil, NewPermissionError(callerEmail, "submission", "download", "not the owner")
	}

	content, err := s.store.Open(ctx, submission.StoredName)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, NewNotFoundError("artifact", storedName)
		}
		return nil, err
	}

	return &DownloadResult{
		OriginalName: submission.OriginalName,
		Content:      content,
	}, nil
}

// ===== REPORTING =====

func (s *submissionService) ExportAll(ctx context.Context, reviewerEmail string) ([]byte, error) {
	if _, err := s.requireReviewer(ctx, reviewerEmail, "submissions", "export"); err != nil {
		return nil, err
	}

	submissions, _, err := s.repo.Submission().List(ctx, s.db, repositories.SubmissionFilters{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Email", "Subject", "Kind", "Artifact", "Status", "Fraud Score", "Feedback", "Uploaded At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, sub := range submissions {
		summary := models.SubmissionSummary{
			ID:           sub.ID,
			Email:        sub.Email,
			Subject:      sub.Subject,
			Kind:         sub.Kind,
			OriginalName: sub.ArtifactName(),
			Status:       sub.Status,
			FraudScore:   sub.FraudScore,
			Feedback:     sub.Feedback,
			UploadedAt:   sub.UploadedAt,
		}
		values := []interface{}{
			summary.ID,
			summary.Email,
			summary.Subject,
			string(summary.Kind),
			summary.OriginalName,
			string(summary.Status),
			summary.FraudScore,
			summary.Feedback,
			summary.UploadedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to build export: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *submissionService) GetStats(ctx context.Context, reviewerEmail string) (*repositories.SubmissionStats, error) {
	if _, err := s.requireReviewer(ctx, reviewerEmail, "submissions", "view_stats"); err != nil {
		return nil, err
	}

	return s.repo.Submission().GetStats(ctx, s.db)
}

// ===== HELPERS =====

// requireReviewer allows teachers and admins, returning the resolved role.
func (s *submissionService) requireReviewer(ctx context.Context, email, resource, action string) (models.UserRole, error) {
	user, err := s.repo.User().GetByEmail(ctx, s.db, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", NewPermissionError(email, resource, action, "unknown account")
		}
		return "", err
	}

	if user.Role != models.RoleTeacher && user.Role != models.RoleAdmin {
		return "", NewPermissionError(email, resource, action, "requires teacher or admin role")
	}

	return user.Role, nil
}

// canTouch reports whether the caller may download or delete a
// submission. Owners always can; reviewers can regardless of ownership.
func (s *submissionService) canTouch(submission *models.Submission, callerEmail string, callerRole models.UserRole) bool {
	if submission.Email == callerEmail {
		return true
	}
	return callerRole == models.RoleTeacher || callerRole == models.RoleAdmin
}

func (s *submissionService) validateUpload(req *UploadFileRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors

	subject := strings.TrimSpace(req.Subject)
	if len(subject) < 1 || len(subject) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "subject",
			Message: "must be between 1 and 200 characters",
			Value:   req.Subject,
			Rule:    "submission_subject",
		})
	}

	if strings.TrimSpace(req.OriginalName) == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "is required",
			Rule:    "required",
		})
	}

	return errs
}

func (s *submissionService) toResponse(submission *models.Submission, callerEmail string, callerRole models.UserRole) *SubmissionResponse {
	return &SubmissionResponse{
		Submission: submission,
		CanDelete:  s.canTouch(submission, callerEmail, callerRole),
		CanFlag:    callerRole == models.RoleTeacher || callerRole == models.RoleAdmin,
	}
}

func (s *submissionService) toListResponse(submissions []*models.Submission, total int64, callerEmail string, callerRole models.UserRole) *SubmissionListResponse {
	out := make([]*SubmissionResponse, len(submissions))
	for i, sub := range submissions {
		out[i] = s.toResponse(sub, callerEmail, callerRole)
	}
	return &SubmissionListResponse{Submissions: out, Total: total}
}

func (s *submissionService) publishSubmissionEvent(ctx context.Context, eventType string, submission *models.Submission, actor string) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(eventType, &events.SubmissionEvent{
		SubmissionID: submission.ID,
		Email:        submission.Email,
		Subject:      submission.Subject,
		Kind:         string(submission.Kind),
		Status:       string(submission.Status),
		FraudScore:   submission.FraudScore,
		FlaggedBy:    actor,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_type", eventType,
			"submission_id", submission.ID)
	}
}
