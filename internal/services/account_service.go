package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/submission-service/internal/events"
	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type accountService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewAccountService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AccountService {
	return &accountService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

// normalizeEmail canonicalizes an address for storage and lookup.
// Accounts are keyed by the lowercased, trimmed form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// duplicateEmailError reports an already-registered address as a plain
// input validation failure.
func duplicateEmailError(email string) validator.ValidationErrors {
	return validator.ValidationErrors{{
		Field:   "email",
		Message: "is already registered",
		Value:   email,
		Rule:    "business_logic",
	}}
}

func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*AccountResponse, error) {
	req.Email = normalizeEmail(req.Email)

	s.logger.Info("Registering account", "email", req.Email, "role", req.Role)

	if errors := s.validator.GetBusinessValidator().ValidateRegister(req); len(errors) > 0 {
		return nil, errors
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, s.db, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if exists {
		return nil, duplicateEmailError(req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Role:         models.UserRole(req.Role),
		PasswordHash: string(hash),
	}

	if err := s.repo.User().Create(ctx, s.db, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, duplicateEmailError(req.Email)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.UserRegistered, &events.UserEvent{
		Email: user.Email,
		Role:  string(user.Role),
	}))

	s.logger.Info("Account registered", "email", user.Email)

	return &AccountResponse{Email: user.Email, Role: user.Role}, nil
}

func (s *accountService) Login(ctx context.Context, req *LoginRequest) (*AccountResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, s.db, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if !s.checkPassword(user, req.Password) {
		return nil, NewUnauthorizedError("invalid credentials")
	}

	// The asserted role must match the stored account; callers cannot
	// upgrade themselves at login time.
	if user.Role != models.UserRole(req.Role) {
		return nil, NewUnauthorizedError("role does not match account")
	}

	return &AccountResponse{Email: user.Email, Role: user.Role}, nil
}

func (s *accountService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	req.Email = normalizeEmail(req.Email)

	s.logger.Info("Changing password", "email", req.Email)

	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, s.db, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewUnauthorizedError("invalid credentials")
		}
		return err
	}

	// A temporary recovery password is a valid current credential here;
	// changing the password is how it gets retired.
	if !s.checkPassword(user, req.OldPassword) {
		return NewUnauthorizedError("invalid credentials")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdatePasswordHash(ctx, s.db, req.Email, string(hash)); err != nil {
		return err
	}

	s.logger.Info("Password changed", "email", req.Email)

	return nil
}

func (s *accountService) VerifyRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	if !models.ValidRole(role) {
		return false, nil
	}
	return s.repo.User().HasRole(ctx, s.db, normalizeEmail(email), role)
}

// checkPassword accepts the permanent password or, when set, the
// temporary recovery password.
func (s *accountService) checkPassword(user *models.User, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return true
	}
	if user.HasTempPassword() {
		return bcrypt.CompareHashAndPassword([]byte(*user.TempPasswordHash), []byte(password)) == nil
	}
	return false
}

func (s *accountService) publishEvent(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_type", event.Type)
	}
}
