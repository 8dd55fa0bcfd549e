package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/submission-service/internal/events"
	"github.com/SAP-F-2025/submission-service/internal/mailer"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

const (
	tempPasswordLength  = 8
	tempPasswordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type recoveryService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	mailer         mailer.Mailer
	eventPublisher events.EventPublisher
}

func NewRecoveryService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, m mailer.Mailer, publisher events.EventPublisher) RecoveryService {
	return &recoveryService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		mailer:         m,
		eventPublisher: publisher,
	}
}

// ForgotPassword issues a temporary password. The email goes out
// first; the hash is persisted only after the provider accepted the
// message, so a delivery failure never locks credentials the user
// cannot read.
func (s *recoveryService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	// Recovery is the one path where people retype the address by hand,
	// so canonicalize before the email rule sees it.
	req.Email = normalizeEmail(req.Email)

	s.logger.Info("Password recovery requested", "email", req.Email)

	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, s.db, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("account", req.Email)
		}
		return err
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}

	msg := &mailer.EmailMessage{
		To:      []mail.Address{{Address: user.Email}},
		Subject: "Temporary password",
		Text: fmt.Sprintf(
			"A temporary password was requested for your account.\r\n\r\n"+
				"Temporary password: %s\r\n\r\n"+
				"It works alongside your current password until you change it. "+
				"If you did not request this, you can ignore this message.",
			tempPassword),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Temporary password delivery failed",
			"error", err,
			"email", user.Email)
		return NewDeliveryError("email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash temporary password: %w", err)
	}

	if err := s.repo.User().SetTempPasswordHash(ctx, s.db, user.Email, string(hash)); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		event := events.NewEvent(events.PasswordRecovered, &events.UserEvent{
			Email: user.Email,
			Role:  string(user.Role),
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish event",
				"error", err,
				"event_type", event.Type)
		}
	}

	s.logger.Info("Temporary password issued", "email", user.Email)

	return nil
}

// generateTempPassword returns 8 random alphanumeric characters.
func generateTempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}
