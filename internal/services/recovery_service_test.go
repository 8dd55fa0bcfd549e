package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SAP-F-2025/submission-service/internal/events"
	"github.com/SAP-F-2025/submission-service/internal/mailer"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type failingMailer struct{ err error }

func (f *failingMailer) Send(ctx context.Context, msg *mailer.EmailMessage) error {
	return f.err
}

func newTestRecoveryService(m mailer.Mailer) (RecoveryService, *mockRepository) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewRecoveryService(repo, nil, testLogger(), validator.New(), m, publisher)
	return svc, repo
}

func registerUser(t *testing.T, repo *mockRepository, email string) {
	t.Helper()
	account := NewAccountService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := account.Register(context.Background(), &RegisterRequest{
		Email:    email,
		Password: "Abc12345!",
		Role:     "student",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
}

func TestRecoveryService_ForgotPassword(t *testing.T) {
	mock := mailer.NewMockMailer()
	svc, repo := newTestRecoveryService(mock)
	ctx := context.Background()

	registerUser(t, repo, "lost@example.com")

	if err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "lost@example.com"}); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	sent := mock.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if sent[0].To[0].Address != "lost@example.com" {
		t.Errorf("email sent to wrong address: %s", sent[0].To[0].Address)
	}

	user, err := repo.User().GetByEmail(ctx, nil, "lost@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !user.HasTempPassword() {
		t.Error("temp password hash should be persisted after delivery")
	}

	// The emailed temporary password must actually authenticate.
	temp := extractTempPassword(t, sent[0].Text)
	account := NewAccountService(repo, nil, testLogger(), validator.New(), nil)
	if _, err := account.Login(ctx, &LoginRequest{Email: "lost@example.com", Password: temp, Role: "student"}); err != nil {
		t.Errorf("emailed temp password did not authenticate: %v", err)
	}
}

func TestRecoveryService_ForgotPasswordNormalizesEmail(t *testing.T) {
	mock := mailer.NewMockMailer()
	svc, repo := newTestRecoveryService(mock)
	ctx := context.Background()

	registerUser(t, repo, "lost@example.com")

	// Hand-typed addresses arrive with stray whitespace and mixed case.
	if err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "  Lost@Example.COM  "}); err != nil {
		t.Fatalf("forgot password with unnormalized email failed: %v", err)
	}

	sent := mock.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if sent[0].To[0].Address != "lost@example.com" {
		t.Errorf("email sent to wrong address: %s", sent[0].To[0].Address)
	}

	user, err := repo.User().GetByEmail(ctx, nil, "lost@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !user.HasTempPassword() {
		t.Error("temp password hash should be persisted for the canonical account")
	}
}

func TestRecoveryService_DeliveryFailureLeavesNothingPersisted(t *testing.T) {
	svc, repo := newTestRecoveryService(&failingMailer{err: errors.New("provider down")})
	ctx := context.Background()

	registerUser(t, repo, "down@example.com")

	err := svc.ForgotPassword(ctx, &ForgotPasswordRequest{Email: "down@example.com"})
	if !IsDeliveryError(err) {
		t.Fatalf("expected delivery error, got %v", err)
	}

	user, err := repo.User().GetByEmail(ctx, nil, "down@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user.HasTempPassword() {
		t.Error("temp password must not be persisted when delivery fails")
	}
}

func TestRecoveryService_UnknownAccount(t *testing.T) {
	svc, _ := newTestRecoveryService(mailer.NewMockMailer())

	err := svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "ghost@example.com"})
	if !IsNotFoundError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

// extractTempPassword pulls the temporary password out of the labeled
// line in the recovery email body.
func extractTempPassword(t *testing.T, body string) string {
	t.Helper()
	const label = "Temporary password: "
	idx := strings.Index(body, label)
	if idx < 0 {
		t.Fatalf("no temp password line in email body: %q", body)
	}
	rest := body[idx+len(label):]
	password := strings.Fields(rest)[0]
	if len(password) != tempPasswordLength {
		t.Fatalf("unexpected temp password %q", password)
	}
	for _, r := range password {
		if !strings.ContainsRune(tempPasswordCharset, r) {
			t.Fatalf("temp password %q contains unexpected character %q", password, r)
		}
	}
	return password
}
