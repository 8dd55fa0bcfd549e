package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/SAP-F-2025/submission-service/internal/events"
	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAccountService() (AccountService, *mockRepository, *events.MockEventPublisher) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewAccountService(repo, nil, testLogger(), validator.New(), publisher)
	return svc, repo, publisher
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	svc, _, publisher := newTestAccountService()
	ctx := context.Background()

	account, err := svc.Register(ctx, &RegisterRequest{
		Email:    "student@example.com",
		Password: "Abc12345!",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if account.Email != "student@example.com" || account.Role != models.RoleStudent {
		t.Errorf("unexpected account: %+v", account)
	}

	logged, err := svc.Login(ctx, &LoginRequest{
		Email:    "student@example.com",
		Password: "Abc12345!",
		Role:     "student",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.Role != models.RoleStudent {
		t.Errorf("expected student role, got %s", logged.Role)
	}

	found := false
	for _, e := range publisher.GetPublishedEvents() {
		if e.Type == events.UserRegistered {
			found = true
		}
	}
	if !found {
		t.Error("expected a user registered event")
	}
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	req := &RegisterRequest{Email: "dup@example.com", Password: "Abc12345!", Role: "student"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// A duplicate address is reported as invalid input, same surface as
	// any other bad registration field.
	_, err := svc.Register(ctx, req)
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	// Case and whitespace variants of the address hit the same account.
	req2 := &RegisterRequest{Email: "  Dup@Example.COM ", Password: "Abc12345!", Role: "student"}
	if _, err := svc.Register(ctx, req2); !IsValidationError(err) {
		t.Errorf("expected validation error for case variant, got %v", err)
	}
}

func TestAccountService_RegisterRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestAccountService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "weak@example.com",
		Password: "abc",
		Role:     "student",
	})
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAccountService_RegisterAdmin(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	// Admin accounts register through the same endpoint as everyone else.
	account, err := svc.Register(ctx, &RegisterRequest{
		Email:    "boss@example.com",
		Password: "Abc12345!",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("admin register failed: %v", err)
	}
	if account.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", account.Role)
	}

	if _, err := svc.Login(ctx, &LoginRequest{Email: "boss@example.com", Password: "Abc12345!", Role: "admin"}); err != nil {
		t.Errorf("admin login failed: %v", err)
	}
}

func TestAccountService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "u@example.com", Password: "Abc12345!", Role: "student"})

	_, err := svc.Login(ctx, &LoginRequest{Email: "u@example.com", Password: "Wrong123!", Role: "student"})
	if !IsUnauthorizedError(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestAccountService_LoginRoleMismatch(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "s@example.com", Password: "Abc12345!", Role: "student"})

	_, err := svc.Login(ctx, &LoginRequest{Email: "s@example.com", Password: "Abc12345!", Role: "teacher"})
	if !IsUnauthorizedError(err) {
		t.Errorf("expected unauthorized error for role mismatch, got %v", err)
	}
}

func TestAccountService_LoginWithTempPassword(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "t@example.com", Password: "Abc12345!", Role: "student"})

	tempHash, err := bcrypt.GenerateFromPassword([]byte("Temp9876"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.User().SetTempPasswordHash(ctx, nil, "t@example.com", string(tempHash)); err != nil {
		t.Fatal(err)
	}

	// Both the permanent and the temporary password must authenticate.
	if _, err := svc.Login(ctx, &LoginRequest{Email: "t@example.com", Password: "Temp9876", Role: "student"}); err != nil {
		t.Errorf("temp password login failed: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "t@example.com", Password: "Abc12345!", Role: "student"}); err != nil {
		t.Errorf("permanent password login failed: %v", err)
	}
}

func TestAccountService_ChangePasswordClearsTemp(t *testing.T) {
	svc, repo, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "c@example.com", Password: "Abc12345!", Role: "student"})

	tempHash, _ := bcrypt.GenerateFromPassword([]byte("Temp9876"), bcrypt.DefaultCost)
	_ = repo.User().SetTempPasswordHash(ctx, nil, "c@example.com", string(tempHash))

	// Change using the temp password as the current credential.
	err := svc.ChangePassword(ctx, &ChangePasswordRequest{
		Email:           "c@example.com",
		OldPassword:     "Temp9876",
		NewPassword:     "NewPass99!",
		ConfirmPassword: "NewPass99!",
	})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	user, err := repo.User().GetByEmail(ctx, nil, "c@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user.HasTempPassword() {
		t.Error("temp password should be cleared after a password change")
	}

	if _, err := svc.Login(ctx, &LoginRequest{Email: "c@example.com", Password: "Temp9876", Role: "student"}); err == nil {
		t.Error("temp password should no longer authenticate")
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "c@example.com", Password: "NewPass99!", Role: "student"}); err != nil {
		t.Errorf("new password login failed: %v", err)
	}
}

func TestAccountService_ChangePasswordConfirmMismatch(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "m@example.com", Password: "Abc12345!", Role: "student"})

	err := svc.ChangePassword(ctx, &ChangePasswordRequest{
		Email:           "m@example.com",
		OldPassword:     "Abc12345!",
		NewPassword:     "NewPass99!",
		ConfirmPassword: "Different1!",
	})
	if !IsValidationError(err) {
		t.Errorf("expected validation error when the confirmation differs, got %v", err)
	}

	// The credential must be untouched after the failed attempt.
	if _, err := svc.Login(ctx, &LoginRequest{Email: "m@example.com", Password: "Abc12345!", Role: "student"}); err != nil {
		t.Errorf("original password should still authenticate: %v", err)
	}
}

func TestAccountService_VerifyRole(t *testing.T) {
	svc, _, _ := newTestAccountService()
	ctx := context.Background()

	_, _ = svc.Register(ctx, &RegisterRequest{Email: "v@example.com", Password: "Abc12345!", Role: "teacher"})

	ok, err := svc.VerifyRole(ctx, "v@example.com", models.RoleTeacher)
	if err != nil || !ok {
		t.Errorf("expected role to verify, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.VerifyRole(ctx, "v@example.com", models.RoleAdmin)
	if err != nil || ok {
		t.Errorf("expected mismatched role to fail verification, got ok=%v err=%v", ok, err)
	}
	ok, err = svc.VerifyRole(ctx, "nobody@example.com", models.RoleStudent)
	if err != nil || ok {
		t.Errorf("expected unknown account to fail verification, got ok=%v err=%v", ok, err)
	}
}
