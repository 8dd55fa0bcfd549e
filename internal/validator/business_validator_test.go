package validator

import "testing"

func TestValidateRegister_PasswordPolicy(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"valid password", "Abc12345!", true},
		{"too short", "Ab1!", false},
		{"missing uppercase", "abc12345!", false},
		{"missing digit", "Abcdefgh!", false},
		{"missing special", "Abc12345", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &RegisterRequest{
				Email:    "alice@uni.edu",
				Password: tt.password,
				Role:     "student",
			}

			errs := bv.ValidateRegister(req)
			if tt.wantOK && len(errs) != 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
			if !tt.wantOK && len(errs) == 0 {
				t.Errorf("expected validation errors for password %q", tt.password)
			}
		})
	}
}

func TestValidateRegister_Role(t *testing.T) {
	bv := NewBusinessValidator()

	req := &RegisterRequest{Email: "alice@uni.edu", Password: "Abc12345!", Role: "superuser"}
	if errs := bv.ValidateRegister(req); len(errs) == 0 {
		t.Error("expected validation error for unknown role")
	}

	// All three known roles register through the same endpoint.
	req.Role = "admin"
	if errs := bv.ValidateRegister(req); len(errs) != 0 {
		t.Errorf("expected admin registration to validate, got %v", errs)
	}

	req.Role = "teacher"
	if errs := bv.ValidateRegister(req); len(errs) != 0 {
		t.Errorf("expected teacher registration to validate, got %v", errs)
	}
}

func TestValidateRegister_Email(t *testing.T) {
	bv := NewBusinessValidator()

	req := &RegisterRequest{Email: "not-an-email", Password: "Abc12345!", Role: "student"}
	errs := bv.ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("expected validation error for malformed email")
	}
	if errs[0].Field != "Email" {
		t.Errorf("expected error on Email field, got %s", errs[0].Field)
	}
}

func TestValidateFlag(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &FlagRequest{FraudScore: 85, Feedback: "sections copied verbatim", Version: 1}
	if errs := bv.ValidateFlag(valid); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	// Version is optional; a request without one targets the current revision.
	noVersion := &FlagRequest{FraudScore: 85, Feedback: "sections copied verbatim"}
	if errs := bv.ValidateFlag(noVersion); len(errs) != 0 {
		t.Errorf("expected no errors without a version, got %v", errs)
	}

	outOfRange := &FlagRequest{FraudScore: 150, Feedback: "copied", Version: 1}
	if errs := bv.ValidateFlag(outOfRange); len(errs) == 0 {
		t.Error("expected validation error for fraud score above 100")
	}

	blankFeedback := &FlagRequest{FraudScore: 40, Feedback: "   ", Version: 1}
	if errs := bv.ValidateFlag(blankFeedback); len(errs) == 0 {
		t.Error("expected validation error for blank feedback")
	}
}

func TestValidateUploadText(t *testing.T) {
	bv := NewBusinessValidator()

	req := &UploadTextRequest{Subject: "Algorithms HW3", Text: "my essay"}
	if errs := bv.Validate(req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	req = &UploadTextRequest{Subject: "  ", Text: "my essay"}
	if errs := bv.Validate(req); len(errs) == 0 {
		t.Error("expected validation error for blank subject")
	}
}
