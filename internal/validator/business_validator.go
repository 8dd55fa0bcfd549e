package validator

import (
	"strings"
	"unicode"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Special characters accepted by the password policy.
const passwordSpecials = "!@#$%^&*()-_=+[]{};:,.<>?"

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates account registration business rules.
// Any of the three roles may register itself, admin included; there is
// no separate provisioning path.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateFlag validates flagging business rules
func (bv *BusinessValidator) ValidateFlag(req *FlagRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Feedback) == "" {
		errors = append(errors, ValidationError{
			Field:   "feedback",
			Message: "cannot be blank",
			Value:   req.Feedback,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Minimum 8 characters with at least one uppercase letter, one
	// digit and one special character.
	bv.validate.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}

		var hasUpper, hasDigit, hasSpecial bool
		for _, r := range password {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsDigit(r):
				hasDigit = true
			case strings.ContainsRune(passwordSpecials, r):
				hasSpecial = true
			}
		}

		return hasUpper && hasDigit && hasSpecial
	})

	// Role validation
	bv.validate.RegisterValidation("account_role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(models.UserRole(fl.Field().String()))
	})

	// Fraud score validation (0-100)
	bv.validate.RegisterValidation("fraud_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Int()
		return score >= 0 && score <= 100
	})

	// Subject validation (1-200 characters)
	bv.validate.RegisterValidation("submission_subject", func(fl validator.FieldLevel) bool {
		subject := strings.TrimSpace(fl.Field().String())
		return len(subject) >= 1 && len(subject) <= 200
	})
}
