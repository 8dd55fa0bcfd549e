package validator

// RegisterRequest represents the request structure for account registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_policy"`
	Role     string `json:"role" validate:"required,account_role"`
}

// LoginRequest represents the request structure for credential checks
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,account_role"`
}

// ChangePasswordRequest represents the request structure for password changes
type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password_policy"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ForgotPasswordRequest represents the request structure for password recovery
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UploadTextRequest represents the request structure for text submissions
type UploadTextRequest struct {
	Subject string `json:"subject" validate:"required,submission_subject"`
	Text    string `json:"text" validate:"required,min=1,max=100000"`
}

// FlagRequest represents the request structure for flagging a submission.
// Version is optional; when absent the flag applies to whatever revision
// is current at commit time.
type FlagRequest struct {
	FraudScore int    `json:"fraudScore" validate:"fraud_score"`
	Feedback   string `json:"feedback" validate:"required,min=1,max=2000"`
	Version    int    `json:"version" validate:"omitempty,min=1"`
}
