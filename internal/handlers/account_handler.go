package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/submission-service/internal/services"
	"github.com/SAP-F-2025/submission-service/internal/utils"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type AccountHandler struct {
	BaseHandler
	accountService  services.AccountService
	recoveryService services.RecoveryService
	validator       *validator.Validator
}

func NewAccountHandler(
	accountService services.AccountService,
	recoveryService services.RecoveryService,
	validator *validator.Validator,
	logger utils.Logger,
) *AccountHandler {
	return &AccountHandler{
		BaseHandler:     NewBaseHandler(logger),
		accountService:  accountService,
		recoveryService: recoveryService,
		validator:       validator,
	}
}

// Register creates a new account
// @Summary Register account
// @Description Creates a student or teacher account with a hashed password
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body services.RegisterRequest true "Account data"
// @Success 201 {object} services.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// Login verifies credentials and the asserted role
// @Summary Login
// @Description Verifies email, password and role against the account store
// @Tags accounts
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Login data"
// @Success 200 {object} services.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	account, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// ForgotPassword issues a temporary password by email
// @Summary Forgot password
// @Description Emails a temporary password; the hash is stored only after delivery
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.ForgotPasswordRequest true "Account email"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forgot-password [post]
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Password recovery requested", "email", req.Email)

	if err := h.recoveryService.ForgotPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Temporary password sent",
	})
}

// ChangePassword replaces the permanent credential
// @Summary Change password
// @Description Replaces the password after verifying the current one; retires any temporary password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.ChangePasswordRequest true "Password change data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /change-password [post]
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.accountService.ChangePassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Password changed successfully",
	})
}
