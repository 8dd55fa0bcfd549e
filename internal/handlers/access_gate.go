package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/services"
)

const (
	headerUserEmail = "X-User-Email"
	headerUserRole  = "X-User-Role"
)

// AccessGateMiddleware identifies the caller from gateway headers. The
// asserted role is never trusted as-is: it is checked against the
// account store before the request proceeds.
type AccessGateMiddleware struct {
	accounts services.AccountService
}

func NewAccessGateMiddleware(accounts services.AccountService) *AccessGateMiddleware {
	return &AccessGateMiddleware{accounts: accounts}
}

// AuthMiddleware returns a Gin middleware function resolving the caller identity
func (agm *AccessGateMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(headerUserEmail))
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "user email header missing",
			})
			c.Abort()
			return
		}

		role := models.UserRole(strings.ToLower(strings.TrimSpace(c.GetHeader(headerUserRole))))
		if !models.ValidRole(role) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "user role header missing or unknown",
			})
			c.Abort()
			return
		}

		ok, err := agm.accounts.VerifyRole(c.Request.Context(), email, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal",
				"message": "failed to verify account",
			})
			c.Abort()
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "role does not match the account on record",
			})
			c.Abort()
			return
		}

		c.Set("user_email", email)
		c.Set("user_role", role)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role
func (agm *AccessGateMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid user role format",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole || role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserEmailFromContext extracts the caller email from Gin context
func GetUserEmailFromContext(c *gin.Context) (string, error) {
	userEmail, exists := c.Get("user_email")
	if !exists {
		return "", fmt.Errorf("user email not found in context")
	}

	email, ok := userEmail.(string)
	if !ok {
		return "", fmt.Errorf("invalid user email type in context")
	}

	return email, nil
}

// GetUserRoleFromContext extracts the caller role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
