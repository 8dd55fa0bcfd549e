package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/services"
	"github.com/SAP-F-2025/submission-service/internal/utils"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type HandlerManager struct {
	accountHandler      *AccountHandler
	submissionHandler   *SubmissionHandler
	notificationHandler *NotificationHandler
	accessGate          *AccessGateMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	accessGate := NewAccessGateMiddleware(serviceManager.Account())

	return &HandlerManager{
		accountHandler:      NewAccountHandler(serviceManager.Account(), serviceManager.Recovery(), validator, logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		accessGate:          accessGate,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Account routes - no identity headers required
	router.POST("/register", hm.accountHandler.Register)
	router.POST("/login", hm.accountHandler.Login)
	router.POST("/forgot-password", hm.accountHandler.ForgotPassword)
	router.POST("/change-password", hm.accountHandler.ChangePassword)

	// Everything below resolves the caller through the access gate
	authed := router.Group("")
	authed.Use(hm.accessGate.AuthMiddleware())
	{
		// Submission intake and retrieval
		authed.POST("/upload", hm.submissionHandler.Upload)
		authed.POST("/upload-text", hm.submissionHandler.UploadText)
		authed.GET("/download/:filename", hm.submissionHandler.Download)
		authed.GET("/assignments", hm.submissionHandler.ListMine)
		authed.DELETE("/assignments/:id", hm.submissionHandler.Delete)

		// Review routes - Teachers and Admins only
		authed.GET("/all-assignments", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher), hm.submissionHandler.ListAll)
		authed.GET("/all-assignments/export", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher), hm.submissionHandler.ExportAll)
		authed.GET("/all-assignments/stats", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher), hm.submissionHandler.GetStats)
		authed.POST("/flag-assignment/:id", hm.accessGate.RequireRoleMiddleware(models.RoleTeacher), hm.submissionHandler.Flag)

		// Notifications
		authed.GET("/notifications", hm.notificationHandler.List)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "submission-service",
		})
	})
}
