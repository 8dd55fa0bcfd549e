package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
	"github.com/SAP-F-2025/submission-service/internal/services"
	"github.com/SAP-F-2025/submission-service/internal/utils"
	"github.com/SAP-F-2025/submission-service/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// Upload accepts a multipart file submission
// @Summary Upload submission file
// @Description Stores the file under a generated name and records the submission
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Param subject formData string true "Assignment subject"
// @Param file formData file true "Submission file"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /upload [post]
func (h *SubmissionHandler) Upload(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cannot read uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Uploading submission file",
		"email", email,
		"original_name", fileHeader.Filename,
		"size", fileHeader.Size)

	req := &services.UploadFileRequest{
		Subject:      c.PostForm("subject"),
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Content:      file,
	}

	submission, err := h.submissionService.Upload(c.Request.Context(), req, email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// UploadText accepts a pasted-text submission
// @Summary Upload submission text
// @Description Records a text submission with no stored artifact
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body services.UploadTextRequest true "Text submission"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /upload-text [post]
func (h *SubmissionHandler) UploadText(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.UploadTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.submissionService.UploadText(c.Request.Context(), &req, email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// Download streams a stored artifact back under its original name
// @Summary Download submission file
// @Description Streams the artifact if the caller owns it or reviews submissions
// @Tags submissions
// @Produce octet-stream
// @Param filename path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /download/{filename} [get]
func (h *SubmissionHandler) Download(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	storedName := c.Param("filename")

	result, err := h.submissionService.Download(c.Request.Context(), storedName, email, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer result.Content.Close()

	// Unknown length streams chunked rather than claiming zero bytes.
	contentLength := result.Size
	if contentLength <= 0 {
		contentLength = -1
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.OriginalName))
	c.DataFromReader(http.StatusOK, contentLength, "application/octet-stream", result.Content, nil)
}

// ListMine lists the caller's own submissions
// @Summary List own submissions
// @Description Returns the caller's submissions, newest first
// @Tags submissions
// @Produce json
// @Success 200 {object} services.SubmissionListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assignments [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	list, err := h.submissionService.ListForStudent(c.Request.Context(), email, h.parseSubmissionFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListAll lists every submission for reviewers
// @Summary List all submissions
// @Description Returns every submission; teachers and admins only
// @Tags submissions
// @Produce json
// @Success 200 {object} services.SubmissionListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /all-assignments [get]
func (h *SubmissionHandler) ListAll(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	list, err := h.submissionService.ListAll(c.Request.Context(), email, h.parseSubmissionFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ExportAll downloads every submission as an xlsx workbook
// @Summary Export all submissions
// @Description Returns an xlsx workbook of every submission; teachers and admins only
// @Tags submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /all-assignments/export [get]
func (h *SubmissionHandler) ExportAll(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Exporting submissions", "email", email)

	data, err := h.submissionService.ExportAll(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Flag marks a submission as suspicious
// @Summary Flag submission
// @Description Records a fraud score and feedback, notifying the owner; teachers and admins only
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path uint true "Submission ID"
// @Param flag body services.FlagRequest true "Flag data"
// @Success 200 {object} services.SubmissionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /flag-assignment/{id} [post]
func (h *SubmissionHandler) Flag(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Flagging submission", "submission_id", id, "reviewer", email)

	submission, err := h.submissionService.Flag(c.Request.Context(), id, &req, email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// Delete removes a submission and its artifact
// @Summary Delete submission
// @Description Deletes a submission the caller owns; teachers and admins may delete any
// @Tags submissions
// @Produce json
// @Param id path uint true "Submission ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Deleting submission", "submission_id", id, "email", email)

	if err := h.submissionService.Delete(c.Request.Context(), id, email, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Submission deleted successfully",
	})
}

// GetStats returns aggregate submission figures
// @Summary Submission statistics
// @Description Returns totals and average fraud score; teachers and admins only
// @Tags submissions
// @Produce json
// @Success 200 {object} repositories.SubmissionStats
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /all-assignments/stats [get]
func (h *SubmissionHandler) GetStats(c *gin.Context) {
	email, err := GetUserEmailFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	stats, err := h.submissionService.GetStats(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *SubmissionHandler) parseSubmissionFilters(c *gin.Context) repositories.SubmissionFilters {
	filters := repositories.SubmissionFilters{
		Limit:  h.parseIntQuery(c, "size", 0),
		Offset: 0,
	}
	if page := h.parseIntQuery(c, "page", 1); page > 1 && filters.Limit > 0 {
		filters.Offset = (page - 1) * filters.Limit
	}

	if status := c.Query("status"); status != "" {
		submissionStatus := models.SubmissionStatus(strings.ToLower(status))
		filters.Status = &submissionStatus
	}

	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}

	return filters
}
