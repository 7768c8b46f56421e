// internal/handlers/application.go
package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/appdesk/crm-backend/internal/services"
	"github.com/appdesk/crm-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func applicationFilterFromQuery(c *gin.Context) services.ApplicationFilter {
	return services.ApplicationFilter{
		PaginationParams: utils.GetPaginationParams(c),
		Status:           c.Query("status"),
	}
}

// GET /applications
func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	filter := applicationFilterFromQuery(c)

	applications, total, err := h.applicationService.List(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(applications, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

var exportHeader = []string{
	"ID", "Name", "Email", "Message", "Status",
	"Created At", "Reviewed At", "Reviewer", "IP Address", "User Agent",
}

const exportTimeFormat = "2006-01-02 15:04:05"

// GET /applications/export
func (h *ApplicationHandler) ExportApplications(c *gin.Context) {
	filter := applicationFilterFromQuery(c)

	applications, err := h.applicationService.Export(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	filename := fmt.Sprintf("applications_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	// UTF-8 BOM so spreadsheet tools pick the right encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	writer.Write(exportHeader)

	for _, application := range applications {
		reviewedAt := ""
		if application.ReviewedAt != nil {
			reviewedAt = application.ReviewedAt.Format(exportTimeFormat)
		}
		reviewer := ""
		if application.Reviewer != nil {
			reviewer = application.Reviewer.Name
		}

		writer.Write([]string{
			application.ID.String(),
			application.Name,
			application.Email,
			application.Message,
			application.Status.Label(),
			application.CreatedAt.Format(exportTimeFormat),
			reviewedAt,
			reviewer,
			application.MetadataString("ip_address"),
			application.MetadataString("user_agent"),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		// Headers are already sent; all we can do is record the failure.
		logrus.WithError(err).Error("CSV export write failed")
	}
}

// POST /applications (public)
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req services.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	meta := services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.GetHeader("Referer"),
	}

	application, err := h.applicationService.Create(&req, meta)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     "Application created successfully",
		"application": application,
	})
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// a malformed id cannot reference an existing application
		utils.NotFoundResponse(c, "Application")
		return
	}

	application, err := h.applicationService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "Application")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, application)
}

// PUT /applications/:id
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Application")
		return
	}

	var req services.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.Update(id, principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			utils.NotFoundResponse(c, "Application")
		case errors.Is(err, services.ErrInvalidStatus):
			utils.ValidationErrorResponse(c, []utils.ValidationError{{
				Field:   "status",
				Tag:     "oneof",
				Message: "status must be one of: pending in_progress approved rejected",
			}})
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     "Application updated successfully",
		"application": application,
	})
}

// DELETE /applications/:id
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Application")
		return
	}

	if err := h.applicationService.Delete(id); err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "Application")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Application deleted successfully with all related comments",
	})
}
