// internal/handlers/comment.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/appdesk/crm-backend/internal/models"
	"github.com/appdesk/crm-backend/internal/services"
	"github.com/appdesk/crm-backend/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type createCommentRequest struct {
	Comment string `json:"comment" validate:"required,notblank"`
}

// GET /applications/:id/comments
func (h *CommentHandler) GetComments(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Application")
		return
	}

	params := utils.GetPaginationParams(c)
	sort := models.CommentSortOrder(c.DefaultQuery("sort", string(models.CommentSortNewest)))

	comments, total, err := h.commentService.List(applicationID, sort, params)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "Application")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(comments, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /applications/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Application")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.commentService.Create(applicationID, principal, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			utils.NotFoundResponse(c, "Application")
		case errors.Is(err, services.ErrEmptyComment):
			utils.ValidationErrorResponse(c, []utils.ValidationError{{
				Field:   "comment",
				Tag:     "notblank",
				Message: "comment must not be blank",
			}})
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, "Comment")
		return
	}

	if err := h.commentService.Delete(commentID, principal); err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			utils.NotFoundResponse(c, "Comment")
		case errors.Is(err, services.ErrCommentForbidden):
			utils.ForbiddenResponse(c, "Unauthorized to delete this comment")
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Comment deleted successfully",
	})
}
