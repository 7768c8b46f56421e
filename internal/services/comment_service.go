// internal/services/comment_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/appdesk/crm-backend/internal/database"
	"github.com/appdesk/crm-backend/internal/models"
	"github.com/appdesk/crm-backend/internal/utils"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) applicationExists(db *gorm.DB, applicationID uuid.UUID) error {
	var application models.Application
	if err := db.Select("id").First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}

func (s *CommentService) List(applicationID uuid.UUID, sort models.CommentSortOrder, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if err := s.applicationExists(s.db, applicationID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Comment{}).Where("application_id = ?", applicationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	if sort == models.CommentSortOldest {
		query = query.Order("created_at asc")
	} else {
		query = query.Order("created_at desc")
	}
	query = utils.ApplyPagination(query, params)

	var comments []models.Comment
	if err := query.Preload("User").Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch comments: %w", err)
	}

	return comments, total, nil
}

func (s *CommentService) Create(applicationID uuid.UUID, principal models.Principal, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{
		ApplicationID: applicationID,
		UserID:        principal.ID,
		Comment:       body,
	}

	// Existence check and insert share a transaction so a concurrent
	// application delete cannot leave the comment orphaned.
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.applicationExists(tx, applicationID); err != nil {
			return err
		}

		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		if err := tx.Preload("User").First(comment, "id = ?", comment.ID).Error; err != nil {
			return fmt.Errorf("failed to load comment author: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment if the acting principal authored it. The ownership
// check and the delete run in one transaction so a concurrent delete cannot
// slip between them.
func (s *CommentService) Delete(commentID uuid.UUID, principal models.Principal) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if comment.UserID != principal.ID {
			return ErrCommentForbidden
		}

		if err := tx.Delete(&comment).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		return nil
	})
}
