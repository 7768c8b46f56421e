// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/appdesk/crm-backend/internal/database"
	"github.com/appdesk/crm-backend/internal/models"
	"github.com/appdesk/crm-backend/internal/utils"
)

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

type ApplicationFilter struct {
	utils.PaginationParams
	Status string `json:"status,omitempty"`
}

type CreateApplicationRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,notblank"`
}

// RequestMeta is the provenance captured once at submission time.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	Referer   string
}

type UpdateApplicationRequest struct {
	Name    *string `json:"name" validate:"omitempty,notblank,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Message *string `json:"message" validate:"omitempty,notblank"`
	Status  *string `json:"status"`
	Comment *string `json:"comment"`
}

var applicationSortFields = []string{"created_at", "reviewed_at", "name", "email", "status"}

func (s *ApplicationService) filtered(filter ApplicationFilter) *gorm.DB {
	query := s.db.Model(&models.Application{})

	// Unknown status values are ignored, not rejected
	if filter.Status != "" && models.ApplicationStatus(filter.Status).Valid() {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", searchTerm, searchTerm)
	}

	return query
}

func (s *ApplicationService) applyOrdering(query *gorm.DB, params utils.PaginationParams) *gorm.DB {
	sortField := utils.ResolveSortField(params, applicationSortFields)
	query = query.Order(sortField + " " + utils.ResolveSortDirection(params))

	// Unreviewed rows have a null reviewed_at; the tie-break keeps them in a
	// stable recency order instead of whatever the store decides.
	if sortField == "reviewed_at" {
		query = query.Order("created_at desc")
	}

	return query
}

func (s *ApplicationService) List(filter ApplicationFilter) ([]models.Application, int64, error) {
	query := s.filtered(filter)

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	// Comment counts come from a correlated subquery, not a per-row load
	query = query.Select("applications.*, (SELECT COUNT(*) FROM comments WHERE comments.application_id = applications.id) AS comments_count")
	query = s.applyOrdering(query, filter.PaginationParams)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var applications []models.Application
	if err := query.Preload("Reviewer").Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// Export returns the full filtered view without pagination, for CSV output.
func (s *ApplicationService) Export(filter ApplicationFilter) ([]models.Application, error) {
	query := s.filtered(filter)
	query = s.applyOrdering(query, filter.PaginationParams)

	var applications []models.Application
	if err := query.Preload("Reviewer").Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to export applications: %w", err)
	}

	return applications, nil
}

func (s *ApplicationService) Get(id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.
		Preload("Reviewer").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.User").
		First(&application, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &application, nil
}

// Create accepts a public, unauthenticated submission.
func (s *ApplicationService) Create(req *CreateApplicationRequest, meta RequestMeta) (*models.Application, error) {
	application := &models.Application{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Status:  models.ApplicationStatusPending,
		Metadata: models.JSONB{
			"ip_address": meta.IPAddress,
			"user_agent": meta.UserAgent,
			"referer":    meta.Referer,
		},
	}

	if err := s.db.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return application, nil
}

// Update applies staff edits and the status transition rules. A real status
// change (new != current) stamps reviewed_by/reviewed_at; writing the current
// status back leaves the reviewer fields untouched. A non-empty comment is
// created in the same transaction as the update.
func (s *ApplicationService) Update(id uuid.UUID, principal models.Principal, req *UpdateApplicationRequest) (*models.Application, error) {
	if req.Status != nil && !models.ApplicationStatus(*req.Status).Valid() {
		return nil, ErrInvalidStatus
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.First(&application, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.Name != nil {
			application.Name = *req.Name
		}
		if req.Email != nil {
			application.Email = *req.Email
		}
		if req.Message != nil {
			application.Message = *req.Message
		}

		if req.Status != nil {
			newStatus := models.ApplicationStatus(*req.Status)
			if newStatus != application.Status {
				// Every real transition is stamped, including reverts to pending
				now := time.Now()
				reviewerID := principal.ID
				application.Status = newStatus
				application.ReviewedBy = &reviewerID
				application.ReviewedAt = &now
			}
		}

		if err := tx.Save(&application).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
			comment := models.Comment{
				ApplicationID: application.ID,
				UserID:        principal.ID,
				Comment:       *req.Comment,
			}
			if err := tx.Create(&comment).Error; err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes the application and all of its comments in one transaction;
// an orphaned comment is never an observable end state.
func (s *ApplicationService) Delete(id uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.First(&application, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("application_id = ?", application.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		if err := tx.Delete(&application).Error; err != nil {
			return fmt.Errorf("failed to delete application: %w", err)
		}

		return nil
	})
}
