// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assigns the primary key in the application instead of the database so the
// models work unchanged on postgres and the sqlite store used in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}

	return nil
}

// Enums
type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "pending"
	ApplicationStatusInProgress ApplicationStatus = "in_progress"
	ApplicationStatusApproved   ApplicationStatus = "approved"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
)

// Presentation labels used by the export and the dashboard; never stored.
var applicationStatusLabels = map[ApplicationStatus]string{
	ApplicationStatusPending:    "New",
	ApplicationStatusInProgress: "In progress",
	ApplicationStatusApproved:   "Resolved",
	ApplicationStatusRejected:   "Rejected",
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInProgress,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	if label, ok := applicationStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type CommentSortOrder string

const (
	CommentSortNewest CommentSortOrder = "newest"
	CommentSortOldest CommentSortOrder = "oldest"
)

// Principal is the authenticated identity acting on a request. It is passed
// explicitly through service calls rather than read from ambient state.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
