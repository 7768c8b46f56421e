// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is an inbound contact/lead submission subject to staff triage.
// Metadata holds request provenance (ip_address, user_agent, referer) captured
// at creation time and never mutated afterwards.
type Application struct {
	BaseModel
	Name       string            `json:"name" gorm:"size:255;not null"`
	Email      string            `json:"email" gorm:"size:255;not null;index"`
	Message    string            `json:"message" gorm:"type:text;not null"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ReviewedBy *uuid.UUID        `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt *time.Time        `json:"reviewed_at"`
	Metadata   JSONB             `json:"metadata" gorm:"type:jsonb"`

	// Populated by the listing query via a correlated subquery; not a column.
	CommentsCount int64 `json:"comments_count" gorm:"->;-:migration"`

	// Relationships
	Reviewer *User     `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:ApplicationID"`
}

// MetadataString returns a provenance value captured at submission time.
func (a *Application) MetadataString(key string) string {
	if a.Metadata == nil {
		return ""
	}
	if value, ok := a.Metadata[key].(string); ok {
		return value
	}
	return ""
}
