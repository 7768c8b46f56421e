// internal/models/comment.go
package models

import "github.com/google/uuid"

// Comment is a staff annotation attached to an Application. Its lifetime is
// bounded by the application's: deleting the application deletes its comments.
type Comment struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Comment       string    `json:"comment" gorm:"type:text;not null"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
