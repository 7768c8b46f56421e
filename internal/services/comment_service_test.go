// internal/services/comment_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdesk/crm-backend/internal/models"
	"github.com/appdesk/crm-backend/internal/utils"
)

func commentParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, PerPage: utils.DefaultPerPage, SortDirection: "desc"}
}

func TestCommentListSortOrders(t *testing.T) {
	db := newTestDB(t)
	service := NewCommentService(db)
	author := createTestUser(t, db, "Staff", "staff@x.com")
	application := createTestApplication(t, db, "Bob", "bob@x.com", time.Now())

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		comment := &models.Comment{
			ApplicationID: application.ID,
			UserID:        author.ID,
			Comment:       body,
		}
		comment.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(comment).Error)
	}

	newest, total, err := service.List(application.ID, models.CommentSortNewest, commentParams())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, newest, 3)
	assert.Equal(t, "third", newest[0].Comment)
	assert.Equal(t, "first", newest[2].Comment)
	require.NotNil(t, newest[0].User)
	assert.Equal(t, "Staff", newest[0].User.Name)

	oldest, _, err := service.List(application.ID, models.CommentSortOldest, commentParams())
	require.NoError(t, err)
	assert.Equal(t, "first", oldest[0].Comment)
	assert.Equal(t, "third", oldest[2].Comment)
}

func TestCommentListApplicationNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewCommentService(db)

	_, _, err := service.List(uuid.New(), models.CommentSortNewest, commentParams())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestCommentCreate(t *testing.T) {
	db := newTestDB(t)
	service := NewCommentService(db)
	author := createTestUser(t, db, "Staff", "staff@x.com")
	application := createTestApplication(t, db, "Bob", "bob@x.com", time.Now())

	comment, err := service.Create(application.ID, author.Principal(), "reached out by phone")
	require.NoError(t, err)

	assert.Equal(t, application.ID, comment.ApplicationID)
	assert.Equal(t, author.ID, comment.UserID)
	require.NotNil(t, comment.User)
	assert.Equal(t, "Staff", comment.User.Name)
}

func TestCommentCreateValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewCommentService(db)
	author := createTestUser(t, db, "Staff", "staff@x.com")
	application := createTestApplication(t, db, "Bob", "bob@x.com", time.Now())

	_, err := service.Create(application.ID, author.Principal(), "   \t\n")
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = service.Create(uuid.New(), author.Principal(), "orphan")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

// Comment creation must not be able to interleave with an application delete
// in a way that leaves a comment pointing at a missing application.
func TestCommentCreateRacingApplicationDelete(t *testing.T) {
	db := newTestDB(t)
	commentService := NewCommentService(db)
	applicationService := NewApplicationService(db)
	author := createTestUser(t, db, "Staff", "staff@x.com")
	application := createTestApplication(t, db, "Bob", "bob@x.com", time.Now())

	deleted := make(chan struct{})
	go func() {
		defer close(deleted)
		assert.NoError(t, applicationService.Delete(application.ID))
	}()

	for i := 0; i < 25; i++ {
		if _, err := commentService.Create(application.ID, author.Principal(), "racing"); err != nil {
			assert.ErrorIs(t, err, ErrApplicationNotFound)
		}
	}
	<-deleted

	// Any comment that landed before the delete was cascaded away with it.
	var orphans int64
	require.NoError(t, db.Model(&models.Comment{}).
		Where("application_id = ?", application.ID).
		Count(&orphans).Error)
	assert.Zero(t, orphans)

	_, err := commentService.Create(application.ID, author.Principal(), "too late")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestCommentDeleteOwnership(t *testing.T) {
	db := newTestDB(t)
	service := NewCommentService(db)
	alice := createTestUser(t, db, "Alice", "alice@x.com")
	mallory := createTestUser(t, db, "Mallory", "mallory@x.com")
	application := createTestApplication(t, db, "Bob", "bob@x.com", time.Now())

	comment, err := service.Create(application.ID, alice.Principal(), "mine")
	require.NoError(t, err)

	err = service.Delete(comment.ID, mallory.Principal())
	assert.ErrorIs(t, err, ErrCommentForbidden)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, service.Delete(comment.ID, alice.Principal()))

	err = service.Delete(comment.ID, alice.Principal())
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
