// internal/services/main_test.go
package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appdesk/crm-backend/internal/models"
)

// newTestDB opens an isolated in-memory sqlite store. A single connection is
// enforced so the pool cannot silently open a second, empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Application{}, &models.Comment{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestApplication(t *testing.T, db *gorm.DB, name, email string, createdAt time.Time) *models.Application {
	t.Helper()

	application := &models.Application{
		Name:    name,
		Email:   email,
		Message: "please get in touch",
		Status:  models.ApplicationStatusPending,
	}
	application.CreatedAt = createdAt
	require.NoError(t, db.Create(application).Error)
	return application
}
