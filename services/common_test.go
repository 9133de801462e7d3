package services

import (
	"testing"

	"checkin/db"
	"checkin/models"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB инициализирует тестовую базу данных SQLite в памяти
func setupTestDB(t *testing.T) *db.Manager {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// У in-memory SQLite каждое соединение пула - отдельная база,
	// поэтому пул ограничен одним соединением
	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	manager := db.NewManager(orm)
	if err := manager.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return manager
}

// createTestUser создает пользователя напрямую в БД, минуя сервис
func createTestUser(t *testing.T, manager *db.Manager, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@" + gofakeit.DomainName(),
		Password: "not-a-real-hash",
	}
	if err := manager.Write(t.Context()).Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}
