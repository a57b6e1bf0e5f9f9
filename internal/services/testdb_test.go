package services

import (
	"testing"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
// MaxOpenConns is pinned to 1 so every query sees the same in-memory
// instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Status{},
		&models.Task{},
		&models.TaskComment{},
		&models.AccessRequest{},
		&models.Notification{},
		&models.RefreshToken{},
		&models.SystemConfig{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string, canCreate, canApprove bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Name:               name,
		Email:              email,
		Password:           hash,
		Role:               "user",
		CanCreateProjects:  canCreate,
		CanApproveRequests: canApprove,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

// createTestProject builds a project through the service so the leader
// membership row and default columns exist, matching production state.
func createTestProject(t *testing.T, db *gorm.DB, title string, ownerID uint) *models.Project {
	t.Helper()

	project, err := NewProjectService(db).Create(&CreateProjectRequest{Title: title}, ownerID)
	if err != nil {
		t.Fatalf("create project %s: %v", title, err)
	}
	return project
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
