package gtd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/terzigolu/gtd-go/pkg/models"
	"github.com/terzigolu/gtd-go/pkg/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService opens an isolated in-memory database, migrated with the
// full schema. One connection only, so transactions don't fight over the
// shared cache.
func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return NewService(db)
}

func newTestUser(t *testing.T, s *Service, username string) uuid.UUID {
	t.Helper()
	u := models.User{Username: username}
	if err := s.db.Create(&u).Error; err != nil {
		t.Fatalf("create test user %q: %v", username, err)
	}
	return u.ID
}

func countRows(t *testing.T, s *Service, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
