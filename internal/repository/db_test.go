package repository

import (
	"fmt"
	"testing"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.Account{},
		&domain.OTPRecord{},
		&domain.CandidateProfile{},
		&domain.EmployerProfile{},
		&domain.PendingEdit{},
		&domain.ApprovalLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
