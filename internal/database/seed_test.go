package database

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/security"
)

func newDBForTest(t *testing.T) *gorm.DB {
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
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedBootstrapAdminIsIdempotent(t *testing.T) {
	db := newDBForTest(t)

	report, err := SeedBootstrapAdmin(db, "Ops@Example.com", "Bootstrap#Pass123")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !report.CreatedAdmin || report.Noop {
		t.Fatalf("expected admin creation, got %+v", report)
	}

	var admin domain.Account
	if err := db.Where("email = ?", "ops@example.com").First(&admin).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if admin.Role != domain.RoleAdmin || admin.Status != domain.StatusActive || !admin.IsVerified {
		t.Fatalf("unexpected admin account: %+v", admin)
	}
	if ok, err := security.VerifyPassword(admin.PasswordHash, "Bootstrap#Pass123"); err != nil || !ok {
		t.Fatalf("expected password to verify: ok=%v err=%v", ok, err)
	}

	report, err = SeedBootstrapAdmin(db, "ops@example.com", "Bootstrap#Pass123")
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if report.CreatedAdmin || !report.Noop {
		t.Fatalf("expected no-op reseed, got %+v", report)
	}

	var count int64
	db.Model(&domain.Account{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 account, got %d", count)
	}
}

func TestSeedSkipsWithoutEmail(t *testing.T) {
	db := newDBForTest(t)
	report, err := SeedBootstrapAdmin(db, "", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !report.Noop {
		t.Fatalf("expected no-op, got %+v", report)
	}
}

func TestSeedRequiresPasswordForNewAdmin(t *testing.T) {
	db := newDBForTest(t)
	if _, err := SeedBootstrapAdmin(db, "ops@example.com", ""); err == nil {
		t.Fatal("expected error without password")
	}
}
