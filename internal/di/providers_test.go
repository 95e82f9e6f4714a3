package di

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/database"
	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/service"
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
	return db
}

func TestProvideHTTPServerTimeouts(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9090"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", srv.Addr)
	}
	if srv.ReadTimeout != 10*time.Second || srv.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected read/write timeouts: %v/%v", srv.ReadTimeout, srv.WriteTimeout)
	}
	if srv.IdleTimeout != 60*time.Second || srv.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("unexpected idle/header timeouts: %v/%v", srv.IdleTimeout, srv.ReadHeaderTimeout)
	}
}

func TestProvideRedisClientDisabled(t *testing.T) {
	cfg := &config.Config{RateLimitRedisEnabled: false, RedisAddr: "localhost:6379"}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if client := provideRedisClient(cfg, discard); client != nil {
		t.Fatalf("expected nil client when redis rate limiting is disabled, got %T", client)
	}
}

func TestProvideRateLimitersFallBackToLocal(t *testing.T) {
	cfg := &config.Config{
		RateLimitRedisEnabled: false,
		APIRateLimitPerMin:    120,
		AuthRateLimitPerMin:   30,
	}
	if fn := provideGlobalRateLimiter(cfg, nil); fn == nil {
		t.Fatal("expected local global limiter middleware")
	}
	if fn := provideAuthRateLimiter(cfg, nil); fn == nil {
		t.Fatal("expected local auth limiter middleware")
	}
}

func TestProvideWelcomeMailerReusesOTPMailer(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	dev := service.NewDevMailer(discard)

	wm := provideWelcomeMailer(dev, discard)
	if wm != service.WelcomeMailer(dev) {
		t.Fatal("expected welcome mailer to reuse the dev mailer instance")
	}
}

func TestMigrationRunnerRun(t *testing.T) {
	db := newDBForTest(t)
	cfg := &config.Config{
		BootstrapAdminEmail:    "ops@example.com",
		BootstrapAdminPassword: "Bootstrap#Pass123",
	}

	runner := NewMigrationRunner(cfg, db)
	if err := runner.Run(); err != nil {
		t.Fatalf("run migration: %v", err)
	}

	var count int64
	if err := db.Model(&domain.Account{}).Where("email = ?", "ops@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected bootstrap admin to exist, got %d rows", count)
	}

	// Re-running must stay idempotent.
	if err := runner.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestProvideReadinessProbeRunnerSkipsRedisWhenDisabled(t *testing.T) {
	db := newDBForTest(t)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		ReadinessProbeTimeout: time.Second,
		RateLimitRedisEnabled: false,
	}
	if runner := provideReadinessProbeRunner(cfg, db, nil); runner == nil {
		t.Fatal("expected probe runner")
	}
}
