package database

import (
	"context"
	"time"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/observability"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "migrate", time.Since(start))
	}()

	err := db.AutoMigrate(
		&domain.Account{},
		&domain.OTPRecord{},
		&domain.CandidateProfile{},
		&domain.EmployerProfile{},
		&domain.PendingEdit{},
		&domain.ApprovalLog{},
	)
	if err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "success")
	return nil
}
