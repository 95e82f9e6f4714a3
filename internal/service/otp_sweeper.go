package service

import (
	"context"
	"log/slog"
	"time"
)

// OTPSweeper periodically deletes expired passcode records. Purely
// housekeeping; verification enforces expiry whether or not a sweep ran.
type OTPSweeper struct {
	otpSvc   *OTPService
	interval time.Duration
	logger   *slog.Logger
}

func NewOTPSweeper(otpSvc *OTPService, interval time.Duration, logger *slog.Logger) *OTPSweeper {
	return &OTPSweeper{otpSvc: otpSvc, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *OTPSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			deleted, err := s.otpSvc.PurgeExpired()
			if err != nil {
				s.logger.Warn("otp sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				s.logger.Debug("otp sweep completed", "deleted", deleted)
			}
		}
	}
}
