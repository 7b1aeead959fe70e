package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/pkg/logger"
)

const jobTimeout = 5 * time.Minute

// Scheduler runs the recurring maintenance jobs: refresh token cleanup, the
// overdue invoice sweep and overdue loan notices.
type Scheduler struct {
	cron    *cron.Cron
	auth    *services.AuthService
	finance *services.FinanceService
	library *services.LibraryService
}

// NewScheduler creates a scheduler. Call Start to begin running jobs.
func NewScheduler(
	auth *services.AuthService,
	finance *services.FinanceService,
	library *services.LibraryService,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		auth:    auth,
		finance: finance,
		library: library,
	}
}

// Start registers the jobs and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 1 * * *", s.sweepOverdueInvoices); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupExpiredTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 8 * * *", s.notifyOverdueLoans); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Job scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Job scheduler stopped")
}

func (s *Scheduler) sweepOverdueInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	marked, err := s.finance.SweepOverdue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Overdue invoice sweep failed")
		return
	}
	logger.Info().Int("marked", marked).Msg("Overdue invoice sweep complete")
}

func (s *Scheduler) cleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.auth.CleanupExpiredTokens(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Refresh token cleanup failed")
		return
	}
	logger.Info().Int64("removed", removed).Msg("Refresh token cleanup complete")
}

func (s *Scheduler) notifyOverdueLoans() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	notified, err := s.library.NotifyOverdue(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Overdue loan notices failed")
		return
	}
	logger.Info().Int("notified", notified).Msg("Overdue loan notices sent")
}
