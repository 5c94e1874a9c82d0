package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/config"
)

type cleaner interface {
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

// CleanupScheduler runs retention cleanup on a cron schedule.
type CleanupScheduler struct {
	cleaner  cleaner
	schedule string
	enabled  bool
	timeout  time.Duration
}

func NewCleanupScheduler(cfg *config.Config, svc *Service) *CleanupScheduler {
	return &CleanupScheduler{
		cleaner:  svc,
		schedule: cfg.Notification.CleanupCron,
		enabled:  cfg.Notification.CleanupEnabled,
		timeout:  5 * time.Minute,
	}
}

// Run blocks until ctx is done.
func (s *CleanupScheduler) Run(ctx context.Context) error {
	if !s.enabled {
		log.Info().Msg("notification cleanup disabled")
		<-ctx.Done()
		return nil
	}

	ctab := crontab.New()
	if err := ctab.AddJob(s.schedule, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.schedule, err)
	}
	log.Info().Str("schedule", s.schedule).Msg("notification cleanup scheduled")

	<-ctx.Done()
	ctab.Shutdown()
	return nil
}

func (s *CleanupScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.cleaner.Cleanup(runCtx, 0); err != nil {
		log.Error().Err(err).Msg("notification cleanup failed")
	}
}
