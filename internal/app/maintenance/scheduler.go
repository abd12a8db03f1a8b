package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/GaiKT/rentflow/internal/reminder"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/logger"
)

const (
	defaultRetentionDays = 30
	defaultReminderSpec  = "0 8 * * *"
	defaultReportSpec    = "0 9 1 * *"
	defaultCleanupSpec   = "@daily"
)

// Scheduler coordinates the recurring background jobs: the daily reminder
// sweep, notification retention, contract expiry and the monthly report.
type Scheduler struct {
	runner        *reminder.Runner
	reporter      *reminder.Reporter
	notifications *services.NotificationService
	contracts     *services.ContractService
	cachePurge    CachePurgeFunc

	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention int

	reminderSchedule string
	reportSchedule   string
	cleanupSchedule  string
}

// CachePurgeFunc removes expired cache rows, returning how many were deleted.
type CachePurgeFunc func(ctx context.Context, now time.Time) (int64, error)

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCachePurge registers a cache purge to run with the daily cleanup.
// The database-backed cache store needs this; Redis expires keys itself.
func WithCachePurge(purge CachePurgeFunc) Option {
	return func(s *Scheduler) {
		s.cachePurge = purge
	}
}

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetentionDays adjusts how long read notifications are retained.
func WithRetentionDays(days int) Option {
	return func(s *Scheduler) {
		if days > 0 {
			s.retention = days
		}
	}
}

// WithReminderSchedule overrides the cron specification for the reminder sweep.
func WithReminderSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.reminderSchedule = spec
		}
	}
}

// WithReportSchedule overrides the cron specification for the monthly report.
func WithReportSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.reportSchedule = spec
		}
	}
}

// WithCleanupSchedule overrides the cron specification for retention cleanup.
func WithCleanupSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.cleanupSchedule = spec
		}
	}
}

// NewScheduler constructs a Scheduler with sensible defaults. Any nil
// dependency results in the corresponding job being skipped.
func NewScheduler(runner *reminder.Runner, reporter *reminder.Reporter, notifications *services.NotificationService, contracts *services.ContractService, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:           runner,
		reporter:         reporter,
		notifications:    notifications,
		contracts:        contracts,
		now:              time.Now,
		retention:        defaultRetentionDays,
		reminderSchedule: defaultReminderSpec,
		reportSchedule:   defaultReportSpec,
		cleanupSchedule:  defaultCleanupSpec,
		log:              logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return s
}

// Start registers the jobs with the cron scheduler and launches it.
func (s *Scheduler) Start() error {
	if s.runner != nil {
		if _, err := s.cron.AddFunc(s.reminderSchedule, func() {
			if _, err := s.runner.Run(context.Background()); err != nil && !errors.Is(err, reminder.ErrRunInProgress) {
				s.log.Warn("reminder sweep failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if s.reporter != nil {
		if _, err := s.cron.AddFunc(s.reportSchedule, func() {
			if _, err := s.reporter.GenerateMonthly(context.Background()); err != nil {
				s.log.Warn("monthly report failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if s.notifications != nil || s.contracts != nil || s.cachePurge != nil {
		if _, err := s.cron.AddFunc(s.cleanupSchedule, func() {
			if err := s.cleanup(context.Background()); err != nil {
				s.log.Warn("retention cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes all configured jobs sequentially. Primarily used in tests.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if s.runner != nil {
		if _, err := s.runner.Run(ctx); err != nil && !errors.Is(err, reminder.ErrRunInProgress) {
			errs = multierr.Append(errs, err)
		}
	}

	if s.reporter != nil {
		if _, err := s.reporter.GenerateMonthly(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if err := s.cleanup(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

func (s *Scheduler) cleanup(ctx context.Context) error {
	var errs error

	if s.contracts != nil {
		expired, err := s.contracts.MarkExpired(ctx, s.now())
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if expired > 0 {
			s.log.Info("contracts marked expired", zap.Int64("count", expired))
		}
	}

	if s.notifications != nil && s.retention > 0 {
		retention := time.Duration(s.retention) * 24 * time.Hour
		removed, err := s.notifications.CleanupOlderThan(ctx, retention, s.now())
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			s.log.Info("notifications purged", zap.Int64("count", removed))
		}
	}

	if s.cachePurge != nil {
		purged, err := s.cachePurge(ctx, s.now())
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if purged > 0 {
			s.log.Info("expired cache entries purged", zap.Int64("count", purged))
		}
	}

	return errs
}
