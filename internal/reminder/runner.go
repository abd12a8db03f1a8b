package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/cache"
	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/pkg/logger"
	"github.com/GaiKT/rentflow/pkg/mail"
	"github.com/GaiKT/rentflow/pkg/metrics"
)

// ErrRunInProgress is returned when another reminder sweep holds the run lock.
var ErrRunInProgress = errors.New("reminder: run already in progress")

const (
	runLockKey = "reminder:run"
	runLockTTL = 10 * time.Minute

	insertBatchSize = 100
)

// RunStats summarises a completed reminder sweep.
type RunStats struct {
	ContractsScanned      int `json:"contracts_scanned"`
	InvoicesScanned       int `json:"invoices_scanned"`
	NotificationsCreated  int `json:"notifications_created"`
	InvoicesMarkedOverdue int `json:"invoices_marked_overdue"`
}

// Runner loads the contract and invoice snapshot, evaluates it and persists
// the outcome. Evaluation itself stays pure; all I/O lives here.
type Runner struct {
	db     *gorm.DB
	hub    *notifications.Hub
	lock   *cache.Lock
	mailer mail.Mailer
	now    func() time.Time
	log    *zap.Logger
}

// RunnerOption customises runner construction.
type RunnerOption func(*Runner)

// WithHub attaches a websocket hub that receives created notifications.
func WithHub(hub *notifications.Hub) RunnerOption {
	return func(r *Runner) {
		r.hub = hub
	}
}

// WithRunLock serialises overlapping sweeps through a cache-backed lock.
func WithRunLock(store cache.Store) RunnerOption {
	return func(r *Runner) {
		if store == nil {
			return
		}
		lock, err := cache.NewLock(store, runLockKey, runLockTTL)
		if err != nil {
			return
		}
		r.lock = lock
	}
}

// WithMailer enables the per-owner email digest after each sweep.
func WithMailer(mailer mail.Mailer) RunnerOption {
	return func(r *Runner) {
		r.mailer = mailer
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a reminder runner bound to the supplied database.
func NewRunner(db *gorm.DB, opts ...RunnerOption) (*Runner, error) {
	if db == nil {
		return nil, errors.New("reminder: database handle is required")
	}

	runner := &Runner{
		db:  db,
		now: time.Now,
		log: logger.WithModule("reminder"),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Run executes one reminder sweep: snapshot, evaluate, persist, broadcast.
// It returns ErrRunInProgress when a concurrent sweep holds the run lock.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var stats RunStats

	owner := uuid.NewString()
	if r.lock != nil {
		if err := r.lock.Acquire(ctx, owner); err != nil {
			if errors.Is(err, cache.ErrLockHeld) {
				metrics.ReminderRuns.WithLabelValues("skipped").Inc()
				return stats, ErrRunInProgress
			}
			metrics.ReminderRuns.WithLabelValues("error").Inc()
			return stats, fmt.Errorf("reminder: acquire run lock: %w", err)
		}
		defer func() {
			if err := r.lock.Release(context.Background(), owner); err != nil {
				r.log.Warn("failed to release run lock", zap.Error(err))
			}
		}()
	}

	now := r.now()

	var contracts []models.Contract
	if err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.ContractActive).
		Find(&contracts).Error; err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return stats, fmt.Errorf("reminder: load active contracts: %w", err)
	}

	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.InvoicePending).
		Find(&invoices).Error; err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return stats, fmt.Errorf("reminder: load pending invoices: %w", err)
	}

	stats.ContractsScanned = len(contracts)
	stats.InvoicesScanned = len(invoices)

	result := Evaluate(now, contracts, invoices)

	var transitioned int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(result.Notifications) > 0 {
			if err := tx.CreateInBatches(&result.Notifications, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert notifications: %w", err)
			}
		}

		if len(result.OverdueInvoiceIDs) > 0 {
			// Filtering on PENDING keeps the transition idempotent when a
			// concurrent payment already changed the status.
			res := tx.Model(&models.Invoice{}).
				Where("id IN ? AND status = ?", result.OverdueInvoiceIDs, models.InvoicePending).
				Update("status", models.InvoiceOverdue)
			if res.Error != nil {
				return fmt.Errorf("mark invoices overdue: %w", res.Error)
			}
			transitioned = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return stats, fmt.Errorf("reminder: persist run: %w", err)
	}

	stats.NotificationsCreated = len(result.Notifications)
	stats.InvoicesMarkedOverdue = int(transitioned)

	metrics.ReminderRuns.WithLabelValues("success").Inc()
	metrics.OverdueTransitions.Add(float64(transitioned))
	for _, notice := range result.Notifications {
		metrics.NotificationsCreated.WithLabelValues(notice.Type).Inc()
	}

	r.broadcast(result.Notifications)
	r.sendDigest(ctx, result.Notifications)

	r.log.Info("reminder sweep completed",
		zap.Int("contracts_scanned", stats.ContractsScanned),
		zap.Int("invoices_scanned", stats.InvoicesScanned),
		zap.Int("notifications_created", stats.NotificationsCreated),
		zap.Int("invoices_marked_overdue", stats.InvoicesMarkedOverdue))

	return stats, nil
}

func (r *Runner) broadcast(notices []models.Notification) {
	if r.hub == nil {
		return
	}
	for i := range notices {
		r.hub.Broadcast(notices[i].UserID, notifications.Event{
			Event:          "notification.created",
			Notification:   notices[i],
			NotificationID: notices[i].ID,
		})
	}
}

func (r *Runner) sendDigest(ctx context.Context, notices []models.Notification) {
	if r.mailer == nil || len(notices) == 0 {
		return
	}

	byUser := make(map[string][]models.Notification)
	for _, notice := range notices {
		byUser[notice.UserID] = append(byUser[notice.UserID], notice)
	}

	for userID, userNotices := range byUser {
		var user models.User
		if err := r.db.WithContext(ctx).Select("id", "email").Take(&user, "id = ?", userID).Error; err != nil {
			r.log.Warn("digest recipient lookup failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		if user.Email == "" {
			continue
		}

		body := digestBody(userNotices)
		msg := mail.Message{
			To:      []string{user.Email},
			Subject: fmt.Sprintf("สรุปการแจ้งเตือน %d รายการ", len(userNotices)),
			Body:    body,
		}
		if err := r.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
			r.log.Warn("digest delivery failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

func digestBody(notices []models.Notification) string {
	body := ""
	for _, notice := range notices {
		body += fmt.Sprintf("- [%s] %s: %s\r\n", notice.Type, notice.Title, notice.Message)
	}
	return body
}
