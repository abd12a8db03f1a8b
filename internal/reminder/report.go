package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/pkg/logger"
	"github.com/GaiKT/rentflow/pkg/metrics"
)

// Reporter produces the per-owner monthly summary notification: how many
// invoices were issued and how much was collected in the current calendar
// month.
type Reporter struct {
	db  *gorm.DB
	hub *notifications.Hub
	now func() time.Time
	log *zap.Logger
}

// ReporterOption customises reporter construction.
type ReporterOption func(*Reporter)

// WithReporterHub attaches a websocket hub for report delivery.
func WithReporterHub(hub *notifications.Hub) ReporterOption {
	return func(r *Reporter) {
		r.hub = hub
	}
}

// WithReporterClock overrides the time source, primarily for tests.
func WithReporterClock(now func() time.Time) ReporterOption {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReporter constructs a monthly report generator.
func NewReporter(db *gorm.DB, opts ...ReporterOption) (*Reporter, error) {
	if db == nil {
		return nil, errors.New("reminder: database handle is required")
	}

	reporter := &Reporter{
		db:  db,
		now: time.Now,
		log: logger.WithModule("reminder"),
	}
	for _, opt := range opts {
		opt(reporter)
	}
	return reporter, nil
}

type monthlyTotals struct {
	Total float64
	Count int64
}

// GenerateMonthly creates one MONTHLY_REPORT notification per active owner
// covering the calendar month containing now. It returns the number of
// reports created.
func (r *Reporter) GenerateMonthly(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now := r.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var owners []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "email").
		Where("is_active = ?", true).
		Find(&owners).Error; err != nil {
		return 0, fmt.Errorf("reminder: load owners: %w", err)
	}

	created := 0
	for _, owner := range owners {
		var issued monthlyTotals
		err := r.db.WithContext(ctx).Model(&models.Invoice{}).
			Joins("JOIN rooms ON rooms.id = invoices.room_id").
			Where("rooms.owner_id = ?", owner.ID).
			Where("invoices.issued_at >= ? AND invoices.issued_at < ?", monthStart, monthEnd).
			Where("invoices.status <> ?", models.InvoiceCancelled).
			Select("COALESCE(SUM(invoices.amount), 0) AS total, COUNT(*) AS count").
			Scan(&issued).Error
		if err != nil {
			return created, fmt.Errorf("reminder: aggregate invoices for owner %s: %w", owner.ID, err)
		}

		var collected monthlyTotals
		err = r.db.WithContext(ctx).Model(&models.Receipt{}).
			Joins("JOIN invoices ON invoices.id = receipts.invoice_id").
			Joins("JOIN rooms ON rooms.id = invoices.room_id").
			Where("rooms.owner_id = ?", owner.ID).
			Where("receipts.paid_at >= ? AND receipts.paid_at < ?", monthStart, monthEnd).
			Select("COALESCE(SUM(receipts.amount), 0) AS total, COUNT(*) AS count").
			Scan(&collected).Error
		if err != nil {
			return created, fmt.Errorf("reminder: aggregate receipts for owner %s: %w", owner.ID, err)
		}

		notice := monthlyReportNotice(owner.ID, monthStart, issued, collected)
		if err := r.db.WithContext(ctx).Create(&notice).Error; err != nil {
			return created, fmt.Errorf("reminder: create monthly report for owner %s: %w", owner.ID, err)
		}
		created++

		metrics.NotificationsCreated.WithLabelValues(models.NotifyMonthlyReport).Inc()
		if r.hub != nil {
			r.hub.Broadcast(owner.ID, notifications.Event{
				Event:          "notification.created",
				Notification:   notice,
				NotificationID: notice.ID,
			})
		}
	}

	r.log.Info("monthly reports generated",
		zap.Int("owners", len(owners)),
		zap.Int("reports", created),
		zap.String("month", monthStart.Format("2006-01")))

	return created, nil
}

func monthlyReportNotice(ownerID string, monthStart time.Time, issued, collected monthlyTotals) models.Notification {
	month := monthStart.Format("01/2006")
	message := fmt.Sprintf("รายงานประจำเดือน %s: ออกใบแจ้งหนี้ %d ฉบับ รวม %.2f บาท รับชำระแล้ว %d รายการ รวม %.2f บาท",
		month, issued.Count, issued.Total, collected.Count, collected.Total)

	payload, _ := json.Marshal(map[string]interface{}{
		"month":           monthStart.Format("2006-01"),
		"invoices_issued": issued.Count,
		"invoiced_total":  issued.Total,
		"receipts_paid":   collected.Count,
		"collected_total": collected.Total,
	})

	return models.Notification{
		UserID:   ownerID,
		Type:     models.NotifyMonthlyReport,
		Title:    "รายงานสรุปประจำเดือน " + month,
		Message:  message,
		Severity: "info",
		Metadata: datatypes.JSON(payload),
	}
}
