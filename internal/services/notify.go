package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/pkg/metrics"
)

// emitNotification persists a notification inside the supplied transaction.
// The returned closure broadcasts it and must run after the transaction
// commits, so subscribers never see rows that were rolled back.
func emitNotification(ctx context.Context, tx *gorm.DB, hub *notifications.Hub, notice models.Notification) (func(), error) {
	notice.Severity = defaultIfEmpty(notice.Severity, "info")

	if err := tx.WithContext(ctx).Create(&notice).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notice.Type).Inc()

	return func() {
		if hub == nil {
			return
		}
		hub.Broadcast(notice.UserID, notifications.Event{
			Event:          "notification.created",
			Notification:   notice,
			NotificationID: notice.ID,
		})
	}, nil
}

func metadataJSON(fields map[string]any) datatypes.JSON {
	if fields == nil {
		return nil
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}
