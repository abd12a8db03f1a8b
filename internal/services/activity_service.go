package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
)

// ActivityEntry captures a single activity event to persist.
type ActivityEntry struct {
	UserID    *string
	Action    string
	Resource  string
	Result    string
	IPAddress string
	Metadata  map[string]any
}

// ActivityFilters encapsulates optional filters when querying the activity feed.
type ActivityFilters struct {
	UserID   string
	Action   string
	Result   string
	Resource string
	Since    *time.Time
	Until    *time.Time
}

// ActivityListOptions controls pagination and filtering for activity queries.
type ActivityListOptions struct {
	Page     int
	PageSize int
	Filters  ActivityFilters
}

// ActivityService persists and retrieves the owner activity feed.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService constructs an ActivityService using the provided database handle.
func NewActivityService(db *gorm.DB) (*ActivityService, error) {
	if db == nil {
		return nil, errors.New("activity service: db is required")
	}
	return &ActivityService{db: db}, nil
}

// Log stores an activity entry, marshalling metadata into JSON form.
func (s *ActivityService) Log(ctx context.Context, entry ActivityEntry) error {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(entry.Action) == "" {
		return errors.New("activity service: action is required")
	}
	if strings.TrimSpace(entry.Result) == "" {
		return errors.New("activity service: result is required")
	}

	payload := ""
	if entry.Metadata != nil {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("activity service: marshal metadata: %w", err)
		}
		payload = string(encoded)
	}

	log := models.ActivityLog{
		Action:    strings.TrimSpace(entry.Action),
		Resource:  strings.TrimSpace(entry.Resource),
		Result:    strings.TrimSpace(entry.Result),
		IPAddress: strings.TrimSpace(entry.IPAddress),
		Metadata:  payload,
	}

	if entry.UserID != nil && strings.TrimSpace(*entry.UserID) != "" {
		id := strings.TrimSpace(*entry.UserID)
		log.UserID = &id
	}

	return s.db.WithContext(ctx).Create(&log).Error
}

// List returns paginated activity entries ordered by creation time descending.
func (s *ActivityService) List(ctx context.Context, opts ActivityListOptions) ([]models.ActivityLog, int64, error) {
	ctx = ensureContext(ctx)

	page, pageSize := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})

	filters := opts.Filters
	if strings.TrimSpace(filters.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(filters.UserID))
	}
	if strings.TrimSpace(filters.Action) != "" {
		query = query.Where("action = ?", strings.TrimSpace(filters.Action))
	}
	if strings.TrimSpace(filters.Result) != "" {
		query = query.Where("result = ?", strings.TrimSpace(filters.Result))
	}
	if strings.TrimSpace(filters.Resource) != "" {
		query = query.Where("resource = ?", strings.TrimSpace(filters.Resource))
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}
	if filters.Until != nil {
		query = query.Where("created_at <= ?", *filters.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("activity service: count entries: %w", err)
	}

	var rows []models.ActivityLog
	if err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("activity service: list entries: %w", err)
	}

	return rows, total, nil
}

// recordActivity logs the supplied entry while tolerating logging failures.
func recordActivity(activity *ActivityService, ctx context.Context, entry ActivityEntry) {
	if activity == nil {
		return
	}
	_ = activity.Log(ctx, entry)
}
