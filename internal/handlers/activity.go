package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// ActivityHandler exposes the owner activity feed.
type ActivityHandler struct {
	activity *services.ActivityService
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(db *gorm.DB) (*ActivityHandler, error) {
	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, err
	}
	return &ActivityHandler{activity: activity}, nil
}

// GET /api/activity
func (h *ActivityHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 25)

	entries, total, err := h.activity.List(requestContext(c), services.ActivityListOptions{
		Page:     page,
		PageSize: pageSize,
		Filters: services.ActivityFilters{
			UserID:   userID,
			Action:   strings.TrimSpace(c.Query("action")),
			Result:   strings.TrimSpace(c.Query("result")),
			Resource: strings.TrimSpace(c.Query("resource")),
			Since:    parseDateQuery(c, "since"),
			Until:    parseDateQuery(c, "until"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, entries, pageMeta(page, pageSize, total))
}
