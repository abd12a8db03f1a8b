package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GaiKT/rentflow/internal/reminder"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// ReminderHandler exposes a manual trigger for the reminder sweep. The
// scheduler runs the same sweep daily; this endpoint exists for operators who
// do not want to wait.
type ReminderHandler struct {
	runner   *reminder.Runner
	reporter *reminder.Reporter
}

// NewReminderHandler constructs a reminder handler.
func NewReminderHandler(runner *reminder.Runner, reporter *reminder.Reporter) *ReminderHandler {
	return &ReminderHandler{runner: runner, reporter: reporter}
}

// POST /api/reminders/run
func (h *ReminderHandler) Run(c *gin.Context) {
	if currentUserID(c) == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	stats, err := h.runner.Run(requestContext(c))
	if err != nil {
		if errors.Is(err, reminder.ErrRunInProgress) {
			response.Error(c, apperrors.NewConflict("a reminder run is already in progress"))
			return
		}
		response.Error(c, apperrors.Wrap(err, "reminder run failed"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"contracts_scanned":       stats.ContractsScanned,
		"invoices_scanned":        stats.InvoicesScanned,
		"notifications_created":   stats.NotificationsCreated,
		"invoices_marked_overdue": stats.InvoicesMarkedOverdue,
	})
}

// POST /api/reminders/report
func (h *ReminderHandler) GenerateReport(c *gin.Context) {
	if currentUserID(c) == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	if h.reporter == nil {
		response.Error(c, apperrors.ErrInternalServer)
		return
	}

	generated, err := h.reporter.GenerateMonthly(requestContext(c))
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "monthly report generation failed"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reports_generated": generated})
}
