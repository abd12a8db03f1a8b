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

// ReceiptHandler exposes read access to payment receipts.
type ReceiptHandler struct {
	receipts *services.ReceiptService
}

// NewReceiptHandler constructs a receipt handler.
func NewReceiptHandler(db *gorm.DB) (*ReceiptHandler, error) {
	receipts, err := services.NewReceiptService(db)
	if err != nil {
		return nil, err
	}
	return &ReceiptHandler{receipts: receipts}, nil
}

// GET /api/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 25)

	receipts, total, err := h.receipts.List(requestContext(c), userID, services.ListReceiptsOptions{
		Page:     page,
		PageSize: pageSize,
		Filters: services.ReceiptFilters{
			RoomID:   strings.TrimSpace(c.Query("room_id")),
			PaidFrom: parseDateQuery(c, "paid_from"),
			PaidTo:   parseDateQuery(c, "paid_to"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, receipts, pageMeta(page, pageSize, total))
}

// GET /api/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	receipt, err := h.receipts.GetByID(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, receipt)
}
