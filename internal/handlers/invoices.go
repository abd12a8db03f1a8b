package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// InvoiceHandler exposes the billing lifecycle over HTTP.
type InvoiceHandler struct {
	invoices *services.InvoiceService
}

// NewInvoiceHandler constructs an invoice handler.
func NewInvoiceHandler(db *gorm.DB, hub *notifications.Hub, activity *services.ActivityService) (*InvoiceHandler, error) {
	invoices, err := services.NewInvoiceService(db, hub, activity)
	if err != nil {
		return nil, err
	}
	return &InvoiceHandler{invoices: invoices}, nil
}

type createInvoiceRequest struct {
	RoomID      string    `json:"room_id" validate:"required"`
	ContractID  string    `json:"contract_id"`
	Amount      float64   `json:"amount" validate:"gt=0"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Description string    `json:"description"`
}

type payInvoiceRequest struct {
	PaymentMethod string     `json:"payment_method" validate:"required"`
	PaidAt        *time.Time `json:"paid_at"`
	Note          string     `json:"note"`
}

type cancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// POST /api/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	invoice, err := h.invoices.Create(requestContext(c), userID, services.CreateInvoiceInput{
		RoomID:      req.RoomID,
		ContractID:  req.ContractID,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, invoice)
}

// GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 25)

	invoices, total, err := h.invoices.List(requestContext(c), userID, services.ListInvoicesOptions{
		Page:     page,
		PageSize: pageSize,
		Filters: services.InvoiceFilters{
			Status:  strings.TrimSpace(c.Query("status")),
			RoomID:  strings.TrimSpace(c.Query("room_id")),
			DueFrom: parseDateQuery(c, "due_from"),
			DueTo:   parseDateQuery(c, "due_to"),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, invoices, pageMeta(page, pageSize, total))
}

// GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	invoice, err := h.invoices.GetByID(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, invoice)
}

// POST /api/invoices/:id/pay
func (h *InvoiceHandler) Pay(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req payInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.PayInvoiceInput{
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}
	if req.PaidAt != nil {
		input.PaidAt = *req.PaidAt
	}

	receipt, err := h.invoices.Pay(requestContext(c), userID, strings.TrimSpace(c.Param("id")), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, receipt)
}

// POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req cancelInvoiceRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}

	invoice, err := h.invoices.Cancel(requestContext(c), userID, strings.TrimSpace(c.Param("id")), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, invoice)
}
