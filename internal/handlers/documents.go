package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/documents"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/errors"
	"github.com/GaiKT/rentflow/pkg/response"
)

// DocumentHandler renders printable invoice and receipt documents.
type DocumentHandler struct {
	invoices *services.InvoiceService
	receipts *services.ReceiptService
	users    *services.UserService
	renderer *documents.Renderer
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(db *gorm.DB, renderer *documents.Renderer) (*DocumentHandler, error) {
	invoices, err := services.NewInvoiceService(db, nil, nil)
	if err != nil {
		return nil, err
	}
	receipts, err := services.NewReceiptService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db, nil)
	if err != nil {
		return nil, err
	}
	return &DocumentHandler{
		invoices: invoices,
		receipts: receipts,
		users:    users,
		renderer: renderer,
	}, nil
}

// GET /api/invoices/:id/document
func (h *DocumentHandler) InvoiceDocument(c *gin.Context) {
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

	owner, err := h.users.GetByID(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	html, err := h.renderer.RenderInvoice(invoice, owner)
	if err != nil {
		response.Error(c, errors.Wrap(err, "failed to render invoice document"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// GET /api/receipts/:id/document
func (h *DocumentHandler) ReceiptDocument(c *gin.Context) {
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

	html, err := h.renderer.RenderReceipt(receipt)
	if err != nil {
		response.Error(c, errors.Wrap(err, "failed to render receipt document"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
