package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	"github.com/GaiKT/rentflow/internal/notifications"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

// CreateInvoiceInput describes the fields accepted when issuing an invoice.
type CreateInvoiceInput struct {
	RoomID      string
	ContractID  string
	Amount      float64
	DueDate     time.Time
	Description string
}

// PayInvoiceInput describes a payment registered against an invoice.
type PayInvoiceInput struct {
	PaymentMethod string
	PaidAt        time.Time
	Note          string
}

// InvoiceFilters captures listing filters.
type InvoiceFilters struct {
	Status  string
	RoomID  string
	DueFrom *time.Time
	DueTo   *time.Time
}

// ListInvoicesOptions controls pagination for invoice listing.
type ListInvoicesOptions struct {
	Page     int
	PageSize int
	Filters  InvoiceFilters
}

// InvoiceService manages the billing lifecycle: issue, pay, cancel. All
// operations are scoped to the owner of the invoice's room. The reminder job
// owns the PENDING to OVERDUE transition; this service never sets OVERDUE.
type InvoiceService struct {
	db       *gorm.DB
	hub      *notifications.Hub
	activity *ActivityService
	now      func() time.Time
}

// NewInvoiceService constructs an InvoiceService instance.
func NewInvoiceService(db *gorm.DB, hub *notifications.Hub, activity *ActivityService) (*InvoiceService, error) {
	if db == nil {
		return nil, errors.New("invoice service: db is required")
	}
	return &InvoiceService{db: db, hub: hub, activity: activity, now: time.Now}, nil
}

// Create issues a new invoice for one of the owner's rooms. The invoice
// number is generated as INV-YYYYMM-NNNN, sequential within the month.
func (s *InvoiceService) Create(ctx context.Context, ownerID string, input CreateInvoiceInput) (*models.Invoice, error) {
	ctx = ensureContext(ctx)

	if input.Amount <= 0 {
		return nil, apperrors.NewBadRequest("amount must be positive")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.NewBadRequest("due date is required")
	}

	var room models.Room
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", strings.TrimSpace(input.RoomID), strings.TrimSpace(ownerID)).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invoice service: load room: %w", err)
	}

	invoice := &models.Invoice{
		RoomID:      room.ID,
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		IssuedAt:    s.now().UTC(),
		Status:      models.InvoicePending,
		Description: strings.TrimSpace(input.Description),
	}

	if contractID := strings.TrimSpace(input.ContractID); contractID != "" {
		var contract models.Contract
		err := s.db.WithContext(ctx).
			Where("id = ? AND room_id = ?", contractID, room.ID).
			First(&contract).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("contract does not belong to the room")
		}
		if err != nil {
			return nil, fmt.Errorf("invoice service: load contract: %w", err)
		}
		invoice.ContractID = &contract.ID
	}

	var broadcast func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextDocumentNumber(tx, &models.Invoice{}, "INV", invoice.IssuedAt)
		if err != nil {
			return err
		}
		invoice.InvoiceNo = number

		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		notice := models.Notification{
			UserID:  ownerID,
			Type:    models.NotifyInvoiceCreated,
			Title:   "ออกใบแจ้งหนี้ใหม่",
			Message: fmt.Sprintf("ออกใบแจ้งหนี้ %s ห้อง %s จำนวน %.2f บาท กำหนดชำระ %s", invoice.InvoiceNo, room.Name, invoice.Amount, invoice.DueDate.Format("02/01/2006")),
			Metadata: metadataJSON(map[string]any{
				"invoice_id": invoice.ID,
				"invoice_no": invoice.InvoiceNo,
				"room_id":    room.ID,
			}),
		}
		broadcast, err = emitNotification(ctx, tx, s.hub, notice)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("invoice service: create invoice: %w", err)
	}
	broadcast()

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "invoice.create",
		Resource: invoice.ID,
		Result:   "success",
		Metadata: map[string]any{"invoice_no": invoice.InvoiceNo, "amount": invoice.Amount},
	})

	return s.GetByID(ctx, ownerID, invoice.ID)
}

// GetByID loads an invoice whose room belongs to the supplied owner.
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, invoiceID string) (*models.Invoice, error) {
	ctx = ensureContext(ctx)

	var invoice models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Contract").
		Preload("Receipt").
		Joins("JOIN rooms ON rooms.id = invoices.room_id").
		Where("invoices.id = ? AND rooms.owner_id = ?", strings.TrimSpace(invoiceID), strings.TrimSpace(ownerID)).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invoice service: load invoice: %w", err)
	}
	return &invoice, nil
}

// List returns the owner's invoices with optional status, room and due-date filters.
func (s *InvoiceService) List(ctx context.Context, ownerID string, opts ListInvoicesOptions) ([]models.Invoice, int64, error) {
	ctx = ensureContext(ctx)

	page, pageSize := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Joins("JOIN rooms ON rooms.id = invoices.room_id").
		Where("rooms.owner_id = ?", strings.TrimSpace(ownerID))

	filters := opts.Filters
	if status := strings.TrimSpace(filters.Status); status != "" {
		query = query.Where("invoices.status = ?", status)
	}
	if roomID := strings.TrimSpace(filters.RoomID); roomID != "" {
		query = query.Where("invoices.room_id = ?", roomID)
	}
	if filters.DueFrom != nil {
		query = query.Where("invoices.due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("invoices.due_date <= ?", *filters.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("invoice service: count invoices: %w", err)
	}

	var invoices []models.Invoice
	if err := query.
		Preload("Room").
		Preload("Receipt").
		Order("invoices.due_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&invoices).Error; err != nil {
		return nil, 0, fmt.Errorf("invoice service: list invoices: %w", err)
	}

	return invoices, total, nil
}

// Pay settles a pending or overdue invoice and issues the receipt.
func (s *InvoiceService) Pay(ctx context.Context, ownerID, invoiceID string, input PayInvoiceInput) (*models.Receipt, error) {
	ctx = ensureContext(ctx)

	method := strings.TrimSpace(input.PaymentMethod)
	if !models.ValidPaymentMethod(method) {
		return nil, apperrors.NewBadRequest("invalid payment method")
	}

	invoice, err := s.GetByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoicePending && invoice.Status != models.InvoiceOverdue {
		return nil, apperrors.NewConflict("invoice is not payable")
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now().UTC()
	}

	receipt := &models.Receipt{
		InvoiceID:     invoice.ID,
		Amount:        invoice.Amount,
		PaidAt:        paidAt,
		PaymentMethod: method,
		Note:          strings.TrimSpace(input.Note),
	}

	var broadcast func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Filtering on the payable statuses guards against a concurrent
		// payment or cancellation between load and update.
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status IN ?", invoice.ID, []string{models.InvoicePending, models.InvoiceOverdue}).
			Updates(map[string]any{
				"status":         models.InvoicePaid,
				"payment_method": method,
			})
		if res.Error != nil {
			return fmt.Errorf("mark invoice paid: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewConflict("invoice is not payable")
		}

		number, err := nextDocumentNumber(tx, &models.Receipt{}, "RCP", paidAt)
		if err != nil {
			return err
		}
		receipt.ReceiptNo = number

		if err := tx.Create(receipt).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewConflict("invoice already has a receipt")
			}
			return fmt.Errorf("create receipt: %w", err)
		}

		notice := models.Notification{
			UserID:  ownerID,
			Type:    models.NotifyPaymentReceived,
			Title:   "รับชำระเงินแล้ว",
			Message: fmt.Sprintf("รับชำระใบแจ้งหนี้ %s จำนวน %.2f บาท (%s)", invoice.InvoiceNo, receipt.Amount, models.PaymentMethodLabel(method).Thai),
			Metadata: metadataJSON(map[string]any{
				"invoice_id": invoice.ID,
				"receipt_id": receipt.ID,
				"receipt_no": receipt.ReceiptNo,
				"amount":     receipt.Amount,
			}),
		}
		broadcast, err = emitNotification(ctx, tx, s.hub, notice)
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, fmt.Errorf("invoice service: pay invoice: %w", err)
	}
	broadcast()

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "invoice.pay",
		Resource: invoice.ID,
		Result:   "success",
		Metadata: map[string]any{"receipt_no": receipt.ReceiptNo, "method": method},
	})

	return receipt, nil
}

// Cancel voids an unpaid invoice.
func (s *InvoiceService) Cancel(ctx context.Context, ownerID, invoiceID, reason string) (*models.Invoice, error) {
	ctx = ensureContext(ctx)

	invoice, err := s.GetByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoicePaid {
		return nil, apperrors.NewConflict("paid invoices cannot be cancelled")
	}
	if invoice.Status == models.InvoiceCancelled {
		return nil, apperrors.NewConflict("invoice is already cancelled")
	}

	var broadcast func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Update("status", models.InvoiceCancelled).Error; err != nil {
			return fmt.Errorf("cancel invoice: %w", err)
		}

		notice := models.Notification{
			UserID:   ownerID,
			Type:     models.NotifyInvoiceCancelled,
			Title:    "ยกเลิกใบแจ้งหนี้",
			Message:  fmt.Sprintf("ยกเลิกใบแจ้งหนี้ %s แล้ว", invoice.InvoiceNo),
			Severity: "warning",
			Metadata: metadataJSON(map[string]any{
				"invoice_id": invoice.ID,
				"invoice_no": invoice.InvoiceNo,
				"reason":     strings.TrimSpace(reason),
			}),
		}
		broadcast, err = emitNotification(ctx, tx, s.hub, notice)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("invoice service: cancel invoice: %w", err)
	}
	broadcast()

	recordActivity(s.activity, ctx, ActivityEntry{
		UserID:   &ownerID,
		Action:   "invoice.cancel",
		Resource: invoice.ID,
		Result:   "success",
		Metadata: map[string]any{"reason": strings.TrimSpace(reason)},
	})

	return s.GetByID(ctx, ownerID, invoiceID)
}

// nextDocumentNumber produces PREFIX-YYYYMM-NNNN numbers, sequential within
// the calendar month of at. Runs inside the caller's transaction so the count
// and insert see a consistent view.
func nextDocumentNumber(tx *gorm.DB, model any, prefix string, at time.Time) (string, error) {
	month := at.Format("200601")

	var count int64
	if err := tx.Model(model).
		Where("created_at >= ? AND created_at < ?",
			time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC),
			time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)).
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("count documents: %w", err)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, month, count+1), nil
}
