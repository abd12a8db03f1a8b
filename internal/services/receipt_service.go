package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
	apperrors "github.com/GaiKT/rentflow/pkg/errors"
)

// ReceiptFilters captures listing filters.
type ReceiptFilters struct {
	RoomID   string
	PaidFrom *time.Time
	PaidTo   *time.Time
}

// ListReceiptsOptions controls pagination for receipt listing.
type ListReceiptsOptions struct {
	Page     int
	PageSize int
	Filters  ReceiptFilters
}

// ReceiptService exposes read access to receipts. Receipts are created only
// by InvoiceService.Pay, so there is no create or update surface here.
type ReceiptService struct {
	db *gorm.DB
}

// NewReceiptService constructs a ReceiptService instance.
func NewReceiptService(db *gorm.DB) (*ReceiptService, error) {
	if db == nil {
		return nil, errors.New("receipt service: db is required")
	}
	return &ReceiptService{db: db}, nil
}

// GetByID loads a receipt whose invoice's room belongs to the supplied owner.
func (s *ReceiptService) GetByID(ctx context.Context, ownerID, receiptID string) (*models.Receipt, error) {
	ctx = ensureContext(ctx)

	var receipt models.Receipt
	err := s.db.WithContext(ctx).
		Preload("Invoice").
		Preload("Invoice.Room").
		Joins("JOIN invoices ON invoices.id = receipts.invoice_id").
		Joins("JOIN rooms ON rooms.id = invoices.room_id").
		Where("receipts.id = ? AND rooms.owner_id = ?", strings.TrimSpace(receiptID), strings.TrimSpace(ownerID)).
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("receipt service: load receipt: %w", err)
	}
	return &receipt, nil
}

// List returns the owner's receipts with optional room and date filters.
func (s *ReceiptService) List(ctx context.Context, ownerID string, opts ListReceiptsOptions) ([]models.Receipt, int64, error) {
	ctx = ensureContext(ctx)

	page, pageSize := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Receipt{}).
		Joins("JOIN invoices ON invoices.id = receipts.invoice_id").
		Joins("JOIN rooms ON rooms.id = invoices.room_id").
		Where("rooms.owner_id = ?", strings.TrimSpace(ownerID))

	filters := opts.Filters
	if roomID := strings.TrimSpace(filters.RoomID); roomID != "" {
		query = query.Where("invoices.room_id = ?", roomID)
	}
	if filters.PaidFrom != nil {
		query = query.Where("receipts.paid_at >= ?", *filters.PaidFrom)
	}
	if filters.PaidTo != nil {
		query = query.Where("receipts.paid_at <= ?", *filters.PaidTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("receipt service: count receipts: %w", err)
	}

	var receipts []models.Receipt
	if err := query.
		Preload("Invoice").
		Preload("Invoice.Room").
		Order("receipts.paid_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&receipts).Error; err != nil {
		return nil, 0, fmt.Errorf("receipt service: list receipts: %w", err)
	}

	return receipts, total, nil
}
