package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types emitted across the application.
const (
	NotifyContractExpiry     = "CONTRACT_EXPIRY"
	NotifyContractCreated    = "CONTRACT_CREATED"
	NotifyContractTerminated = "CONTRACT_TERMINATED"
	NotifyRentDue            = "RENT_DUE"
	NotifyInvoiceCreated     = "INVOICE_CREATED"
	NotifyInvoiceOverdue     = "INVOICE_OVERDUE"
	NotifyInvoiceCancelled   = "INVOICE_CANCELLED"
	NotifyPaymentReceived    = "PAYMENT_RECEIVED"
	NotifyReceiptCreated     = "RECEIPT_CREATED"
	NotifyMonthlyReport      = "MONTHLY_REPORT"
	NotifySystem             = "SYSTEM"
)

// Notification represents an in-app notification addressed to the property
// owner that owns the underlying room, contract or invoice.
type Notification struct {
	BaseModel

	UserID   string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type     string         `gorm:"type:varchar(64);not null;index" json:"type"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Severity string         `gorm:"type:varchar(32);default:'info'" json:"severity"`
	Metadata datatypes.JSON `json:"metadata"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}
