package models

import "time"

// Invoice statuses.
const (
	InvoicePending   = "PENDING"
	InvoicePaid      = "PAID"
	InvoiceOverdue   = "OVERDUE"
	InvoiceCancelled = "CANCELLED"
)

// Payment methods accepted against an invoice.
const (
	PaymentCash         = "CASH"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentPromptPay    = "PROMPTPAY"
	PaymentCreditCard   = "CREDIT_CARD"
)

// Invoice is a billing record requesting payment by a due date. The reminder
// job is the only writer of the PENDING to OVERDUE transition.
type Invoice struct {
	BaseModel

	InvoiceNo string `gorm:"uniqueIndex;not null" json:"invoice_no"`

	RoomID string `gorm:"type:uuid;not null;index" json:"room_id"`
	Room   *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	ContractID *string   `gorm:"type:uuid;index" json:"contract_id"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	Amount   float64   `gorm:"not null" json:"amount"`
	DueDate  time.Time `gorm:"not null;index" json:"due_date"`
	IssuedAt time.Time `gorm:"not null" json:"issued_at"`

	Status        string `gorm:"type:varchar(32);default:'PENDING';index" json:"status"`
	PaymentMethod string `gorm:"type:varchar(32)" json:"payment_method"`

	Description string `gorm:"type:text" json:"description"`

	Receipt *Receipt `gorm:"foreignKey:InvoiceID" json:"receipt,omitempty"`
}
