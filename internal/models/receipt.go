package models

import "time"

// Receipt is proof of a completed payment against an invoice.
type Receipt struct {
	BaseModel

	ReceiptNo string `gorm:"uniqueIndex;not null" json:"receipt_no"`

	InvoiceID string   `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`

	Amount        float64   `gorm:"not null" json:"amount"`
	PaidAt        time.Time `gorm:"not null;index" json:"paid_at"`
	PaymentMethod string    `gorm:"type:varchar(32);not null" json:"payment_method"`

	Note string `gorm:"type:text" json:"note"`
}
