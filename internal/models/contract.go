package models

import "time"

// Contract statuses.
const (
	ContractPending    = "PENDING"
	ContractActive     = "ACTIVE"
	ContractExpired    = "EXPIRED"
	ContractTerminated = "TERMINATED"
)

// Contract represents a lease agreement between a property owner and a tenant
// for a single room.
type Contract struct {
	BaseModel

	RoomID string `gorm:"type:uuid;not null;index" json:"room_id"`
	Room   *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`

	TenantName  string `gorm:"not null" json:"tenant_name"`
	TenantPhone string `json:"tenant_phone"`
	TenantEmail string `json:"tenant_email"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`

	Rent    float64 `gorm:"not null" json:"rent"`
	Deposit float64 `json:"deposit"`

	Status string `gorm:"type:varchar(32);default:'PENDING';index" json:"status"`

	TerminatedAt *time.Time `json:"terminated_at"`
	Note         string     `gorm:"type:text" json:"note"`
}
