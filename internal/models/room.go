package models

// Room statuses.
const (
	RoomAvailable   = "AVAILABLE"
	RoomOccupied    = "OCCUPIED"
	RoomMaintenance = "MAINTENANCE"
)

// Room represents a rentable unit owned by a property owner.
type Room struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Name        string  `gorm:"not null" json:"name"`
	Number      string  `gorm:"not null;index" json:"number"`
	Floor       int     `json:"floor"`
	SizeSqm     float64 `json:"size_sqm"`
	MonthlyRent float64 `gorm:"not null" json:"monthly_rent"`
	Description string  `gorm:"type:text" json:"description"`

	Status string `gorm:"type:varchar(32);default:'AVAILABLE';index" json:"status"`

	Contracts []Contract `gorm:"foreignKey:RoomID" json:"contracts,omitempty"`
	Invoices  []Invoice  `gorm:"foreignKey:RoomID" json:"invoices,omitempty"`
}
