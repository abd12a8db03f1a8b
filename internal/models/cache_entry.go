package models

import (
	"time"
)

// CacheEntry backs the database cache store used when Redis is not
// configured. It holds rate-limit counters and the reminder run lock.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
