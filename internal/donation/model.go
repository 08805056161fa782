package donation

import (
	"time"
)

// Donation statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Donation struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DonorID  uint `gorm:"not null;index" json:"donor_id"`
	SeasonID uint `gorm:"not null;index" json:"season_id"`

	Amount float64 `gorm:"not null" json:"amount"`
	Status string  `gorm:"default:'pending';index" json:"status"` // pending/completed/failed
	Method string  `json:"method"`
	Note   *string `json:"note,omitempty"`

	DonatedAt *time.Time `json:"donated_at"`

	// Meta
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}
