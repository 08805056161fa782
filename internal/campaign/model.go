package campaign

import (
	"time"
)

// Season lifecycle statuses
const (
	SeasonUpcoming  = "upcoming"
	SeasonActive    = "active"
	SeasonCompleted = "completed"
)

type Campaign struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	OwnerName   string `json:"owner_name"`
	OwnerEmail  string `json:"owner_email"`

	Status string `gorm:"default:'active';index" json:"status"`

	// Meta
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// Season is a time-bounded fundraising sub-period within a campaign with its
// own goal and raised total. TotalRaised and DonationCount are maintained by
// the donation ingestion flow (out of scope here) and read as a snapshot.
type Season struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CampaignID uint   `gorm:"not null;index" json:"campaign_id"`
	Name       string `gorm:"not null" json:"name"`

	Goal          float64 `gorm:"not null;default:0" json:"goal"`
	TotalRaised   float64 `gorm:"not null;default:0" json:"total_raised"`
	DonationCount int     `gorm:"not null;default:0" json:"donation_count"`

	Status string `gorm:"default:'upcoming';index" json:"status"` // upcoming/active/completed

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// Meta
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}
