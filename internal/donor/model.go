package donor

import (
	"time"
)

// Donor types
const (
	TypeIndividual     = "individual"
	TypeAgent          = "agent"
	TypeCorporateAgent = "corporate_agent"
	TypeProjectOwner   = "project_owner"
)

type Donor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"unique;not null" json:"email"`
	Phone     string `json:"phone"`

	DonorType string `gorm:"default:'individual';index" json:"donor_type"`

	// Active/Inactive status
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Meta
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Donor) TableName() string {
	return "donors"
}
