package profitsharing

import (
	"time"

	"gorm.io/datatypes"
)

// DistributionRun is the persisted record of an executed profit sharing.
// Rows are append-only: the engine itself never prevents executing the same
// season twice, so callers detect duplicates via season_id + executed_at.
type DistributionRun struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID      string `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	SeasonID   uint   `gorm:"not null;index" json:"season_id"`
	CampaignID uint   `gorm:"index" json:"campaign_id"`

	FinalProfit       float64 `json:"final_profit"`
	AgentsTotal       float64 `json:"agents_total"`
	StakeholdersTotal float64 `json:"stakeholders_total"`

	Result datatypes.JSON `gorm:"type:jsonb" json:"result"` // full ProfitSharingResult

	ExecutedAt time.Time `gorm:"not null;index" json:"executed_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides table name for DistributionRun
func (DistributionRun) TableName() string {
	return "profit_sharing_runs"
}
