package profitsharing

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Season store
	GetSeasonWithCampaign(ctx context.Context, seasonID uint) (*SeasonSnapshot, error)
	GetSeasonsByCampaign(ctx context.Context, campaignID uint, statuses []string) ([]SeasonSnapshot, error)

	// Donation/Donor stores (aggregated)
	GetEligibleDonors(ctx context.Context, seasonID uint, minDonations int) ([]DonorContribution, error)

	// Campaign store
	GetCampaign(ctx context.Context, campaignID uint) (*CampaignInfo, error)
	ListActiveCampaigns(ctx context.Context) ([]CampaignInfo, error)

	// Execution history (append-only)
	CreateRun(ctx context.Context, run *DistributionRun) error
	ListRunsBySeason(ctx context.Context, seasonID uint, limit int) ([]DistributionRun, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ==============================
// Season Queries
// ==============================

func (r *repository) GetSeasonWithCampaign(ctx context.Context, seasonID uint) (*SeasonSnapshot, error) {
	var snap SeasonSnapshot
	err := r.db.WithContext(ctx).
		Table("seasons s").
		Select(`
			s.id, s.campaign_id, s.name, s.goal, s.total_raised, s.donation_count, s.status,
			COALESCE(c.name, '') as campaign_name
		`).
		Joins("LEFT JOIN campaigns c ON s.campaign_id = c.id").
		Where("s.id = ?", seasonID).
		First(&snap).Error

	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *repository) GetSeasonsByCampaign(ctx context.Context, campaignID uint, statuses []string) ([]SeasonSnapshot, error) {
	var seasons []SeasonSnapshot
	query := r.db.WithContext(ctx).
		Table("seasons s").
		Select(`
			s.id, s.campaign_id, s.name, s.goal, s.total_raised, s.donation_count, s.status,
			COALESCE(c.name, '') as campaign_name
		`).
		Joins("LEFT JOIN campaigns c ON s.campaign_id = c.id").
		Where("s.campaign_id = ?", campaignID)

	if len(statuses) > 0 {
		query = query.Where("LOWER(s.status) IN ?", statuses)
	}

	err := query.Order("s.id ASC").Scan(&seasons).Error
	return seasons, err
}

// ==============================
// Eligible Donor Aggregation
// ==============================

// GetEligibleDonors aggregates completed donations for the season grouped by
// donor, keeps donors at or above the donation threshold, and joins against
// active donor profiles. No ORDER BY: the returned ordering is
// implementation-defined and the selector must not rely on it.
func (r *repository) GetEligibleDonors(ctx context.Context, seasonID uint, minDonations int) ([]DonorContribution, error) {
	var donors []DonorContribution
	err := r.db.WithContext(ctx).
		Table("donations d").
		Select(`
			d.donor_id,
			dn.first_name, dn.last_name, dn.email, dn.donor_type, dn.is_active,
			COUNT(d.id) as donation_count,
			COALESCE(SUM(d.amount), 0) as total_contributed,
			MIN(COALESCE(d.donated_at, d.created_at)) as first_donation,
			MAX(COALESCE(d.donated_at, d.created_at)) as last_donation
		`).
		Joins("JOIN donors dn ON d.donor_id = dn.id").
		Where("d.season_id = ? AND LOWER(d.status) = 'completed'", seasonID).
		Where("dn.is_active = true").
		Group("d.donor_id, dn.first_name, dn.last_name, dn.email, dn.donor_type, dn.is_active").
		Having("COUNT(d.id) >= ?", minDonations).
		Scan(&donors).Error

	return donors, err
}

// ==============================
// Campaign Queries
// ==============================

func (r *repository) GetCampaign(ctx context.Context, campaignID uint) (*CampaignInfo, error) {
	var info CampaignInfo
	err := r.db.WithContext(ctx).
		Table("campaigns").
		Select("id, name").
		Where("id = ?", campaignID).
		First(&info).Error

	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repository) ListActiveCampaigns(ctx context.Context) ([]CampaignInfo, error) {
	var campaigns []CampaignInfo
	err := r.db.WithContext(ctx).
		Table("campaigns").
		Select("id, name").
		Where("LOWER(status) = 'active'").
		Order("id ASC").
		Scan(&campaigns).Error

	return campaigns, err
}

// ==============================
// Execution History
// ==============================

func (r *repository) CreateRun(ctx context.Context, run *DistributionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) ListRunsBySeason(ctx context.Context, seasonID uint, limit int) ([]DistributionRun, error) {
	var runs []DistributionRun
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("executed_at DESC").
		Limit(limit).
		Find(&runs).Error

	return runs, err
}
