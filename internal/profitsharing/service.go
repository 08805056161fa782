package profitsharing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikets94/fundraising-management-backend/config"
	"github.com/anikets94/fundraising-management-backend/internal/auditlog"
	"github.com/anikets94/fundraising-management-backend/internal/campaign"
	"github.com/anikets94/fundraising-management-backend/utils"
)

type Service interface {
	// Eligibility and pool inspection
	CheckSeasonEligibility(ctx context.Context, seasonID uint) (*EligibilityReport, *ExecutionFailure)
	GetEligibleDonors(ctx context.Context, seasonID uint) ([]DonorContribution, *ExecutionFailure)

	// Orchestrator
	Execute(ctx context.Context, seasonID uint, ip string) (*ProfitSharingResult, *ExecutionFailure)
	Simulate(ctx context.Context, seasonID uint, ip string) (*ProfitSharingResult, *ExecutionFailure)

	// Batch / aggregate views
	GetSummary(ctx context.Context, seasonIDs []uint) (*ProfitSharingSummary, error)
	GetCampaignStats(ctx context.Context, campaignID uint) (*CampaignProfitStats, *ExecutionFailure)
	RefreshCampaignStatsCache(ctx context.Context) error

	// Execution history
	ListRuns(ctx context.Context, seasonID uint, limit int) ([]DistributionRun, error)
}

type service struct {
	repo     Repository
	cfg      *config.Config
	auditSvc auditlog.Service

	// newRand builds a fresh PRNG per invocation so concurrent executions
	// never share a seed or draw counter. Tests swap in a seeded source.
	newRand func() *rand.Rand

	// publish sends domain events; swapped for a no-op in tests
	publish func(ctx context.Context, key string, payload interface{}) error
}

func NewService(repo Repository, cfg *config.Config, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		cfg:      cfg,
		auditSvc: auditSvc,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		publish: utils.PublishEvent,
	}
}

// ==============================
// Eligibility and Pool Inspection
// ==============================

func (s *service) CheckSeasonEligibility(ctx context.Context, seasonID uint) (*EligibilityReport, *ExecutionFailure) {
	season, failure := s.fetchSeason(ctx, seasonID)
	if failure != nil {
		return nil, failure
	}

	return &EligibilityReport{
		Season:      seasonInfo(season),
		Eligibility: CheckEligibility(season),
	}, nil
}

func (s *service) GetEligibleDonors(ctx context.Context, seasonID uint) ([]DonorContribution, *ExecutionFailure) {
	if _, failure := s.fetchSeason(ctx, seasonID); failure != nil {
		return nil, failure
	}

	donors, err := s.repo.GetEligibleDonors(ctx, seasonID, MinDonations)
	if err != nil {
		return nil, s.upstreamFailure(ctx, seasonID, err, "")
	}
	return donors, nil
}

// ==============================
// 🚀 Orchestrator
// ==============================

func (s *service) Execute(ctx context.Context, seasonID uint, ip string) (*ProfitSharingResult, *ExecutionFailure) {
	return s.run(ctx, seasonID, false, ip)
}

// Simulate performs the identical computation but tags the result and
// persists nothing — the execute/simulate distinction is purely about
// whether the outcome is recorded.
func (s *service) Simulate(ctx context.Context, seasonID uint, ip string) (*ProfitSharingResult, *ExecutionFailure) {
	return s.run(ctx, seasonID, true, ip)
}

func (s *service) run(ctx context.Context, seasonID uint, simulation bool, ip string) (*ProfitSharingResult, *ExecutionFailure) {
	// Step 1: season snapshot (with campaign name)
	season, failure := s.fetchSeason(ctx, seasonID)
	if failure != nil {
		return nil, failure
	}

	// Step 2: eligibility gates
	elig := CheckEligibility(season)
	if !elig.IsEligible {
		details := map[string]interface{}{
			"seasonId":     season.ID,
			"seasonName":   season.Name,
			"campaignName": season.CampaignName,
		}
		for k, v := range elig.Details {
			details[k] = v
		}
		return nil, &ExecutionFailure{
			Success: false,
			Code:    CodeNotEligible,
			Error:   elig.Reason,
			Details: details,
		}
	}

	// Step 3: eligible donor pool
	pool, err := s.repo.GetEligibleDonors(ctx, seasonID, MinDonations)
	if err != nil {
		return nil, s.upstreamFailure(ctx, seasonID, err, ip)
	}
	if len(pool) == 0 {
		return nil, &ExecutionFailure{
			Success: false,
			Code:    CodeInsufficientPool,
			Error:   "No eligible donors found",
			Details: map[string]interface{}{
				"minimumDonations":    MinDonations,
				"seasonDonationCount": season.DonationCount,
			},
		}
	}

	// Step 4: pool must cover the selection count
	if len(pool) < SelectedDonorsCount {
		found := make([]map[string]interface{}, 0, len(pool))
		for _, d := range pool {
			found = append(found, map[string]interface{}{
				"name":          d.FirstName + " " + d.LastName,
				"email":         d.Email,
				"donationCount": d.DonationCount,
			})
		}
		return nil, &ExecutionFailure{
			Success: false,
			Code:    CodeInsufficientPool,
			Error:   "Insufficient eligible donors",
			Details: map[string]interface{}{
				"required":       SelectedDonorsCount,
				"found":          len(pool),
				"eligibleDonors": found,
			},
		}
	}

	// Steps 5-7: selection, profit, distribution
	selected := SelectRandomDonors(pool, SelectedDonorsCount, s.newRand())
	calc := CalculateProfit(season.TotalRaised)
	dist := DistributeToVendors(calc.FinalProfit, season.TotalRaised)

	ranked := make([]SelectedDonor, len(selected))
	for i, d := range selected {
		ranked[i] = SelectedDonor{Rank: i + 1, DonorContribution: d}
	}

	// Step 8: assemble
	result := &ProfitSharingResult{
		Success:    true,
		Simulation: simulation,
		Season:     seasonInfo(season),
		Eligibility: EligibilitySummary{
			IsEligible:         true,
			EligibleDonorCount: len(pool),
			EligibleDonors:     pool,
		},
		SelectedDonors:     ranked,
		ProfitCalculation:  calc,
		VendorDistribution: dist,
		ExecutedAt:         time.Now().UTC(),
	}

	if simulation {
		s.audit(ctx, &season.ID, "PROFIT_SHARING_SIMULATED", map[string]interface{}{
			"finalProfit":    result.ProfitCalculation.FinalProfit,
			"selectedDonors": len(result.SelectedDonors),
		}, ip, "success")
		return result, nil
	}

	// Record the execution (append-only)
	result.RunID = uuid.NewString()
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, s.upstreamFailure(ctx, seasonID, err, ip)
	}
	run := &DistributionRun{
		RunID:             result.RunID,
		SeasonID:          season.ID,
		CampaignID:        season.CampaignID,
		FinalProfit:       result.ProfitCalculation.FinalProfit,
		AgentsTotal:       result.VendorDistribution.Agents.Total,
		StakeholdersTotal: result.VendorDistribution.Stakeholders.Total,
		Result:            payload,
		ExecutedAt:        result.ExecutedAt,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, s.upstreamFailure(ctx, seasonID, err, ip)
	}

	s.audit(ctx, &season.ID, "PROFIT_SHARING_EXECUTED", map[string]interface{}{
		"runId":             result.RunID,
		"finalProfit":       result.ProfitCalculation.FinalProfit,
		"agentsTotal":       result.VendorDistribution.Agents.Total,
		"stakeholdersTotal": result.VendorDistribution.Stakeholders.Total,
		"selectedDonors":    len(result.SelectedDonors),
	}, ip, "success")

	if err := s.publish(ctx, fmt.Sprintf("season-%d", season.ID), map[string]interface{}{
		"event":             "profit-sharing.executed",
		"runId":             result.RunID,
		"seasonId":          season.ID,
		"campaignId":        season.CampaignID,
		"finalProfit":       result.ProfitCalculation.FinalProfit,
		"agentsTotal":       result.VendorDistribution.Agents.Total,
		"stakeholdersTotal": result.VendorDistribution.Stakeholders.Total,
		"executedAt":        result.ExecutedAt,
	}); err != nil {
		log.Printf("⚠️ Failed to publish profit-sharing event for season %d: %v", season.ID, err)
	}

	return result, nil
}

// ==============================
// 📊 Batch / Aggregate Views
// ==============================

// GetSummary runs the orchestrator in simulation mode per season, partitions
// successes from failures, and sums profit across the successes.
func (s *service) GetSummary(ctx context.Context, seasonIDs []uint) (*ProfitSharingSummary, error) {
	summary := &ProfitSharingSummary{
		TotalSeasons: len(seasonIDs),
		Successful:   []*ProfitSharingResult{},
		Failed:       []SummaryFailure{},
	}

	for _, id := range seasonIDs {
		result, failure := s.run(ctx, id, true, "")
		if failure != nil {
			summary.Failed = append(summary.Failed, SummaryFailure{SeasonID: id, Failure: failure})
			continue
		}
		summary.Successful = append(summary.Successful, result)
		summary.Totals.FinalProfit += result.ProfitCalculation.FinalProfit
		summary.Totals.AgentsTotal += result.VendorDistribution.Agents.Total
		summary.Totals.StakeholdersTotal += result.VendorDistribution.Stakeholders.Total
	}

	summary.SuccessCount = len(summary.Successful)
	summary.FailureCount = len(summary.Failed)
	summary.Totals.FinalProfit = round2(summary.Totals.FinalProfit)
	summary.Totals.AgentsTotal = round2(summary.Totals.AgentsTotal)
	summary.Totals.StakeholdersTotal = round2(summary.Totals.StakeholdersTotal)

	return summary, nil
}

// GetCampaignStats reports the potential (not executed) profit for a
// campaign's eligible seasons. Served from the Redis cache when fresh.
func (s *service) GetCampaignStats(ctx context.Context, campaignID uint) (*CampaignProfitStats, *ExecutionFailure) {
	var cached CampaignProfitStats
	if hit, err := utils.GetCachedJSON(ctx, campaignStatsKey(campaignID), &cached); err == nil && hit {
		return &cached, nil
	}

	stats, failure := s.computeCampaignStats(ctx, campaignID)
	if failure != nil {
		return nil, failure
	}

	s.cacheCampaignStats(ctx, stats)
	return stats, nil
}

func (s *service) computeCampaignStats(ctx context.Context, campaignID uint) (*CampaignProfitStats, *ExecutionFailure) {
	info, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ExecutionFailure{
				Success: false,
				Code:    CodeNotFound,
				Error:   "Campaign not found",
				Details: map[string]interface{}{"campaignId": campaignID},
			}
		}
		return nil, s.upstreamFailure(ctx, 0, err, "")
	}

	seasons, err := s.repo.GetSeasonsByCampaign(ctx, campaignID, []string{campaign.SeasonActive, campaign.SeasonCompleted})
	if err != nil {
		return nil, s.upstreamFailure(ctx, 0, err, "")
	}

	stats := &CampaignProfitStats{
		CampaignID:   info.ID,
		CampaignName: info.Name,
		TotalSeasons: len(seasons),
		Seasons:      []SeasonPotential{},
		GeneratedAt:  time.Now().UTC(),
	}

	for i := range seasons {
		season := seasons[i]
		if !CheckEligibility(&season).IsEligible {
			continue
		}

		calc := CalculateProfit(season.TotalRaised)
		agentsShare := round2(calc.FinalProfit * 0.5)
		stakeholdersShare := round2(calc.FinalProfit * 0.5)

		stats.Seasons = append(stats.Seasons, SeasonPotential{
			SeasonID:          season.ID,
			SeasonName:        season.Name,
			Status:            season.Status,
			TotalRaised:       season.TotalRaised,
			PotentialProfit:   calc.FinalProfit,
			AgentsShare:       agentsShare,
			StakeholdersShare: stakeholdersShare,
		})
		stats.TotalPotentialProfit += calc.FinalProfit
		stats.AgentsPotential += agentsShare
		stats.StakeholdersPotential += stakeholdersShare
	}

	stats.EligibleSeasons = len(stats.Seasons)
	stats.TotalPotentialProfit = round2(stats.TotalPotentialProfit)
	stats.AgentsPotential = round2(stats.AgentsPotential)
	stats.StakeholdersPotential = round2(stats.StakeholdersPotential)

	return stats, nil
}

// RefreshCampaignStatsCache recomputes and caches stats for every active
// campaign. Invoked by the cron scheduler.
func (s *service) RefreshCampaignStatsCache(ctx context.Context) error {
	campaigns, err := s.repo.ListActiveCampaigns(ctx)
	if err != nil {
		return err
	}

	for _, c := range campaigns {
		stats, failure := s.computeCampaignStats(ctx, c.ID)
		if failure != nil {
			log.Printf("⚠️ Stats refresh skipped campaign %d: %s", c.ID, failure.Error)
			continue
		}
		s.cacheCampaignStats(ctx, stats)
	}

	return nil
}

func (s *service) cacheCampaignStats(ctx context.Context, stats *CampaignProfitStats) {
	ttl := time.Duration(s.cfg.StatsCacheTTLMins) * time.Minute
	if err := utils.CacheJSON(ctx, campaignStatsKey(stats.CampaignID), stats, ttl); err != nil {
		log.Printf("⚠️ Failed to cache stats for campaign %d: %v", stats.CampaignID, err)
	}
}

func campaignStatsKey(campaignID uint) string {
	return fmt.Sprintf("profitsharing:campaign-stats:%d", campaignID)
}

// ==============================
// Execution History
// ==============================

func (s *service) ListRuns(ctx context.Context, seasonID uint, limit int) ([]DistributionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRunsBySeason(ctx, seasonID, limit)
}

// ==============================
// Helpers
// ==============================

func (s *service) fetchSeason(ctx context.Context, seasonID uint) (*SeasonSnapshot, *ExecutionFailure) {
	season, err := s.repo.GetSeasonWithCampaign(ctx, seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ExecutionFailure{
				Success: false,
				Code:    CodeNotFound,
				Error:   "Season not found",
				Details: map[string]interface{}{"seasonId": seasonID},
			}
		}
		return nil, s.upstreamFailure(ctx, seasonID, err, "")
	}
	return season, nil
}

// upstreamFailure converts a collaborator error into the uniform failure
// envelope so callers see one shape regardless of cause.
func (s *service) upstreamFailure(ctx context.Context, seasonID uint, err error, ip string) *ExecutionFailure {
	var sid *uint
	if seasonID != 0 {
		sid = &seasonID
	}
	s.audit(ctx, sid, "PROFIT_SHARING_FAILED", map[string]interface{}{
		"error": err.Error(),
	}, ip, "failure")

	return &ExecutionFailure{
		Success: false,
		Code:    CodeUpstreamFailure,
		Error:   "Failed to execute profit sharing",
		Message: err.Error(),
	}
}

func (s *service) audit(ctx context.Context, seasonID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, seasonID, action, details, ip, status); err != nil {
		log.Printf("⚠️ Audit log write failed (%s): %v", action, err)
	}
}

func seasonInfo(season *SeasonSnapshot) SeasonInfo {
	return SeasonInfo{
		ID:            season.ID,
		Name:          season.Name,
		CampaignID:    season.CampaignID,
		CampaignName:  season.CampaignName,
		Goal:          season.Goal,
		TotalRaised:   season.TotalRaised,
		DonationCount: season.DonationCount,
		Status:        season.Status,
	}
}
