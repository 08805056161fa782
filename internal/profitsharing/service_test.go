package profitsharing

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anikets94/fundraising-management-backend/config"
	"github.com/anikets94/fundraising-management-backend/internal/auditlog"
)

// ==============================
// Test Doubles
// ==============================

type fakeRepo struct {
	seasons         map[uint]*SeasonSnapshot
	pools           map[uint][]DonorContribution
	campaigns       map[uint]*CampaignInfo
	campaignSeasons map[uint][]SeasonSnapshot
	activeCampaigns []CampaignInfo
	runs            []*DistributionRun

	seasonErr error
	poolErr   error
	runErr    error
}

func (f *fakeRepo) GetSeasonWithCampaign(ctx context.Context, seasonID uint) (*SeasonSnapshot, error) {
	if f.seasonErr != nil {
		return nil, f.seasonErr
	}
	season, ok := f.seasons[seasonID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return season, nil
}

func (f *fakeRepo) GetSeasonsByCampaign(ctx context.Context, campaignID uint, statuses []string) ([]SeasonSnapshot, error) {
	return f.campaignSeasons[campaignID], nil
}

func (f *fakeRepo) GetEligibleDonors(ctx context.Context, seasonID uint, minDonations int) ([]DonorContribution, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	return f.pools[seasonID], nil
}

func (f *fakeRepo) GetCampaign(ctx context.Context, campaignID uint) (*CampaignInfo, error) {
	info, ok := f.campaigns[campaignID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return info, nil
}

func (f *fakeRepo) ListActiveCampaigns(ctx context.Context) ([]CampaignInfo, error) {
	return f.activeCampaigns, nil
}

func (f *fakeRepo) CreateRun(ctx context.Context, run *DistributionRun) error {
	if f.runErr != nil {
		return f.runErr
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRepo) ListRunsBySeason(ctx context.Context, seasonID uint, limit int) ([]DistributionRun, error) {
	var out []DistributionRun
	for _, run := range f.runs {
		if run.SeasonID == seasonID && len(out) < limit {
			out = append(out, *run)
		}
	}
	return out, nil
}

type recordingAudit struct {
	actions  []string
	statuses []string
}

func (a *recordingAudit) LogAction(ctx context.Context, seasonID *uint, action string, details map[string]interface{}, ip string, status string) error {
	a.actions = append(a.actions, action)
	a.statuses = append(a.statuses, status)
	return nil
}

func (a *recordingAudit) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (a *recordingAudit) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLogResponse, error) {
	return nil, nil
}

func newTestService(repo *fakeRepo, audit *recordingAudit) (*service, *int) {
	cfg := &config.Config{StatsRefreshMinutes: 10, StatsCacheTTLMins: 15}
	svc := NewService(repo, cfg, audit).(*service)

	svc.newRand = func() *rand.Rand {
		return rand.New(rand.NewSource(42))
	}

	published := 0
	svc.publish = func(ctx context.Context, key string, payload interface{}) error {
		published++
		return nil
	}
	return svc, &published
}

func reachedSeason() *SeasonSnapshot {
	return &SeasonSnapshot{
		ID:            1,
		CampaignID:    10,
		CampaignName:  "Clean Water Fund",
		Name:          "Spring Season",
		Goal:          1_000_000,
		TotalRaised:   1_000_000,
		DonationCount: 60,
		Status:        "active",
	}
}

// ==============================
// Execute / Simulate
// ==============================

func TestExecuteHappyPath(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	audit := &recordingAudit{}
	svc, published := newTestService(repo, audit)

	result, failure := svc.Execute(context.Background(), 1, "10.0.0.1")

	require.Nil(t, failure)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.False(t, result.Simulation)
	assert.NotEmpty(t, result.RunID)

	// Season and eligibility block
	assert.Equal(t, "Spring Season", result.Season.Name)
	assert.Equal(t, "Clean Water Fund", result.Season.CampaignName)
	assert.True(t, result.Eligibility.IsEligible)
	assert.Equal(t, 6, result.Eligibility.EligibleDonorCount)

	// Exactly two winners, ranked 1 and 2, distinct
	require.Len(t, result.SelectedDonors, 2)
	assert.Equal(t, 1, result.SelectedDonors[0].Rank)
	assert.Equal(t, 2, result.SelectedDonors[1].Rank)
	assert.NotEqual(t, result.SelectedDonors[0].DonorID, result.SelectedDonors[1].DonorID)

	// Profit and distribution numbers for a 1M raise
	assert.Equal(t, 49_896.0, result.ProfitCalculation.FinalProfit)
	assert.Equal(t, 24_948.0, result.VendorDistribution.Agents.Total)
	assert.Equal(t, 24_948.0, result.VendorDistribution.Stakeholders.Total)
	assert.Equal(t, 14_968.80, result.VendorDistribution.Summary.BMG)

	// Exactly one run persisted, carrying the same numbers
	require.Len(t, repo.runs, 1)
	run := repo.runs[0]
	assert.Equal(t, result.RunID, run.RunID)
	assert.Equal(t, uint(1), run.SeasonID)
	assert.Equal(t, uint(10), run.CampaignID)
	assert.Equal(t, 49_896.0, run.FinalProfit)

	var persisted ProfitSharingResult
	require.NoError(t, json.Unmarshal(run.Result, &persisted))
	assert.Equal(t, result.RunID, persisted.RunID)

	// Audited and published
	assert.Contains(t, audit.actions, "PROFIT_SHARING_EXECUTED")
	assert.Equal(t, 1, *published)
}

func TestSimulatePersistsNothing(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	audit := &recordingAudit{}
	svc, published := newTestService(repo, audit)

	result, failure := svc.Simulate(context.Background(), 1, "10.0.0.1")

	require.Nil(t, failure)
	assert.True(t, result.Simulation)
	assert.Empty(t, result.RunID)
	assert.Equal(t, 49_896.0, result.ProfitCalculation.FinalProfit)

	assert.Empty(t, repo.runs, "simulation must not persist a run")
	assert.Equal(t, 0, *published, "simulation must not publish events")
	assert.Contains(t, audit.actions, "PROFIT_SHARING_SIMULATED")
}

func TestExecuteSeasonNotFound(t *testing.T) {
	repo := &fakeRepo{seasons: map[uint]*SeasonSnapshot{}}
	svc, _ := newTestService(repo, &recordingAudit{})

	result, failure := svc.Execute(context.Background(), 99, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.False(t, failure.Success)
	assert.Equal(t, CodeNotFound, failure.Code)
	assert.Equal(t, "Season not found", failure.Error)
	assert.Equal(t, uint(99), failure.Details["seasonId"])
}

func TestExecuteGoalNotReached(t *testing.T) {
	season := reachedSeason()
	season.TotalRaised = 600_000
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: season},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	svc, _ := newTestService(repo, &recordingAudit{})

	result, failure := svc.Execute(context.Background(), 1, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, CodeNotEligible, failure.Code)
	assert.Equal(t, "Season goal not yet reached", failure.Error)
	assert.Equal(t, 400_000.0, failure.Details["remaining"])
	assert.Equal(t, 60.0, failure.Details["progressPercent"])
	assert.Equal(t, "Spring Season", failure.Details["seasonName"])
	assert.Empty(t, repo.runs)
}

func TestExecuteNoEligibleDonors(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{},
	}
	svc, _ := newTestService(repo, &recordingAudit{})

	result, failure := svc.Execute(context.Background(), 1, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, CodeInsufficientPool, failure.Code)
	assert.Equal(t, "No eligible donors found", failure.Error)
	assert.Equal(t, MinDonations, failure.Details["minimumDonations"])
}

func TestExecuteInsufficientPool(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(1)},
	}
	svc, _ := newTestService(repo, &recordingAudit{})

	result, failure := svc.Execute(context.Background(), 1, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, CodeInsufficientPool, failure.Code)
	assert.Equal(t, "Insufficient eligible donors", failure.Error)
	assert.Equal(t, SelectedDonorsCount, failure.Details["required"])
	assert.Equal(t, 1, failure.Details["found"])

	// The lone eligible donor is listed by name so operators can see who
	// was found.
	found, ok := failure.Details["eligibleDonors"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, found, 1)
	assert.Equal(t, "Donor1 Test", found[0]["name"])
}

func TestExecuteUpstreamFailure(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		poolErr: errors.New("connection refused"),
	}
	audit := &recordingAudit{}
	svc, _ := newTestService(repo, audit)

	result, failure := svc.Execute(context.Background(), 1, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, CodeUpstreamFailure, failure.Code)
	assert.Equal(t, "Failed to execute profit sharing", failure.Error)
	assert.Equal(t, "connection refused", failure.Message)
	assert.Contains(t, audit.actions, "PROFIT_SHARING_FAILED")
	assert.Contains(t, audit.statuses, "failure")
}

func TestExecutePersistErrorSurfacesAsUpstream(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
		runErr:  errors.New("insert failed"),
	}
	svc, published := newTestService(repo, &recordingAudit{})

	result, failure := svc.Execute(context.Background(), 1, "")

	assert.Nil(t, result)
	require.NotNil(t, failure)
	assert.Equal(t, CodeUpstreamFailure, failure.Code)
	assert.Equal(t, 0, *published, "no event when the run was not recorded")
}

func TestExecuteWorksWithoutAuditService(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	svc, _ := newTestService(repo, nil)
	svc.auditSvc = nil

	result, failure := svc.Execute(context.Background(), 1, "")

	require.Nil(t, failure)
	assert.True(t, result.Success)
}

// ==============================
// Eligibility Endpoints
// ==============================

func TestCheckSeasonEligibilityReport(t *testing.T) {
	season := reachedSeason()
	season.TotalRaised = 250_000
	repo := &fakeRepo{seasons: map[uint]*SeasonSnapshot{1: season}}
	svc, _ := newTestService(repo, &recordingAudit{})

	report, failure := svc.CheckSeasonEligibility(context.Background(), 1)

	require.Nil(t, failure)
	assert.Equal(t, uint(1), report.Season.ID)
	assert.False(t, report.Eligibility.IsEligible)
	assert.Equal(t, "Season goal not yet reached", report.Eligibility.Reason)
}

func TestGetEligibleDonorsUnknownSeason(t *testing.T) {
	repo := &fakeRepo{seasons: map[uint]*SeasonSnapshot{}}
	svc, _ := newTestService(repo, &recordingAudit{})

	donors, failure := svc.GetEligibleDonors(context.Background(), 5)

	assert.Nil(t, donors)
	require.NotNil(t, failure)
	assert.Equal(t, CodeNotFound, failure.Code)
}

// ==============================
// Summary
// ==============================

func TestGetSummaryPartitionsResults(t *testing.T) {
	okSeason := reachedSeason()
	shortSeason := reachedSeason()
	shortSeason.ID = 2
	shortSeason.TotalRaised = 100_000

	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: okSeason, 2: shortSeason},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	svc, published := newTestService(repo, &recordingAudit{})

	summary, err := svc.GetSummary(context.Background(), []uint{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSeasons)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 2, summary.FailureCount)

	require.Len(t, summary.Successful, 1)
	assert.True(t, summary.Successful[0].Simulation)
	assert.Equal(t, 49_896.0, summary.Totals.FinalProfit)
	assert.Equal(t, 24_948.0, summary.Totals.AgentsTotal)
	assert.Equal(t, 24_948.0, summary.Totals.StakeholdersTotal)

	require.Len(t, summary.Failed, 2)
	assert.Equal(t, uint(2), summary.Failed[0].SeasonID)
	assert.Equal(t, CodeNotEligible, summary.Failed[0].Failure.Code)
	assert.Equal(t, uint(3), summary.Failed[1].SeasonID)
	assert.Equal(t, CodeNotFound, summary.Failed[1].Failure.Code)

	// Summary is read-only: nothing persisted or published
	assert.Empty(t, repo.runs)
	assert.Equal(t, 0, *published)
}

// ==============================
// Campaign Stats
// ==============================

func TestGetCampaignStats(t *testing.T) {
	eligible := *reachedSeason()
	pending := SeasonSnapshot{
		ID: 2, CampaignID: 10, Name: "Summer Season",
		Goal: 500_000, TotalRaised: 100_000, Status: "active",
	}

	repo := &fakeRepo{
		campaigns:       map[uint]*CampaignInfo{10: {ID: 10, Name: "Clean Water Fund"}},
		campaignSeasons: map[uint][]SeasonSnapshot{10: {eligible, pending}},
	}
	svc, _ := newTestService(repo, &recordingAudit{})

	stats, failure := svc.GetCampaignStats(context.Background(), 10)

	require.Nil(t, failure)
	assert.Equal(t, uint(10), stats.CampaignID)
	assert.Equal(t, 2, stats.TotalSeasons)
	assert.Equal(t, 1, stats.EligibleSeasons)

	require.Len(t, stats.Seasons, 1)
	assert.Equal(t, uint(1), stats.Seasons[0].SeasonID)
	assert.Equal(t, 49_896.0, stats.Seasons[0].PotentialProfit)
	assert.Equal(t, 24_948.0, stats.Seasons[0].AgentsShare)
	assert.Equal(t, 49_896.0, stats.TotalPotentialProfit)
}

func TestGetCampaignStatsNotFound(t *testing.T) {
	repo := &fakeRepo{campaigns: map[uint]*CampaignInfo{}}
	svc, _ := newTestService(repo, &recordingAudit{})

	stats, failure := svc.GetCampaignStats(context.Background(), 404)

	assert.Nil(t, stats)
	require.NotNil(t, failure)
	assert.Equal(t, CodeNotFound, failure.Code)
	assert.Equal(t, "Campaign not found", failure.Error)
}

// ==============================
// Run History
// ==============================

func TestListRunsDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{
		seasons: map[uint]*SeasonSnapshot{1: reachedSeason()},
		pools:   map[uint][]DonorContribution{1: testPool(6)},
	}
	svc, _ := newTestService(repo, &recordingAudit{})

	for i := 0; i < 3; i++ {
		_, failure := svc.Execute(context.Background(), 1, "")
		require.Nil(t, failure)
	}

	runs, err := svc.ListRuns(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = svc.ListRuns(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
