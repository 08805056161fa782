package profitsharing

import "time"

// ==============================
// DTOs and Result Models
// ==============================
// Field names and nesting below are the de facto JSON contract downstream
// consumers key off (e.g. vendorDistribution.summary.bmg) — do not rename.

// SeasonSnapshot is the read-only view of a season the engine operates on
type SeasonSnapshot struct {
	ID            uint    `json:"id" db:"id"`
	CampaignID    uint    `json:"campaign_id" db:"campaign_id"`
	CampaignName  string  `json:"campaign_name" db:"campaign_name"`
	Name          string  `json:"name" db:"name"`
	Goal          float64 `json:"goal" db:"goal"`
	TotalRaised   float64 `json:"total_raised" db:"total_raised"`
	DonationCount int     `json:"donation_count" db:"donation_count"`
	Status        string  `json:"status" db:"status"` // upcoming/active/completed
}

// EligibilityResult is the eligibility checker's verdict plus diagnostics
type EligibilityResult struct {
	IsEligible bool                   `json:"isEligible"`
	Reason     string                 `json:"reason"`
	Details    map[string]interface{} `json:"details"`
}

// DonorContribution is a donor's aggregated activity within one season,
// joined with profile fields
type DonorContribution struct {
	DonorID          uint      `json:"donorId" db:"donor_id"`
	FirstName        string    `json:"firstName" db:"first_name"`
	LastName         string    `json:"lastName" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	DonorType        string    `json:"donorType" db:"donor_type"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	DonationCount    int       `json:"donationCount" db:"donation_count"`
	TotalContributed float64   `json:"totalContributed" db:"total_contributed"`
	FirstDonation    time.Time `json:"firstDonation" db:"first_donation"`
	LastDonation     time.Time `json:"lastDonation" db:"last_donation"`
}

// SelectedDonor is an eligible donor with its selection rank (1..N, in
// selection order — not by amount)
type SelectedDonor struct {
	Rank int `json:"rank"`
	DonorContribution
}

// ProfitStep is one stage of the profit formula with its arithmetic shown
type ProfitStep struct {
	Label   string  `json:"label"`
	Formula string  `json:"formula"`
	Value   float64 `json:"value"`
}

// ProfitCalculation is the full 4-stage computation over totalRaised
type ProfitCalculation struct {
	TotalRaised   float64      `json:"totalRaised"`
	Steps         []ProfitStep `json:"steps"`
	FinalProfit   float64      `json:"finalProfit"`
	EffectiveRate float64      `json:"effectiveRate"` // percent, ≈4.99
}

// BranchVerification exposes a branch's allocation sum for auditability
type BranchVerification struct {
	TotalAllocated float64 `json:"totalAllocated"`
	Matches        bool    `json:"matches"`
}

// AgentAllocation is the agents-branch allocation table
type AgentAllocation struct {
	Freelancing   float64 `json:"freelancing"`
	Corporate     float64 `json:"corporate"`
	Major         float64 `json:"major"`
	Miscellaneous float64 `json:"miscellaneous"`
}

type AgentBranch struct {
	Total        float64            `json:"total"`
	Percentage   float64            `json:"percentage"`
	Distribution AgentAllocation    `json:"distribution"`
	Verification BranchVerification `json:"verification"`
}

// StakeholderAllocation is the stakeholders-branch allocation table
type StakeholderAllocation struct {
	R1  float64 `json:"r1"`
	PB  float64 `json:"pb"`
	SF  float64 `json:"sf"`
	BMG float64 `json:"bmg"`
}

type StakeholderBranch struct {
	Total        float64               `json:"total"`
	Percentage   float64               `json:"percentage"`
	Distribution StakeholderAllocation `json:"distribution"`
	Verification BranchVerification    `json:"verification"`
}

// DistributionSummary flattens all eight leaf buckets for consumers
type DistributionSummary struct {
	Freelancing   float64 `json:"freelancing"`
	Corporate     float64 `json:"corporate"`
	Major         float64 `json:"major"`
	Miscellaneous float64 `json:"miscellaneous"`
	R1            float64 `json:"r1"`
	PB            float64 `json:"pb"`
	SF            float64 `json:"sf"`
	BMG           float64 `json:"bmg"`
}

type DistributionVerification struct {
	TotalDistributed float64 `json:"totalDistributed"`
	Matches          bool    `json:"matches"`
}

// VendorDistribution is the full two-branch allocation of the profit
type VendorDistribution struct {
	TotalProfit  float64                  `json:"totalProfit"`
	Agents       AgentBranch              `json:"agents"`
	Stakeholders StakeholderBranch        `json:"stakeholders"`
	Summary      DistributionSummary      `json:"summary"`
	Verification DistributionVerification `json:"verification"`
}

// SeasonInfo is the season identity block on results and failures
type SeasonInfo struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	CampaignID    uint    `json:"campaignId"`
	CampaignName  string  `json:"campaignName"`
	Goal          float64 `json:"goal"`
	TotalRaised   float64 `json:"totalRaised"`
	DonationCount int     `json:"donationCount"`
	Status        string  `json:"status"`
}

// EligibilitySummary reports the qualifying pool on a successful run
type EligibilitySummary struct {
	IsEligible         bool                `json:"isEligible"`
	EligibleDonorCount int                 `json:"eligibleDonorCount"`
	EligibleDonors     []DonorContribution `json:"eligibleDonors"`
}

// ProfitSharingResult is the orchestrator's full success output
type ProfitSharingResult struct {
	Success            bool               `json:"success"`
	Simulation         bool               `json:"simulation"`
	RunID              string             `json:"runId,omitempty"`
	Season             SeasonInfo         `json:"season"`
	Eligibility        EligibilitySummary `json:"eligibility"`
	SelectedDonors     []SelectedDonor    `json:"selectedDonors"`
	ProfitCalculation  ProfitCalculation  `json:"profitCalculation"`
	VendorDistribution VendorDistribution `json:"vendorDistribution"`
	ExecutedAt         time.Time          `json:"executedAt"`
}

// Failure codes, mapped to HTTP statuses at the handler layer
const (
	CodeNotFound         = "NOT_FOUND"
	CodeNotEligible      = "NOT_ELIGIBLE"
	CodeInsufficientPool = "INSUFFICIENT_POOL"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
)

// ExecutionFailure is the structured soft-failure envelope. These are
// expected "no" answers returned as values, never panics.
type ExecutionFailure struct {
	Success bool                   `json:"success"` // always false
	Code    string                 `json:"code"`
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// EligibilityReport is the standalone eligibility-check response
type EligibilityReport struct {
	Season      SeasonInfo        `json:"season"`
	Eligibility EligibilityResult `json:"eligibility"`
}

// ==============================
// Batch / Summary Models
// ==============================

type SummaryTotals struct {
	FinalProfit       float64 `json:"finalProfit"`
	AgentsTotal       float64 `json:"agentsTotal"`
	StakeholdersTotal float64 `json:"stakeholdersTotal"`
}

type SummaryFailure struct {
	SeasonID uint              `json:"seasonId"`
	Failure  *ExecutionFailure `json:"failure"`
}

// ProfitSharingSummary partitions a batch of seasons into successes and
// failures and sums profit across the successes
type ProfitSharingSummary struct {
	TotalSeasons int                    `json:"totalSeasons"`
	SuccessCount int                    `json:"successCount"`
	FailureCount int                    `json:"failureCount"`
	Successful   []*ProfitSharingResult `json:"successful"`
	Failed       []SummaryFailure       `json:"failed"`
	Totals       SummaryTotals          `json:"totals"`
}

// SeasonPotential is a season's not-yet-executed profit projection
type SeasonPotential struct {
	SeasonID          uint    `json:"seasonId"`
	SeasonName        string  `json:"seasonName"`
	Status            string  `json:"status"`
	TotalRaised       float64 `json:"totalRaised"`
	PotentialProfit   float64 `json:"potentialProfit"`
	AgentsShare       float64 `json:"agentsShare"`
	StakeholdersShare float64 `json:"stakeholdersShare"`
}

// CampaignProfitStats aggregates potential profit over a campaign's
// eligible seasons
type CampaignProfitStats struct {
	CampaignID            uint              `json:"campaignId"`
	CampaignName          string            `json:"campaignName"`
	TotalSeasons          int               `json:"totalSeasons"`
	EligibleSeasons       int               `json:"eligibleSeasons"`
	Seasons               []SeasonPotential `json:"seasons"`
	TotalPotentialProfit  float64           `json:"totalPotentialProfit"`
	AgentsPotential       float64           `json:"agentsPotential"`
	StakeholdersPotential float64           `json:"stakeholdersPotential"`
	GeneratedAt           time.Time         `json:"generatedAt"`
}

// CampaignInfo is the minimal campaign identity used by stats and the
// cache refresher
type CampaignInfo struct {
	ID   uint   `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
