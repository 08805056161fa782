package profitsharing

import (
	"fmt"
	"math"
	"math/rand"
)

// ==============================
// Distribution Constants
// ==============================

const (
	// MinDonations is the completed-donation threshold a donor must reach
	// within a season to qualify for selection.
	MinDonations = 5

	// SelectedDonorsCount is how many donors are drawn from the eligible pool.
	SelectedDonorsCount = 2

	// VerificationTolerance is the allowed drift (in currency units) between
	// a branch total and the sum of its allocations.
	VerificationTolerance = 0.01
)

// Profit formula multipliers, applied strictly in this order.
const (
	initialMultiplier = 1.8
	firstMultiplier   = 0.1
	secondMultiplier  = 0.44
	finalMultiplier   = 0.63
)

// Agent allocation rates (share of the agents branch), except major which is
// computed from the season's total raised at a flat rate per million.
const (
	freelancingRate     = 0.3949
	corporateRate       = 0.3050
	majorRatePerMillion = 10000.0
)

// Stakeholder allocation rates. These sum to exactly 100%.
const (
	r1Rate  = 0.05
	pbRate  = 0.15
	sfRate  = 0.20
	bmgRate = 0.60
)

// ==============================
// 🎯 Eligibility Checker
// ==============================

// CheckEligibility evaluates the eligibility gates in order; the first
// failing gate wins. Pure function of the season snapshot.
func CheckEligibility(season *SeasonSnapshot) EligibilityResult {
	if season == nil {
		return EligibilityResult{
			IsEligible: false,
			Reason:     "Season not found",
			Details:    map[string]interface{}{},
		}
	}

	if season.Goal <= 0 {
		return EligibilityResult{
			IsEligible: false,
			Reason:     "Season has no goal set",
			Details: map[string]interface{}{
				"goal": season.Goal,
			},
		}
	}

	if season.TotalRaised < season.Goal {
		remaining := round2(season.Goal - season.TotalRaised)
		progress := round2(season.TotalRaised / season.Goal * 100)
		return EligibilityResult{
			IsEligible: false,
			Reason:     "Season goal not yet reached",
			Details: map[string]interface{}{
				"goal":            season.Goal,
				"totalRaised":     season.TotalRaised,
				"remaining":       remaining,
				"progressPercent": progress,
			},
		}
	}

	if season.Status != "active" && season.Status != "completed" {
		return EligibilityResult{
			IsEligible: false,
			Reason:     fmt.Sprintf("Season status is '%s' (must be 'active' or 'completed')", season.Status),
			Details: map[string]interface{}{
				"status": season.Status,
			},
		}
	}

	return EligibilityResult{
		IsEligible: true,
		Reason:     "Season is eligible for profit sharing",
		Details: map[string]interface{}{
			"progressPercent": 100.0,
			"status":          season.Status,
		},
	}
}

// ==============================
// 🎲 Random Selector
// ==============================

// SelectRandomDonors draws count donors from the pool without replacement
// using a Fisher-Yates shuffle over a copy. Every permutation is equally
// likely given a uniform rng. A pool no larger than count is returned whole,
// in its original order.
func SelectRandomDonors(pool []DonorContribution, count int, rng *rand.Rand) []DonorContribution {
	if count < 0 {
		count = 0
	}

	if len(pool) <= count {
		out := make([]DonorContribution, len(pool))
		copy(out, pool)
		return out
	}

	shuffled := make([]DonorContribution, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:count]
}

// ==============================
// 💰 Profit Calculator
// ==============================

// CalculateProfit applies the 4-stage multiplicative formula to the season's
// total raised. Each stage is rounded to 2 decimals before feeding the next,
// matching the displayed step values (this can drift a few cents from a
// single-multiplier computation for very large totals).
func CalculateProfit(totalRaised float64) ProfitCalculation {
	step1 := round2(totalRaised * initialMultiplier)
	step2 := round2(step1 * firstMultiplier)
	step3 := round2(step2 * secondMultiplier)
	finalProfit := round2(step3 * finalMultiplier)

	steps := []ProfitStep{
		{Label: "INITIAL", Formula: fmt.Sprintf("%.2f * %.2f = %.2f", totalRaised, initialMultiplier, step1), Value: step1},
		{Label: "FIRST", Formula: fmt.Sprintf("%.2f * %.2f = %.2f", step1, firstMultiplier, step2), Value: step2},
		{Label: "SECOND", Formula: fmt.Sprintf("%.2f * %.2f = %.2f", step2, secondMultiplier, step3), Value: step3},
		{Label: "FINAL", Formula: fmt.Sprintf("%.2f * %.2f = %.2f", step3, finalMultiplier, finalProfit), Value: finalProfit},
	}

	effectiveRate := round2(initialMultiplier * firstMultiplier * secondMultiplier * finalMultiplier * 100)

	return ProfitCalculation{
		TotalRaised:   totalRaised,
		Steps:         steps,
		FinalProfit:   finalProfit,
		EffectiveRate: effectiveRate,
	}
}

// ==============================
// 🏦 Vendor Distributor
// ==============================

// DistributeToVendors splits the profit 50/50 into the agents and
// stakeholders branches and applies each branch's allocation table. The
// major-agent allocation is driven by totalRaised, not by profit, so it can
// exceed the agents share; the miscellaneous remainder clamps at zero and
// the branch verification reports the mismatch instead of correcting it.
func DistributeToVendors(totalProfit, totalRaised float64) VendorDistribution {
	agentsShare := round2(totalProfit * 0.5)
	stakeholdersShare := round2(totalProfit * 0.5)

	// Agent branch
	freelancing := round2(agentsShare * freelancingRate)
	corporate := round2(agentsShare * corporateRate)
	major := round2(totalRaised / 1_000_000 * majorRatePerMillion)
	miscellaneous := round2(agentsShare - (freelancing + corporate + major))
	if miscellaneous < 0 {
		miscellaneous = 0
	}

	agentsAllocated := round2(freelancing + corporate + major + miscellaneous)
	agents := AgentBranch{
		Total:      agentsShare,
		Percentage: 50,
		Distribution: AgentAllocation{
			Freelancing:   freelancing,
			Corporate:     corporate,
			Major:         major,
			Miscellaneous: miscellaneous,
		},
		Verification: BranchVerification{
			TotalAllocated: agentsAllocated,
			Matches:        math.Abs(agentsAllocated-agentsShare) <= VerificationTolerance,
		},
	}

	// Stakeholder branch: 5+15+20+60 = 100%, no remainder needed
	r1 := round2(stakeholdersShare * r1Rate)
	pb := round2(stakeholdersShare * pbRate)
	sf := round2(stakeholdersShare * sfRate)
	bmg := round2(stakeholdersShare * bmgRate)

	stakeholdersAllocated := round2(r1 + pb + sf + bmg)
	stakeholders := StakeholderBranch{
		Total:      stakeholdersShare,
		Percentage: 50,
		Distribution: StakeholderAllocation{
			R1:  r1,
			PB:  pb,
			SF:  sf,
			BMG: bmg,
		},
		Verification: BranchVerification{
			TotalAllocated: stakeholdersAllocated,
			Matches:        math.Abs(stakeholdersAllocated-stakeholdersShare) <= VerificationTolerance,
		},
	}

	totalDistributed := round2(agentsShare + stakeholdersShare)

	return VendorDistribution{
		TotalProfit:  round2(totalProfit),
		Agents:       agents,
		Stakeholders: stakeholders,
		Summary: DistributionSummary{
			Freelancing:   freelancing,
			Corporate:     corporate,
			Major:         major,
			Miscellaneous: miscellaneous,
			R1:            r1,
			PB:            pb,
			SF:            sf,
			BMG:           bmg,
		},
		Verification: DistributionVerification{
			TotalDistributed: totalDistributed,
			Matches:          math.Abs(totalDistributed-round2(totalProfit)) <= VerificationTolerance,
		},
	}
}

// round2 rounds to 2 decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
