// Package leadscore rates how likely a solar lead is to convert. It asks an
// OpenAI-compatible model first and falls back to a weighted heuristic.
package leadscore

import (
	"fmt"
	"math"

	"suryaghar-backend/internal/subsidy"
)

type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCold Tier = "cold"
)

const (
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"

	hotThreshold  = 70
	warmThreshold = 40

	minProbability = 5
	maxProbability = 95
)

// Input is the subset of customer attributes that drive the score.
type Input struct {
	CapacityKw  float64 `json:"capacityKw"`
	MonthlyBill float64 `json:"monthlyBill"`
	State       string  `json:"state"`
	District    string  `json:"district"`
	PanelType   string  `json:"panelType"`
	Source      string  `json:"source"`
	OwnsRoof    bool    `json:"ownsRoof"`
}

type Result struct {
	Score                 int      `json:"score"`
	Tier                  Tier     `json:"tier"`
	ConversionProbability int      `json:"conversionProbability"`
	Factors               []string `json:"factors"`
	Recommendation        string   `json:"recommendation"`
	Source                string   `json:"source"`
}

// TierFor maps a score onto hot, warm or cold.
func TierFor(score int) Tier {
	switch {
	case score >= hotThreshold:
		return TierHot
	case score >= warmThreshold:
		return TierWarm
	default:
		return TierCold
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Heuristic scores a lead without any network call.
func Heuristic(in Input) *Result {
	score := 20
	var factors []string

	switch {
	case in.CapacityKw >= 5:
		score += 20
		factors = append(factors, fmt.Sprintf("large system (%.1f kW)", in.CapacityKw))
	case in.CapacityKw >= 3:
		score += 15
		factors = append(factors, fmt.Sprintf("mid-size system (%.1f kW)", in.CapacityKw))
	case in.CapacityKw >= 2:
		score += 10
	case in.CapacityKw > 0:
		score += 5
	}

	switch {
	case in.MonthlyBill >= 3000:
		score += 25
		factors = append(factors, "high monthly electricity bill")
	case in.MonthlyBill >= 1500:
		score += 18
		factors = append(factors, "moderate monthly electricity bill")
	case in.MonthlyBill >= 800:
		score += 10
	case in.MonthlyBill > 0:
		score += 4
	}

	switch in.Source {
	case "referral":
		score += 15
		factors = append(factors, "referred by an existing customer")
	case "direct":
		score += 5
	}

	if in.OwnsRoof {
		score += 15
		factors = append(factors, "owns the rooftop")
	} else {
		score -= 10
		factors = append(factors, "rooftop ownership not confirmed")
	}

	if in.PanelType == "dcr" {
		score += 10
		factors = append(factors, "eligible for central subsidy")
		if subsidy.StateSubsidy(1, in.State) > 0 {
			score += 5
			factors = append(factors, "state top-up subsidy available")
		}
	}

	score = clamp(score, 0, 100)
	tier := TierFor(score)

	return &Result{
		Score:                 score,
		Tier:                  tier,
		ConversionProbability: clamp(int(math.Round(float64(score)*0.9)), minProbability, maxProbability),
		Factors:               factors,
		Recommendation:        recommendationFor(tier),
		Source:                SourceHeuristic,
	}
}

func recommendationFor(tier Tier) string {
	switch tier {
	case TierHot:
		return "Schedule a site survey within 48 hours and start document collection."
	case TierWarm:
		return "Share a subsidy quote and follow up within a week."
	default:
		return "Keep in nurture list; revisit when the customer confirms roof ownership or budget."
	}
}
