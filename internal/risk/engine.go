package risk

import (
	"fmt"
	"math"
)

const maxRecommendations = 6

const (
	CategoryConservative           = "Conservative"
	CategoryModeratelyConservative = "Moderately Conservative"
	CategoryModerate               = "Moderate"
	CategoryModeratelyAggressive   = "Moderately Aggressive"
	CategoryAggressive             = "Aggressive"
)

// Weights combines the five partial scores. The defaults sum to 1.0.
type Weights struct {
	Age       float64
	Horizon   float64
	Tolerance float64
	Emergency float64
	Stability float64
}

func DefaultWeights() Weights {
	return Weights{Age: 0.15, Horizon: 0.20, Tolerance: 0.35, Emergency: 0.15, Stability: 0.15}
}

func (w Weights) Sum() float64 {
	return w.Age + w.Horizon + w.Tolerance + w.Emergency + w.Stability
}

type band struct {
	below float64
	score float64
}

var (
	ageBands       = []band{{30, 90}, {40, 80}, {50, 60}, {60, 40}}
	horizonBands   = []band{{3, 25}, {5, 50}, {10, 75}}
	emergencyBands = []band{{3, 25}, {6, 50}, {9, 75}}

	categoryBands = []struct {
		below    float64
		category string
	}{
		{30, CategoryConservative},
		{50, CategoryModeratelyConservative},
		{70, CategoryModerate},
		{85, CategoryModeratelyAggressive},
	}

	allocations = map[string]Allocation{
		CategoryConservative:           {Equities: 20, FixedIncome: 50, Gold: 20, Cash: 10},
		CategoryModeratelyConservative: {Equities: 35, FixedIncome: 45, Gold: 15, Cash: 5},
		CategoryModerate:               {Equities: 50, FixedIncome: 30, Gold: 15, Cash: 5},
		CategoryModeratelyAggressive:   {Equities: 70, FixedIncome: 20, Gold: 5, Cash: 5},
		CategoryAggressive:             {Equities: 80, FixedIncome: 10, Gold: 5, Cash: 5},
	}

	categoryNotes = map[string]string{
		CategoryConservative: "Your risk profile suggests a focus on capital preservation. Consider fixed deposits, " +
			"government bonds and small savings schemes like PPF.",
		CategoryModeratelyConservative: "Your profile favours stability with some growth. Keep most of your money in " +
			"debt funds and bonds while adding a modest allocation to large-cap equity funds.",
		CategoryModerate: "A balanced mix suits you. Combine diversified equity mutual funds with debt funds " +
			"and a small gold allocation.",
		CategoryModeratelyAggressive: "You can lean towards growth. Hold a core of large-cap and flexi-cap equity " +
			"funds with a smaller slice of debt for stability.",
		CategoryAggressive: "Your risk profile allows for significant equity exposure. Consider a mix of " +
			"large-cap, mid-cap and small-cap mutual funds or direct equity investments.",
	}
)

const (
	noteYoung = "At your age you can afford more risk for potentially higher returns. Consider allocating more " +
		"to equity mutual funds or direct equity."
	noteNearRetirement = "As you approach retirement, consider gradually shifting towards conservative investments " +
		"like government bonds and fixed deposits."
	noteShortHorizonFmt = "Your investment horizon is %d years, which may be too short for your risk profile. " +
		"Consider reducing exposure to volatile assets or extending your horizon."
	noteEmergencyFmt = "Your emergency fund covers %d months of expenses. Build it to at least 6 months before " +
		"taking on high-risk investments."
	noteUnstableIncome = "With your income stability, keep more in liquid investments and limit exposure to " +
		"illiquid assets like real estate."
	noteTax = "For tax efficiency, consider ELSS mutual funds and PPF, which offer deductions under Section 80C."
	noteRebalance = "Review and rebalance your portfolio once a year to stay close to your target allocation."
)

func stepScore(v int, bands []band, top float64) float64 {
	for _, b := range bands {
		if float64(v) < b.below {
			return b.score
		}
	}
	return top
}

func scaleTen(v int) float64 {
	return float64(min(max(v, 1), 10)) * 10
}

// Score computes the weighted 0-100 composite, rounded to one decimal.
func Score(p Profile, w Weights) float64 {
	composite := w.Age*stepScore(p.Age, ageBands, 25) +
		w.Horizon*stepScore(p.InvestmentHorizon, horizonBands, 100) +
		w.Tolerance*scaleTen(p.RiskTolerance) +
		w.Emergency*stepScore(p.EmergencyFund, emergencyBands, 100) +
		w.Stability*scaleTen(p.IncomeStability)
	return math.Round(composite*10) / 10
}

// CategoryFor classifies a score. Each threshold belongs to the higher category.
func CategoryFor(score float64) string {
	for _, b := range categoryBands {
		if score < b.below {
			return b.category
		}
	}
	return CategoryAggressive
}

// AllocationFor returns the target allocation of a category.
func AllocationFor(category string) Allocation {
	if a, ok := allocations[category]; ok {
		return a
	}
	return allocations[CategoryModerate]
}

// Recommendations lists the category note, then profile-specific notes, then general notes.
func Recommendations(p Profile, score float64, category string) []string {
	out := []string{categoryNotes[category]}
	switch {
	case p.Age < 30:
		out = append(out, noteYoung)
	case p.Age > 50:
		out = append(out, noteNearRetirement)
	}
	if p.EmergencyFund < 6 {
		out = append(out, fmt.Sprintf(noteEmergencyFmt, p.EmergencyFund))
	}
	if p.InvestmentHorizon < 5 && score > 50 {
		out = append(out, fmt.Sprintf(noteShortHorizonFmt, p.InvestmentHorizon))
	}
	if p.IncomeStability < 5 {
		out = append(out, noteUnstableIncome)
	}
	out = append(out, noteTax, noteRebalance)
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// Evaluate runs the full scoring pipeline. It performs no I/O.
func Evaluate(p Profile, w Weights) Result {
	score := Score(p, w)
	category := CategoryFor(score)
	return Result{
		Score:           score,
		Category:        category,
		Allocation:      AllocationFor(category),
		Recommendations: Recommendations(p, score, category),
	}
}
