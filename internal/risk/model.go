package risk

import "time"

// Profile is the five-field questionnaire.
type Profile struct {
	Age               int `json:"age"`
	InvestmentHorizon int `json:"investment_horizon"`
	RiskTolerance     int `json:"risk_tolerance"`
	EmergencyFund     int `json:"emergency_fund"`
	IncomeStability   int `json:"income_stability"`
}

// Allocation is a target split in whole percentages.
type Allocation struct {
	Equities    int `json:"equities"`
	FixedIncome int `json:"fixed_income"`
	Gold        int `json:"gold"`
	Cash        int `json:"cash"`
}

func (a Allocation) Total() int {
	return a.Equities + a.FixedIncome + a.Gold + a.Cash
}

// Result is the engine output.
type Result struct {
	Score           float64    `json:"risk_score"`
	Category        string     `json:"risk_category"`
	Allocation      Allocation `json:"asset_allocation"`
	Recommendations []string   `json:"recommendations"`
}

// Analysis is a persisted, immutable evaluation.
type Analysis struct {
	ID        string
	UserID    string
	Profile   Profile
	Result    Result
	CreatedAt time.Time
}
