package investments

import "time"

const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"

	TypeEquity        = "Equity"
	TypeMutualFund    = "Mutual Fund"
	TypeFixedDeposit  = "Fixed Deposit"
	TypeProvidentFund = "Provident Fund"
	TypePension       = "Pension"
	TypeGold          = "Gold"
	TypeRealEstate    = "Real Estate"
	TypeBonds         = "Bonds"
	TypeCrypto        = "Cryptocurrency"
	TypeOther         = "Other"
)

// Investment is one normalized holding.
type Investment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Allocation float64 `json:"allocation"`
	Return     float64 `json:"return"`
	RiskLevel  string  `json:"riskLevel"`
	Icon       string  `json:"icon"`
}

// Portfolio is the most recent import for a user.
type Portfolio struct {
	UserID     string
	Holdings   []Investment
	SourceName string
	ImportedAt time.Time
}

// Summary aggregates a set of holdings.
type Summary struct {
	PortfolioValue   float64            `json:"portfolioValue"`
	Holdings         int                `json:"holdings"`
	WeightedReturn   float64            `json:"weightedReturn"`
	AllocationByType map[string]float64 `json:"allocationByType"`
	RiskBreakdown    map[string]float64 `json:"riskBreakdown"`
	Sample           bool               `json:"sample"`
	ImportedAt       *time.Time         `json:"importedAt,omitempty"`
}
