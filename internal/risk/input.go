package risk

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationError lists the questionnaire fields that were not supplied.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProfileInput is the request body; nil fields were absent.
type ProfileInput struct {
	Age               *int `json:"age"`
	InvestmentHorizon *int `json:"investment_horizon"`
	RiskTolerance     *int `json:"risk_tolerance"`
	EmergencyFund     *int `json:"emergency_fund"`
	IncomeStability   *int `json:"income_stability"`
}

// Profile returns the complete profile or a *ValidationError.
func (in ProfileInput) Profile() (Profile, error) {
	fields := []struct {
		name string
		v    *int
	}{
		{"age", in.Age},
		{"investment_horizon", in.InvestmentHorizon},
		{"risk_tolerance", in.RiskTolerance},
		{"emergency_fund", in.EmergencyFund},
		{"income_stability", in.IncomeStability},
	}
	var missing []string
	for _, f := range fields {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Profile{}, &ValidationError{Missing: missing}
	}
	return Profile{
		Age:               *in.Age,
		InvestmentHorizon: *in.InvestmentHorizon,
		RiskTolerance:     *in.RiskTolerance,
		EmergencyFund:     *in.EmergencyFund,
		IncomeStability:   *in.IncomeStability,
	}, nil
}
