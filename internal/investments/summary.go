package investments

import "github.com/shopspring/decimal"

// Summarize totals holdings and breaks the value down by type and risk level.
// WeightedReturn is the value-weighted mean of Return.
func Summarize(holdings []Investment) Summary {
	s := Summary{
		Holdings:         len(holdings),
		AllocationByType: map[string]float64{},
		RiskBreakdown:    map[string]float64{},
	}
	total := decimal.Zero
	weighted := decimal.Zero
	byType := map[string]decimal.Decimal{}
	byRisk := map[string]decimal.Decimal{}
	for _, h := range holdings {
		v := decimal.NewFromFloat(h.Value)
		total = total.Add(v)
		weighted = weighted.Add(v.Mul(decimal.NewFromFloat(h.Return)))
		byType[h.Type] = byType[h.Type].Add(v)
		byRisk[h.RiskLevel] = byRisk[h.RiskLevel].Add(v)
	}
	s.PortfolioValue = total.Round(2).InexactFloat64()
	if !total.IsPositive() {
		return s
	}
	s.WeightedReturn = weighted.Div(total).Round(2).InexactFloat64()
	hundred := decimal.NewFromInt(100)
	for typ, v := range byType {
		s.AllocationByType[typ] = v.Mul(hundred).Div(total).Round(1).InexactFloat64()
	}
	for risk, v := range byRisk {
		s.RiskBreakdown[risk] = v.Mul(hundred).Div(total).Round(1).InexactFloat64()
	}
	return s
}
