package investments

import "fmt"

var sampleRows = []struct {
	name  string
	value float64
	ret   float64
}{
	{"HDFC Bank Shares", 524000, 12.4},
	{"Parag Parikh Flexi Cap Mutual Fund", 265000, 15.2},
	{"SBI Fixed Deposit", 312000, 7.1},
	{"Sovereign Gold Bond 2031", 186500, 9.8},
	{"Public Provident Fund", 150000, 7.1},
}

// SampleHoldings is shown to users who have not imported a portfolio yet.
func SampleHoldings() []Investment {
	out := make([]Investment, 0, len(sampleRows))
	for i, r := range sampleRows {
		typ := InferType(r.name)
		out = append(out, Investment{
			ID:        fmt.Sprintf("inv_%d", i+1),
			Name:      r.name,
			Type:      typ,
			Value:     r.value,
			Return:    r.ret,
			RiskLevel: InferRiskLevel(typ, ""),
			Icon:      IconFor(typ),
		})
	}
	assignShares(out)
	return out
}
