package investments

import (
	"strings"
	"unicode"
)

type typeRule struct {
	typ      string
	keywords []string
}

// Checked in order; the first matching rule wins.
var typeRules = []typeRule{
	{TypeProvidentFund, []string{"ppf", "provident fund", "epf"}},
	{TypePension, []string{"nps", "national pension"}},
	{TypeFixedDeposit, []string{"fd", "fixed deposit"}},
	{TypeGold, []string{"gold", "silver"}},
	{TypeRealEstate, []string{"real estate", "property"}},
	{TypeBonds, []string{"bond", "debenture"}},
	{TypeEquity, []string{"equity", "stock", "share"}},
	{TypeMutualFund, []string{"mutual fund", "fund"}},
}

var riskByType = map[string]string{
	TypeEquity:        RiskHigh,
	TypeRealEstate:    RiskHigh,
	TypeCrypto:        RiskHigh,
	TypeMutualFund:    RiskMedium,
	TypeGold:          RiskMedium,
	TypeBonds:         RiskMedium,
	TypeFixedDeposit:  RiskLow,
	TypeProvidentFund: RiskLow,
	TypePension:       RiskLow,
}

var iconByType = map[string]string{
	TypeEquity:        "trending-up",
	TypeMutualFund:    "pie-chart",
	TypeFixedDeposit:  "landmark",
	TypeProvidentFund: "shield",
	TypePension:       "umbrella",
	TypeGold:          "coins",
	TypeRealEstate:    "home",
	TypeBonds:         "file-text",
	TypeOther:         "box",
}

// InferType guesses the asset type from a holding name.
func InferType(name string) string {
	lower := strings.ToLower(name)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if matchKeyword(lower, words, kw) {
				return rule.typ
			}
		}
	}
	return TypeOther
}

// Short codes like "fd" only match as whole words so "Hdfc" is not a fixed deposit.
func matchKeyword(lower string, words []string, kw string) bool {
	if len(kw) > 3 {
		return strings.Contains(lower, kw)
	}
	for _, w := range words {
		if w == kw {
			return true
		}
	}
	return false
}

// InferRiskLevel honours an explicit high/medium/low label and otherwise derives risk from the type.
func InferRiskLevel(typ, explicit string) string {
	label := strings.ToLower(strings.TrimSpace(explicit))
	switch {
	case strings.Contains(label, "high"):
		return RiskHigh
	case strings.Contains(label, "medium"), strings.Contains(label, "moderate"):
		return RiskMedium
	case strings.Contains(label, "low"):
		return RiskLow
	}
	if risk, ok := riskByType[typ]; ok {
		return risk
	}
	return RiskMedium
}

// IconFor returns the UI icon name for a type.
func IconFor(typ string) string {
	if icon, ok := iconByType[typ]; ok {
		return icon
	}
	return "box"
}
