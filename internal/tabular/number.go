package tabular

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencyWords = []string{"inr", "rs.", "rs", "usd"}

// ParseNumber coerces a spreadsheet cell to a decimal, ignoring currency symbols,
// currency codes, grouping commas, percent signs and spaces. Accounting negatives
// such as "(1,200)" are supported. ok is false when nothing numeric remains.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	lower := strings.ToLower(s)
	for _, w := range currencyWords {
		if strings.HasPrefix(lower, w) {
			s = s[len(w):]
			lower = lower[len(w):]
		}
		if strings.HasSuffix(lower, w) {
			s = s[:len(s)-len(w)]
			lower = lower[:len(lower)-len(w)]
		}
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '%' || r == '_':
			return -1
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		default:
			return r
		}
	}, s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// ParseFloat is ParseNumber as a float64, with 0 for non-numeric input.
func ParseFloat(raw string) float64 {
	d, ok := ParseNumber(raw)
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}
