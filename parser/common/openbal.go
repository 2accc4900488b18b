package common

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var statedOpeningRE = regexp.MustCompile(
	`(?i)\b(?:opening\s+balance|open(?:ing)?\s+bal\.?|ob\s*:|brought\s+forward|b/?f)\b\s*[:\-]?\s*([\d,]+\.\d{2})`)

// FindStatedOpeningBalance scans header text for an explicitly printed
// opening-balance or brought-forward figure. Such a figure overrides any
// balance the normalizer infers.
func FindStatedOpeningBalance(text string) (decimal.Decimal, bool) {
	m := statedOpeningRE.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	v := ParseAmount(m[1])
	if !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}
