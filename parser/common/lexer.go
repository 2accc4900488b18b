package common

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date recognition is an ordered scan: spelled-out month forms first, then
// compact forms, then delimited numeric forms, then ISO. The first pattern
// that both matches and parses under one of its layouts wins. Years outside
// [2000, 2035] are rejected so reference numbers that happen to look like
// dates do not anchor a transaction.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`\b(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})\b`), []string{"2 Jan 2006", "2 January 2006"}},
	{regexp.MustCompile(`\b(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2})\b`), []string{"2 Jan 06", "2 January 06"}},
	{regexp.MustCompile(`\b(\d{2}[A-Za-z]{3}\d{4})\b`), []string{"02Jan2006"}},
	{regexp.MustCompile(`\b(\d{2}[A-Za-z]{3}\d{2})\b`), []string{"02Jan06"}},
	{regexp.MustCompile(`\b(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{4})\b`), []string{"2/1/2006", "2-1-2006", "2.1.2006", "1/2/2006"}},
	{regexp.MustCompile(`\b(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2})\b`), []string{"2/1/06", "2-1-06", "2.1.06"}},
	{regexp.MustCompile(`\b(\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})\b`), []string{"2006-1-2", "2006/1/2"}},
}

const (
	minYear = 2000
	maxYear = 2035
)

var (
	amountTokenRE  = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
	signedAmountRE = regexp.MustCompile(`-?[\d,]+\.\d{2}`)
	amountJunkRE   = regexp.MustCompile(`[₹$€£,\s]`)
	drCrSuffixRE   = regexp.MustCompile(`(?i)\s*(dr|cr)\.?\s*$`)
	parensNumRE    = regexp.MustCompile(`^\(([0-9.,]+)\)$`)
	valueDateRE    = regexp.MustCompile(`\(?\s*[Vv]alue\s+[Dd]ate\s*:\s*[\d\-/.]+\s*\)?`)
	chqSuffixRE    = regexp.MustCompile(`(?i)\s*Chq\s*[:.]?\s*[\dA-Za-z]*\s*$`)
	timestampRE    = regexp.MustCompile(`\b\d{2}:\d{2}:\d{2}\b`)
	longHexRE      = regexp.MustCompile(`\b[A-Fa-f0-9]{16,}\b`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
	refTokenRE     = regexp.MustCompile(`^[A-Za-z0-9]{2,12}[-/]?\d{5,}$`)
	plainNumRE     = regexp.MustCompile(`^[\d,. ]+$`)
)

// TryDate reports the first date-looking token in text, in its source
// format. Returns "" when nothing parses within the accepted year range.
func TryDate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 5 || len(text) > 80 {
		return ""
	}
	for _, dp := range datePatterns {
		m := dp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if _, ok := parseDate(raw, dp.layouts); ok {
			return raw
		}
	}
	return ""
}

// NormalizeDate rewrites a recognized date to YYYY-MM-DD. Unrecognized
// input is returned unchanged so the caller keeps the source format.
func NormalizeDate(text string) string {
	if text == "" {
		return ""
	}
	for _, dp := range datePatterns {
		m := dp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if dt, ok := parseDate(raw, dp.layouts); ok {
			return dt.Format("2006-01-02")
		}
	}
	return text
}

func parseDate(raw string, layouts []string) (time.Time, bool) {
	// PDF extraction can leave doubled spaces inside a matched token.
	raw = whitespaceRE.ReplaceAllString(raw, " ")
	for _, layout := range layouts {
		dt, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if dt.Year() >= minYear && dt.Year() <= maxYear {
			return dt, true
		}
	}
	return time.Time{}, false
}

// ParseAmount extracts a non-negative monetary magnitude from a cell.
// Currency symbols, grouping commas, DR/CR suffixes, parentheses and sign
// markers are stripped; direction is the caller's concern. Returns zero
// when no amount can be recovered.
func ParseAmount(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	if m := parensNumRE.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = amountJunkRE.ReplaceAllString(s, "")
	s = strings.TrimSpace(drCrSuffixRE.ReplaceAllString(s, ""))
	s = strings.TrimSpace(strings.ReplaceAll(s, "-", ""))
	if s == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount.Abs()
}

// ParseAmountDirected splits a single amount cell into (debit, credit)
// using its sign markers: parentheses, a leading minus, or a trailing DR
// suffix mean debit; a trailing CR suffix means credit; anything else is
// treated as debit.
func ParseAmountDirected(text string) (decimal.Decimal, decimal.Decimal) {
	amount := ParseAmount(text)
	if amount.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.Contains(trimmed, "(") || strings.HasPrefix(trimmed, "-") || strings.HasSuffix(upper, "DR"):
		return amount, decimal.Zero
	case strings.HasSuffix(upper, "CR"):
		return decimal.Zero, amount
	}
	return amount, decimal.Zero
}

// IsAmountToken reports whether s is a bare amount with exactly two
// decimal places, e.g. "1,234.56".
func IsAmountToken(s string) bool {
	return amountTokenRE.MatchString(strings.TrimSpace(s))
}

// FindSignedAmounts returns every amount token in s, sign included, in
// order of appearance.
func FindSignedAmounts(s string) []string {
	return signedAmountRE.FindAllString(s, -1)
}

// IsNumeric reports whether a cell reduces to a parseable number once
// currency junk and DR/CR suffixes are stripped.
func IsNumeric(text string) bool {
	s := amountJunkRE.ReplaceAllString(strings.TrimSpace(text), "")
	s = strings.TrimSpace(drCrSuffixRE.ReplaceAllString(s, ""))
	if s == "" {
		return false
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

// LooksLikeRef reports whether a cell looks like an instrument or UTR
// reference code rather than free narration.
func LooksLikeRef(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) < 6 {
		return false
	}
	if plainNumRE.MatchString(t) {
		return false
	}
	return refTokenRE.MatchString(t)
}

// CleanDescription strips value-date annotations, cheque suffixes,
// timestamps and long hex reference blobs, then collapses whitespace.
func CleanDescription(desc string) string {
	desc = valueDateRE.ReplaceAllString(desc, "")
	desc = chqSuffixRE.ReplaceAllString(desc, "")
	desc = timestampRE.ReplaceAllString(desc, "")
	desc = longHexRE.ReplaceAllString(desc, "")
	return CollapseWhitespace(desc)
}

// CollapseWhitespace squeezes runs of whitespace to single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}
