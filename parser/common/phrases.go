package common

import "strings"

// Phrases that mark summary or boilerplate rows which must never become
// transactions.
var skipPhrases = []string{
	"opening balance", "closing balance", "brought forward",
	"carried forward", "page total", "grand total",
	"statement summary", "this is a computer",
	"generated on", "printed on", "account summary",
	"nominee", "ifsc code", "end of statement",
}

// ContainsSkipPhrase reports whether text (matched case-insensitively)
// carries any known summary/boilerplate phrase.
func ContainsSkipPhrase(text string) bool {
	lo := strings.ToLower(text)
	for _, p := range skipPhrases {
		if strings.Contains(lo, p) {
			return true
		}
	}
	return false
}
