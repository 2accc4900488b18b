package parser

import (
	"log"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/nvraghav/khata/parser/pageread"
)

// Parsing profiles. Kotak statements are table-based and ride the generic
// column-mapped pipeline; canara and sbi get their bespoke raw-text
// parsers.
const (
	BankCanara  = "canara"
	BankKotak   = "kotak"
	BankSBI     = "sbi"
	BankGeneric = "generic"
)

// Keyword checks run before date-signature checks: two banks can share a
// date format, so an explicit name always wins. Order inside the slice is
// the check order.
var defaultBankKeywords = []struct {
	bank     string
	keywords []string
}{
	{BankCanara, []string{"canara bank", "cnrb", "canara aspire", "canara savings", "canarabank"}},
	{BankKotak, []string{"kotak", "kotak mahindra", "811"}},
	{BankSBI, []string{"state bank of india", "sbin0", "onlinesbi", "yono"}},
}

var (
	canaraLineSig = regexp.MustCompile(`^\d{1,2}-\d{2}-\d{4}\s`)
	sbiLineSig    = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}\s+\d{4}\s`)
)

const (
	signatureScanLines = 100
	signatureMinHits   = 3
)

// DetectBank picks the parsing profile from the first page: bank-name
// keywords first, then a scan of the leading lines for a bank-specific
// date-format signature. Unmatched documents parse as generic.
func DetectBank(doc pageread.Document) string {
	if doc.NumPages() == 0 {
		return BankGeneric
	}
	text := doc.Page(0).Text()
	lower := strings.ToLower(text)

	for _, entry := range defaultBankKeywords {
		keywords := viper.GetStringSlice("bank." + entry.bank + ".keywords")
		if len(keywords) == 0 {
			keywords = entry.keywords
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return entry.bank
			}
		}
	}

	// Secondary signature: which date format anchors the leading lines.
	lines := strings.Split(text, "\n")
	if len(lines) > signatureScanLines {
		lines = lines[:signatureScanLines]
	}
	canaraHits, sbiHits := 0, 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if canaraLineSig.MatchString(line) {
			canaraHits++
		}
		if sbiLineSig.MatchString(line) {
			sbiHits++
		}
	}
	switch {
	case canaraHits >= signatureMinHits:
		log.Printf("detect: date signature matched canara (%d lines)", canaraHits)
		return BankCanara
	case sbiHits >= signatureMinHits:
		log.Printf("detect: date signature matched sbi (%d lines)", sbiHits)
		return BankSBI
	}
	return BankGeneric
}
