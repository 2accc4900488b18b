// Package sbi parses SBI ePassbook statements. Like the Canara layout
// there are no reliable table borders, but here the anchor line starts
// with a "DD Mon YYYY" date and the narration wraps onto the lines that
// follow, terminated by the next anchor or a trailing reference marker.
package sbi

import (
	"log"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/nvraghav/khata/parser/common"
	"github.com/nvraghav/khata/parser/normalize"
	"github.com/nvraghav/khata/parser/pageread"
)

type config struct {
	Anchor      *regexp.Regexp
	RefMarker   *regexp.Regexp
	TableHeader *regexp.Regexp
	PageMarker  *regexp.Regexp
}

func pattern(key, fallback string) *regexp.Regexp {
	if v := viper.GetString(key); v != "" {
		return regexp.MustCompile(v)
	}
	return regexp.MustCompile(fallback)
}

func loadConfig() config {
	return config{
		Anchor:      pattern("bank.sbi.patterns.anchor", `^(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})\b\s*(.*)$`),
		RefMarker:   pattern("bank.sbi.patterns.ref_marker", `(?i)^(?:ref|utr)\b[\s:.]*(\S*)`),
		TableHeader: pattern("bank.sbi.patterns.table_header", `(?i)^(?:txn\s+)?date\s+.*(?:narration|description|particulars)`),
		PageMarker:  pattern("bank.sbi.patterns.page_marker", `(?i)^page\s+\d+`),
	}
}

// Segmentation state: either waiting for an anchor line, or accumulating
// description lines for the current one. A reference marker seals the
// current transaction so trailing boilerplate is not swept into the
// narration.
type scanState int

const (
	awaitingAnchor scanState = iota
	accumulating
	sealed
)

type segmenter struct {
	cfg     config
	state   scanState
	pending *common.Transaction
	descBuf []string
	out     []common.Transaction
}

// Extract walks every page's raw text through the line state machine and
// returns the normalized transaction list. A stated opening balance in the
// header overrides the inferred one.
func Extract(doc pageread.Document) []common.Transaction {
	seg := &segmenter{cfg: loadConfig(), state: awaitingAnchor}
	var headerText strings.Builder

	for pg := 0; pg < doc.NumPages(); pg++ {
		text := doc.Page(pg).Text()
		if pg < 2 {
			headerText.WriteString(text)
			headerText.WriteByte('\n')
		}
		for _, line := range strings.Split(text, "\n") {
			seg.feed(strings.TrimSpace(line))
		}
		// Narrations never wrap across a page break in this layout.
		seg.flush()
	}

	log.Printf("sbi: raw transactions: %d", len(seg.out))
	result := normalize.Normalize(seg.out)

	if len(result) > 0 {
		if ob, found := common.FindStatedOpeningBalance(headerText.String()); found {
			result[0].OpeningBalance = common.Dec(ob)
			log.Printf("sbi: opening balance stated in header: %s", ob)
		}
	}
	return result
}

func (s *segmenter) feed(line string) {
	if line == "" || s.skip(line) {
		return
	}

	if tx, desc, ok := s.parseAnchorLine(line); ok {
		s.flush()
		s.pending = &tx
		s.descBuf = s.descBuf[:0]
		if desc != "" {
			s.descBuf = append(s.descBuf, desc)
		}
		s.state = accumulating
		return
	}

	switch s.state {
	case accumulating:
		if m := s.cfg.RefMarker.FindStringSubmatch(line); m != nil {
			if s.pending != nil && len(m) > 1 {
				s.pending.Reference = m[1]
			}
			s.state = sealed
			return
		}
		s.descBuf = append(s.descBuf, line)
	case sealed, awaitingAnchor:
		// Between transactions: nothing to attach this line to.
	}
}

func (s *segmenter) flush() {
	if s.pending == nil {
		return
	}
	s.pending.Description = common.CleanDescription(strings.Join(s.descBuf, " "))
	s.out = append(s.out, *s.pending)
	s.pending = nil
	s.descBuf = s.descBuf[:0]
	s.state = awaitingAnchor
}

func (s *segmenter) skip(line string) bool {
	lo := strings.ToLower(line)
	if s.cfg.TableHeader.MatchString(lo) || s.cfg.PageMarker.MatchString(lo) {
		return true
	}
	return common.ContainsSkipPhrase(lo)
}

// parseAnchorLine reads the anchor's date and up to three trailing amount
// tokens: one token is the amount alone, two or more mean the last is the
// running balance and the one before it the amount. A negative literal
// token means credit; the balance-diff pass is authoritative when running
// balances exist.
func (s *segmenter) parseAnchorLine(line string) (common.Transaction, string, bool) {
	m := s.cfg.Anchor.FindStringSubmatch(line)
	if m == nil {
		return common.Transaction{}, "", false
	}
	dateStr := m[1]
	remainder := strings.TrimSpace(m[2])
	if common.TryDate(dateStr) == "" {
		return common.Transaction{}, "", false
	}

	allNums := common.FindSignedAmounts(remainder)
	if len(allNums) == 0 {
		return common.Transaction{}, "", false
	}
	nums := allNums
	if len(nums) > 3 {
		nums = nums[len(nums)-3:]
	}

	tx := common.Transaction{Date: dateStr}
	var amtRaw string
	if len(nums) == 1 {
		amtRaw = nums[0]
	} else {
		amtRaw = nums[len(nums)-2]
		tx.Balance = common.Dec(common.ParseAmount(nums[len(nums)-1]))
	}

	amount := common.ParseAmount(amtRaw)
	if amount.IsZero() {
		return common.Transaction{}, "", false
	}
	tx.Amount = amount.Round(2)

	tx.Type = common.Debit
	if strings.HasPrefix(strings.TrimSpace(amtRaw), "-") {
		tx.Type = common.Credit
	}

	desc := remainder
	if pos := strings.Index(remainder, allNums[0]); pos >= 0 {
		desc = strings.TrimSpace(remainder[:pos])
	}
	return tx, desc, true
}
