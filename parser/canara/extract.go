// Package canara parses Canara ePassbook statements, which render no
// usable table borders. Transactions are recovered from raw page text: a
// DD-MM-YYYY anchor line carries the amounts, and the narration lines
// printed above it form the description.
package canara

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
	TableHeader *regexp.Regexp
	PageMarker  *regexp.Regexp
	ChqLine     *regexp.Regexp
}

func pattern(key, fallback string) *regexp.Regexp {
	if v := viper.GetString(key); v != "" {
		return regexp.MustCompile(v)
	}
	return regexp.MustCompile(fallback)
}

func loadConfig() config {
	return config{
		Anchor:      pattern("bank.canara.patterns.anchor", `^(\d{1,2}-\d{2}-\d{4})\s+(.*)`),
		TableHeader: pattern("bank.canara.patterns.table_header", `(?i)^date\s+particulars\s+deposits\s+withdrawals\s+balance`),
		PageMarker:  pattern("bank.canara.patterns.page_marker", `(?i)^page\s+\d+`),
		ChqLine:     pattern("bank.canara.patterns.chq_line", `(?i)^chq\s*:`),
	}
}

var headerPrefixes = []string{
	"statement for", "branch code", "customer id", "branch name",
	"phone", "product code", "product name", "address",
	"ifsc code", "name ", "a/c ", "account no",
}

// Extract walks every page's raw text and returns the normalized
// transaction list. An opening balance printed in the statement header
// overrides the inferred one.
func Extract(doc pageread.Document) []common.Transaction {
	cfg := loadConfig()
	var raw []common.Transaction
	var headerText strings.Builder

	for pg := 0; pg < doc.NumPages(); pg++ {
		text := doc.Page(pg).Text()
		if pg < 2 {
			headerText.WriteString(text)
			headerText.WriteByte('\n')
		}

		var narration []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if skipLine(cfg, line) {
				continue
			}

			if tx, ok := parseAnchorLine(cfg, line); ok {
				tx.Description = common.CleanDescription(strings.Join(narration, " "))
				narration = narration[:0]
				raw = append(raw, tx)
				continue
			}

			if cfg.ChqLine.MatchString(line) {
				continue
			}
			narration = append(narration, line)
		}
	}

	log.Printf("canara: raw transactions: %d", len(raw))
	result := normalize.Normalize(raw)

	if len(result) > 0 {
		if ob, found := common.FindStatedOpeningBalance(headerText.String()); found {
			result[0].OpeningBalance = common.Dec(ob)
			log.Printf("canara: opening balance stated in header: %s", ob)
		}
	}
	return result
}

func skipLine(cfg config, line string) bool {
	lo := strings.ToLower(line)
	if cfg.TableHeader.MatchString(lo) || cfg.PageMarker.MatchString(lo) {
		return true
	}
	if common.ContainsSkipPhrase(lo) {
		return true
	}
	for _, p := range headerPrefixes {
		if strings.HasPrefix(lo, p) {
			return true
		}
	}
	return false
}

// parseAnchorLine reads one transaction from an anchor line. The last two
// amount tokens on the line are (amount, balance). A negative literal
// amount token means credit in this layout; the balance-diff pass corrects
// this when running balances allow it.
func parseAnchorLine(cfg config, line string) (common.Transaction, bool) {
	m := cfg.Anchor.FindStringSubmatch(line)
	if m == nil {
		return common.Transaction{}, false
	}
	dateStr := m[1]
	remainder := strings.TrimSpace(m[2])

	nums := common.FindSignedAmounts(remainder)
	if len(nums) < 2 {
		return common.Transaction{}, false
	}
	amtRaw := nums[len(nums)-2]
	balRaw := nums[len(nums)-1]

	amount := common.ParseAmount(amtRaw)
	if amount.IsZero() {
		return common.Transaction{}, false
	}

	txType := common.Debit
	if strings.HasPrefix(strings.TrimSpace(amtRaw), "-") {
		txType = common.Credit
	}

	if common.TryDate(dateStr) == "" {
		return common.Transaction{}, false
	}

	return common.Transaction{
		Date:    dateStr,
		Amount:  amount.Round(2),
		Balance: common.Dec(common.ParseAmount(balRaw)),
		Type:    txType,
	}, true
}
