// Package normalize turns raw segmented transactions into the final list:
// opening-balance inference, balance-diff type correction, deduplication
// and categorization.
package normalize

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nvraghav/khata/parser/common"
)

var one = decimal.NewFromInt(1)
var onePercent = decimal.NewFromFloat(0.01)

// tolerance for balance reconciliation: the larger of 1.00 and 1% of the
// transaction amount.
func tolerance(amount decimal.Decimal) decimal.Decimal {
	t := amount.Mul(onePercent).Round(2)
	if t.LessThan(one) {
		return one
	}
	return t
}

// Normalize runs the four-step pass over raw transactions. Order is
// preserved; the opening balance lands on the first surviving record only.
func Normalize(txns []common.Transaction) []common.Transaction {
	if len(txns) == 0 {
		return nil
	}

	opening := inferOpeningBalance(txns)
	correctTypes(txns)
	result := dedupe(txns)

	if len(result) > 0 && opening != nil {
		result[0].OpeningBalance = opening
	}
	return result
}

// inferOpeningBalance works backward from the first transaction's balance
// and amount. When balance and amount agree within tolerance the account
// evidently started at zero with this deposit; otherwise prefer the
// credit interpretation (balance - amount) when non-negative, then the
// debit one (balance + amount). May flip the first transaction's type.
func inferOpeningBalance(txns []common.Transaction) *decimal.Decimal {
	first := &txns[0]
	if first.Balance == nil || first.Amount.IsZero() {
		return nil
	}
	b0 := *first.Balance
	amt := first.Amount
	tol := tolerance(amt)

	impliedCR := b0.Sub(amt).Round(2)
	impliedDR := b0.Add(amt).Round(2)

	switch {
	case b0.Sub(amt).Abs().LessThanOrEqual(tol):
		first.Type = common.Credit
		log.Println("normalize: first txn looks like the opening deposit, OB=0.00")
		return common.Dec(decimal.Zero)
	case impliedCR.GreaterThanOrEqual(decimal.Zero):
		first.Type = common.Credit
		log.Printf("normalize: inferred opening balance (CR path): %s", impliedCR)
		return common.Dec(impliedCR)
	case impliedDR.GreaterThanOrEqual(decimal.Zero):
		first.Type = common.Debit
		log.Printf("normalize: inferred opening balance (DR path): %s", impliedDR)
		return common.Dec(impliedDR)
	}
	return nil
}

// correctTypes reclassifies direction from consecutive running balances.
// This pass is authoritative over whatever the segmenters guessed.
func correctTypes(txns []common.Transaction) {
	for i := 1; i < len(txns); i++ {
		curr, prev := &txns[i], &txns[i-1]
		if curr.Balance == nil || prev.Balance == nil || curr.Amount.IsZero() {
			continue
		}
		diff := curr.Balance.Sub(*prev.Balance).Round(2)
		tol := tolerance(curr.Amount)
		switch {
		case diff.Sub(curr.Amount).Abs().LessThanOrEqual(tol):
			curr.Type = common.Credit
		case diff.Add(curr.Amount).Abs().LessThanOrEqual(tol):
			curr.Type = common.Debit
		}
	}
}

// dedupe drops later exact duplicates on (normalized date, amount, type,
// description, balance), normalizing dates and assigning categories on the
// records it keeps.
func dedupe(txns []common.Transaction) []common.Transaction {
	seen := map[string]bool{}
	result := make([]common.Transaction, 0, len(txns))

	for _, tx := range txns {
		normDate := common.NormalizeDate(tx.Date)
		balanceKey := ""
		if tx.Balance != nil {
			balanceKey = tx.Balance.StringFixed(2)
		}
		key := strings.Join([]string{
			normDate,
			tx.Amount.StringFixed(2),
			tx.Type,
			strings.TrimSpace(tx.Description),
			balanceKey,
		}, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true

		if normDate != "" {
			tx.Date = normDate
		}
		tx.Description = common.CollapseWhitespace(tx.Description)
		tx.Category = Categorize(tx.Description)
		result = append(result, tx)
	}
	return result
}
