// Package rows walks column-mapped page rows and emits provisional
// transactions, folding continuation rows into the previous description.
package rows

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nvraghav/khata/parser/columns"
	"github.com/nvraghav/khata/parser/common"
)

// Extract walks every data row past the header and builds the raw
// transaction list in document order. Rows on the header's page at or
// before the header index are skipped; other pages start from row zero.
func Extract(pages [][][]string, cmap columns.Map, hdrRow, hdrPage int) []common.Transaction {
	var txns []common.Transaction
	ignored := ignoredColumns(cmap)

	for pgIdx, page := range pages {
		start := 0
		if pgIdx == hdrPage {
			start = hdrRow + 1
		}
		if start > len(page) {
			continue
		}

		for _, row := range page[start:] {
			if columns.IsTitleRow(row) || columns.IsHeaderRepeat(row) || shouldSkipRow(row) {
				continue
			}

			if tx, ok := parseRow(row, cmap, ignored); ok {
				txns = append(txns, tx)
				continue
			}
			if len(txns) == 0 {
				continue
			}
			if cont := continuationText(row, ignored); cont != "" {
				last := &txns[len(txns)-1]
				last.Description = strings.TrimSpace(last.Description + " " + cont)
			}
		}
	}
	return txns
}

func ignoredColumns(cmap columns.Map) map[int]bool {
	ignored := map[int]bool{}
	for _, role := range []columns.Role{columns.RoleIndex, columns.RoleReference} {
		if ci, ok := cmap[role]; ok {
			ignored[ci] = true
		}
	}
	return ignored
}

func shouldSkipRow(row []string) bool {
	combined := strings.TrimSpace(strings.Join(row, " "))
	if combined == "" {
		return true
	}
	return common.ContainsSkipPhrase(combined)
}

func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseRow attempts to read one transaction out of a mapped row. ok is
// false when the row carries no anchor date or no positive amount; the
// caller then decides whether it is a continuation.
func parseRow(row []string, cmap columns.Map, ignored map[int]bool) (common.Transaction, bool) {
	if len(row) < 2 {
		return common.Transaction{}, false
	}

	var date string
	if ci, ok := cmap[columns.RoleDate]; ok {
		date = common.TryDate(cell(row, ci))
	}
	if date == "" {
		for ci, c := range row {
			if ignored[ci] {
				continue
			}
			if date = common.TryDate(c); date != "" {
				break
			}
		}
	}
	if date == "" {
		return common.Transaction{}, false
	}

	// A bare "-" in the serial column marks the opening-balance row.
	if ci, ok := cmap[columns.RoleIndex]; ok && cell(row, ci) == "-" {
		return common.Transaction{}, false
	}

	var desc string
	if ci, ok := cmap[columns.RoleDescription]; ok {
		desc = cell(row, ci)
	}
	if strings.TrimSpace(desc) == "" {
		desc = assembleDescription(row, cmap, ignored)
	}
	desc = common.CleanDescription(desc)

	var reference string
	if ci, ok := cmap[columns.RoleReference]; ok {
		reference = cell(row, ci)
	}

	debit, credit := resolveAmounts(row, cmap, ignored)
	if debit.IsZero() && credit.IsZero() {
		return common.Transaction{}, false
	}

	var balance *decimal.Decimal
	if ci, ok := cmap[columns.RoleBalance]; ok {
		if b := common.ParseAmount(cell(row, ci)); b.IsPositive() {
			balance = common.Dec(b)
		}
	}

	tx := common.Transaction{
		Date:        date,
		Description: desc,
		Balance:     balance,
		Reference:   reference,
	}
	if debit.IsPositive() {
		tx.Type = common.Debit
		tx.Amount = debit.Round(2)
	} else {
		tx.Type = common.Credit
		tx.Amount = credit.Round(2)
	}
	return tx, true
}

// assembleDescription gathers unmapped cells that are neither numeric, nor
// dates, nor reference-looking, when no description column exists or it is
// blank.
func assembleDescription(row []string, cmap columns.Map, ignored map[int]bool) string {
	mapped := map[int]bool{}
	for _, ci := range cmap {
		mapped[ci] = true
	}
	for ci := range ignored {
		mapped[ci] = true
	}
	var parts []string
	for ci, c := range row {
		c = strings.TrimSpace(c)
		if mapped[ci] || c == "" {
			continue
		}
		if common.IsNumeric(c) || common.TryDate(c) != "" || common.LooksLikeRef(c) {
			continue
		}
		parts = append(parts, c)
	}
	return strings.Join(parts, " ")
}

// resolveAmounts yields (debit, credit) from mapped debit/credit columns,
// or a directed single amount column, or, absent clean mapping, the
// first two positive unmapped numeric cells in debit-then-credit order.
func resolveAmounts(row []string, cmap columns.Map, ignored map[int]bool) (decimal.Decimal, decimal.Decimal) {
	_, hasDebit := cmap[columns.RoleDebit]
	_, hasCredit := cmap[columns.RoleCredit]
	if hasDebit && hasCredit {
		return common.ParseAmount(cell(row, cmap[columns.RoleDebit])),
			common.ParseAmount(cell(row, cmap[columns.RoleCredit]))
	}
	if ci, ok := cmap[columns.RoleAmount]; ok {
		return common.ParseAmountDirected(cell(row, ci))
	}

	mapped := map[int]bool{}
	for _, ci := range cmap {
		mapped[ci] = true
	}
	for ci := range ignored {
		mapped[ci] = true
	}
	var nums []decimal.Decimal
	for ci, c := range row {
		if mapped[ci] {
			continue
		}
		if v := common.ParseAmount(c); v.IsPositive() {
			nums = append(nums, v)
		}
	}
	switch len(nums) {
	case 0:
		return decimal.Zero, decimal.Zero
	case 1:
		return nums[0], decimal.Zero
	default:
		return nums[0], nums[1]
	}
}

// continuationText returns the row's joined text when it belongs to the
// previous transaction: no date anywhere, no positive amount anywhere, and
// enough text to matter.
func continuationText(row []string, ignored map[int]bool) string {
	for ci, c := range row {
		if !ignored[ci] && common.TryDate(c) != "" {
			return ""
		}
	}
	for ci, c := range row {
		if !ignored[ci] && common.ParseAmount(c).IsPositive() {
			return ""
		}
	}
	var parts []string
	for ci, c := range row {
		if c = strings.TrimSpace(c); !ignored[ci] && c != "" {
			parts = append(parts, c)
		}
	}
	text := strings.Join(parts, " ")
	if len(text) < 3 || common.ContainsSkipPhrase(text) {
		return ""
	}
	return text
}
