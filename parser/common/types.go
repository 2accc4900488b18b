package common

import (
	"github.com/shopspring/decimal"
)

// Transaction direction tags.
const (
	Debit  = "DR"
	Credit = "CR"
)

// Transaction is one normalized statement entry. Date starts out in source
// format during segmentation and is rewritten to YYYY-MM-DD by normalization.
// Balance is nil when the layout carries no running-balance column.
// OpeningBalance is set on the first transaction of a statement only.
type Transaction struct {
	Date           string           `json:"date"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	Type           string           `json:"type"`
	Reference      string           `json:"reference,omitempty"`
	Category       string           `json:"category,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

type Statement struct {
	Source       string           `json:"source"`
	Bank         string           `json:"bank"`
	Transactions []Transaction    `json:"transactions"`
	TotalCredit  decimal.Decimal  `json:"total_credit"`
	TotalDebit   decimal.Decimal  `json:"total_debit"`
	Nett         decimal.Decimal  `json:"nett"`
	Opening      *decimal.Decimal `json:"opening_balance,omitempty"`
}

// NewStatement wraps a normalized transaction list with per-statement totals.
func NewStatement(source, bank string, txns []Transaction) Statement {
	stmt := Statement{
		Source:       source,
		Bank:         bank,
		Transactions: txns,
	}
	for _, tx := range txns {
		switch tx.Type {
		case Credit:
			stmt.TotalCredit = stmt.TotalCredit.Add(tx.Amount)
		default:
			stmt.TotalDebit = stmt.TotalDebit.Add(tx.Amount)
		}
	}
	stmt.Nett = stmt.TotalCredit.Sub(stmt.TotalDebit)
	if len(txns) > 0 {
		stmt.Opening = txns[0].OpeningBalance
	}
	return stmt
}

// Dec builds a pointer to a two-decimal balance value. Helper for the
// segmenters, which carry balances as optional fields.
func Dec(d decimal.Decimal) *decimal.Decimal {
	r := d.Round(2)
	return &r
}
