package sbi

import (
	"strings"
	"testing"

	"github.com/nvraghav/khata/parser/common"
	"github.com/nvraghav/khata/parser/pageread"
)

type fakePage struct{ text string }

func (p fakePage) Text() string                       { return p.text }
func (p fakePage) Words(_, _ float64) []pageread.Word { return nil }

type fakeDoc struct{ pages []string }

func (d fakeDoc) NumPages() int            { return len(d.pages) }
func (d fakeDoc) Page(i int) pageread.Page { return fakePage{text: d.pages[i]} }
func (d fakeDoc) Close() error             { return nil }

const statementText = `State Bank of India
Opening Bal : 12,000.00
Txn Date Description Amount Balance
1 Apr 2025 BY SALARY -25,000.00 37,000.00
NEFT FROM EMPLOYER
Ref: NEFT123456789
2 Apr 2025 TO TRANSFER 500.00 36,500.00
UPI/DR/512345678/MERCHANT
UTR: 512345678901
This is a computer generated statement
Page 1 of 1`

func TestExtract(t *testing.T) {
	txns := Extract(fakeDoc{pages: []string{statementText}})
	if len(txns) != 2 {
		t.Fatalf("Expected 2 transactions, got %d: %+v", len(txns), txns)
	}

	if txns[0].Date != "2025-04-01" {
		t.Errorf("Expected date 2025-04-01, got %s", txns[0].Date)
	}
	if txns[0].Type != common.Credit || txns[0].Amount.StringFixed(2) != "25000.00" {
		t.Errorf("Unexpected first txn: %+v", txns[0])
	}
	if txns[0].Description != "BY SALARY NEFT FROM EMPLOYER" {
		t.Errorf("Unexpected first description: %q", txns[0].Description)
	}
	if txns[0].Reference != "NEFT123456789" {
		t.Errorf("Expected reference NEFT123456789, got %q", txns[0].Reference)
	}
	if txns[0].Balance == nil || txns[0].Balance.StringFixed(2) != "37000.00" {
		t.Errorf("Unexpected first balance: %v", txns[0].Balance)
	}

	if txns[1].Type != common.Debit || txns[1].Amount.StringFixed(2) != "500.00" {
		t.Errorf("Unexpected second txn: %+v", txns[1])
	}
	if txns[1].Reference != "512345678901" {
		t.Errorf("Expected reference 512345678901, got %q", txns[1].Reference)
	}
	if txns[1].Category != "UPI" {
		t.Errorf("Expected category UPI, got %s", txns[1].Category)
	}
}

func TestExtract_StatedOpeningBalanceWins(t *testing.T) {
	txns := Extract(fakeDoc{pages: []string{statementText}})
	if len(txns) == 0 {
		t.Fatal("Expected transactions")
	}
	if txns[0].OpeningBalance == nil {
		t.Fatal("Expected an opening balance on the first transaction")
	}
	if got := txns[0].OpeningBalance.StringFixed(2); got != "12000.00" {
		t.Errorf("Expected stated opening balance 12000.00, got %s", got)
	}
}

func TestExtract_RefMarkerSealsNarration(t *testing.T) {
	// Lines after the reference marker must not be swept into the
	// description of the sealed transaction.
	txns := Extract(fakeDoc{pages: []string{statementText}})
	for _, tx := range txns {
		if strings.Contains(strings.ToLower(tx.Description), "generated") {
			t.Errorf("Boilerplate leaked past the seal: %q", tx.Description)
		}
	}
}

func TestExtract_SingleAmountAnchor(t *testing.T) {
	// No running balance printed: the lone amount is the amount, and the
	// raw direction stands since no balance diff can correct it.
	text := "3 Apr 2025 TO ATM WDL 2,000.00\n"
	txns := Extract(fakeDoc{pages: []string{text}})
	if len(txns) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Balance != nil {
		t.Errorf("Expected no balance, got %v", txns[0].Balance)
	}
	if txns[0].Type != common.Debit || txns[0].Amount.StringFixed(2) != "2000.00" {
		t.Errorf("Unexpected txn: %+v", txns[0])
	}
}

func TestExtract_ManyAmountsKeepsLastThree(t *testing.T) {
	// Amount-looking tokens inside the narration: only the trailing pair
	// is (amount, balance).
	text := "4 Apr 2025 BILL 120.50 UNITS 33.00 PAID 1,500.00 31,000.00\n"
	txns := Extract(fakeDoc{pages: []string{text}})
	if len(txns) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount.StringFixed(2) != "1500.00" {
		t.Errorf("Expected amount 1500.00, got %s", txns[0].Amount.StringFixed(2))
	}
	if txns[0].Balance == nil || txns[0].Balance.StringFixed(2) != "31000.00" {
		t.Errorf("Unexpected balance: %v", txns[0].Balance)
	}
	if txns[0].Description != "BILL" {
		t.Errorf("Expected description cut at the first amount token, got %q", txns[0].Description)
	}
}

func TestExtract_NarrationNeverCrossesPages(t *testing.T) {
	pages := []string{
		"1 Apr 2025 TO TRANSFER 500.00 11,500.00\nUPI/PHONEPE/pay",
		"stray narration from the next page\n2 Apr 2025 BY REFUND -300.00 11,800.00",
	}
	txns := Extract(fakeDoc{pages: pages})
	if len(txns) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txns))
	}
	if strings.Contains(txns[0].Description, "stray") {
		t.Errorf("Narration crossed a page break: %q", txns[0].Description)
	}
}

func TestExtract_Empty(t *testing.T) {
	if txns := Extract(fakeDoc{}); len(txns) != 0 {
		t.Errorf("Expected no transactions for empty document, got %d", len(txns))
	}
}
