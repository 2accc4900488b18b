package canara

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

const statementText = `Name : RAGHAV KUMAR
Account No : 110012345678
Statement for 01-04-2025 to 30-04-2025
Opening Balance : 10,000.00
Date Particulars Deposits Withdrawals Balance
NEFT SALARY CREDIT
01-04-2025 -25,000.00 35,000.00
UPI/PHONEPE/pay to merchant
Chq : 123456
02-04-2025 500.00 34,500.00
ATM WDL MUMBAI
03-04-2025 2,000.00 32,500.00
Page 1`

func TestExtract(t *testing.T) {
	txns := Extract(fakeDoc{pages: []string{statementText}})
	if len(txns) != 3 {
		t.Fatalf("Expected 3 transactions, got %d: %+v", len(txns), txns)
	}

	if txns[0].Date != "2025-04-01" {
		t.Errorf("Expected date 2025-04-01, got %s", txns[0].Date)
	}
	if txns[0].Type != common.Credit || txns[0].Amount.StringFixed(2) != "25000.00" {
		t.Errorf("Unexpected first txn: %+v", txns[0])
	}
	if txns[0].Description != "NEFT SALARY CREDIT" {
		t.Errorf("Expected narration above anchor as description, got %q", txns[0].Description)
	}
	if txns[0].Category != "NEFT/RTGS" {
		t.Errorf("Expected category NEFT/RTGS, got %s", txns[0].Category)
	}

	if txns[1].Type != common.Debit || txns[1].Amount.StringFixed(2) != "500.00" {
		t.Errorf("Unexpected second txn: %+v", txns[1])
	}
	if txns[1].Description != "UPI/PHONEPE/pay to merchant" {
		t.Errorf("Unexpected second description: %q", txns[1].Description)
	}

	if txns[2].Type != common.Debit || txns[2].Balance.StringFixed(2) != "32500.00" {
		t.Errorf("Unexpected third txn: %+v", txns[2])
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
	if got := txns[0].OpeningBalance.StringFixed(2); got != "10000.00" {
		t.Errorf("Expected stated opening balance 10000.00, got %s", got)
	}
}

func TestExtract_HeaderLinesNeverBecomeNarration(t *testing.T) {
	txns := Extract(fakeDoc{pages: []string{statementText}})
	for _, tx := range txns {
		lo := strings.ToLower(tx.Description)
		if strings.Contains(lo, "account no") || strings.Contains(lo, "statement for") ||
			strings.Contains(lo, "chq") {
			t.Errorf("Boilerplate leaked into description: %q", tx.Description)
		}
	}
}

func TestExtract_AnchorNeedsTwoAmounts(t *testing.T) {
	// A dated line with a single amount is page furniture, not a txn.
	text := "SOME NARRATION\n01-04-2025 9,500.00\n"
	txns := Extract(fakeDoc{pages: []string{text}})
	if len(txns) != 0 {
		t.Errorf("Expected no transactions, got %+v", txns)
	}
}

func TestExtract_Empty(t *testing.T) {
	if txns := Extract(fakeDoc{}); len(txns) != 0 {
		t.Errorf("Expected no transactions for empty document, got %d", len(txns))
	}
}
