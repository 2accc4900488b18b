package parser

import (
	"testing"

	"github.com/nvraghav/khata/parser/common"
	"github.com/nvraghav/khata/parser/pageread"
)

type fakePage struct {
	text  string
	words []pageread.Word
}

func (p fakePage) Text() string                       { return p.text }
func (p fakePage) Words(_, _ float64) []pageread.Word { return p.words }

type fakeDoc struct{ pages []fakePage }

func (d fakeDoc) NumPages() int            { return len(d.pages) }
func (d fakeDoc) Page(i int) pageread.Page { return d.pages[i] }
func (d fakeDoc) Close() error             { return nil }

func textDoc(pages ...string) fakeDoc {
	d := fakeDoc{}
	for _, t := range pages {
		d.pages = append(d.pages, fakePage{text: t})
	}
	return d
}

func TestDetectBank_Keywords(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Canara Bank\nStatement of Account", BankCanara},
		{"KOTAK MAHINDRA BANK LTD", BankKotak},
		{"State Bank of India\nYONO", BankSBI},
		{"Some Cooperative Bank", BankGeneric},
	}
	for _, tt := range tests {
		if got := DetectBank(textDoc(tt.text)); got != tt.expected {
			t.Errorf("DetectBank(%q) = %s, expected %s", tt.text, got, tt.expected)
		}
	}
}

func TestDetectBank_KeywordBeatsSignature(t *testing.T) {
	// The page names Kotak even though its lines carry the sbi-style date
	// format: the explicit name wins.
	text := "Kotak Mahindra Bank\n" +
		"1 Apr 2025 A 1.00\n2 Apr 2025 B 1.00\n3 Apr 2025 C 1.00\n"
	if got := DetectBank(textDoc(text)); got != BankKotak {
		t.Errorf("Expected kotak, got %s", got)
	}
}

func TestDetectBank_DateSignatures(t *testing.T) {
	canaraText := "Some Bank\n" +
		"01-04-2025 x 1.00 2.00\n02-04-2025 y 1.00 2.00\n03-04-2025 z 1.00 2.00\n"
	if got := DetectBank(textDoc(canaraText)); got != BankCanara {
		t.Errorf("Expected canara via signature, got %s", got)
	}

	sbiText := "Some Bank\n" +
		"1 Apr 2025 x 1.00\n2 Apr 2025 y 1.00\n3 Apr 2025 z 1.00\n"
	if got := DetectBank(textDoc(sbiText)); got != BankSBI {
		t.Errorf("Expected sbi via signature, got %s", got)
	}

	// Two hits are below the threshold.
	weak := "Some Bank\n01-04-2025 x 1.00\n02-04-2025 y 1.00\n"
	if got := DetectBank(textDoc(weak)); got != BankGeneric {
		t.Errorf("Expected generic below threshold, got %s", got)
	}
}

func TestDetectBank_EmptyDocument(t *testing.T) {
	if got := DetectBank(fakeDoc{}); got != BankGeneric {
		t.Errorf("Expected generic for empty document, got %s", got)
	}
}

const genericStatement = `Neo Urban Bank
Date  Particulars  Withdrawal  Deposit  Balance
01/04/2025  BY SALARY CREDIT  -  25,000.00  35,000.00
02/04/2025  UPI/PHONEPE/pay to merchant  500.00  -  34,500.00
03/04/2025  ATM WDL MUMBAI  2,000.00  -  32,500.00`

func TestParseDocument_GenericPipeline(t *testing.T) {
	txns, bank := ParseDocument(textDoc(genericStatement))
	if bank != BankGeneric {
		t.Fatalf("Expected generic profile, got %s", bank)
	}
	if len(txns) != 3 {
		t.Fatalf("Expected 3 transactions, got %d: %+v", len(txns), txns)
	}

	if txns[0].Date != "2025-04-01" || txns[0].Type != common.Credit {
		t.Errorf("Unexpected first txn: %+v", txns[0])
	}
	if txns[0].Amount.StringFixed(2) != "25000.00" {
		t.Errorf("Expected 25000.00, got %s", txns[0].Amount.StringFixed(2))
	}
	if txns[0].OpeningBalance == nil || txns[0].OpeningBalance.StringFixed(2) != "10000.00" {
		t.Errorf("Expected inferred opening balance 10000.00, got %v", txns[0].OpeningBalance)
	}

	if txns[1].Type != common.Debit || txns[1].Category != "UPI" {
		t.Errorf("Unexpected second txn: %+v", txns[1])
	}
	if txns[2].Balance == nil || txns[2].Balance.StringFixed(2) != "32500.00" {
		t.Errorf("Unexpected third balance: %v", txns[2].Balance)
	}
}

func TestParseDocument_RoutesToCanara(t *testing.T) {
	text := "Canara Bank\nNEFT SALARY\n01-04-2025 -25,000.00 35,000.00\n" +
		"UPI/PAY\n02-04-2025 500.00 34,500.00\n"
	txns, bank := ParseDocument(textDoc(text))
	if bank != BankCanara {
		t.Fatalf("Expected canara, got %s", bank)
	}
	if len(txns) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txns))
	}
}

func TestParseDocument_EmptyDocument(t *testing.T) {
	txns, bank := ParseDocument(fakeDoc{})
	if len(txns) != 0 {
		t.Errorf("Expected no transactions, got %d", len(txns))
	}
	if bank != BankGeneric {
		t.Errorf("Expected generic, got %s", bank)
	}
}

type panicDoc struct{ fakeDoc }

func (panicDoc) Page(int) pageread.Page { panic("corrupt page tree") }
func (panicDoc) NumPages() int          { return 1 }

func TestParseDocument_RecoversFromPanic(t *testing.T) {
	txns, _ := ParseDocument(panicDoc{})
	if txns != nil {
		t.Errorf("Expected nil transactions after panic, got %v", txns)
	}
}

func TestExtractPages_FooterRecovery(t *testing.T) {
	// The lines strategy sees rows 1-2; row 3 appears only in the raw text
	// as a footer line and must be recovered and sorted into place.
	page := fakePage{
		text: "1  01 Apr 2025  UPI/PHONEPE/pay  500.00  9,500.00\n" +
			"2  02 Apr 2025  NEFT INWARD  25,000.00  34,500.00\n" +
			"3 03 Apr 2025 ATM WDL MUMBAI 2,000.00 32,500.00",
	}
	pages := extractPages(fakeDoc{pages: []fakePage{page}})
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}
	rows := pages[0]
	if len(rows) != 4 {
		t.Fatalf("Expected 3 table rows plus 1 recovered, got %d: %v", len(rows), rows)
	}
	last := rows[len(rows)-1]
	if last[0] != "3" || last[2] != "ATM WDL MUMBAI" {
		t.Errorf("Unexpected recovered row: %v", last)
	}
}
