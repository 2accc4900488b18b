package common

import (
	"testing"
)

func TestParseAmount_SimpleNumber(t *testing.T) {
	result := ParseAmount("123.45")
	if result.String() != "123.45" {
		t.Errorf("Expected '123.45', got '%s'", result.String())
	}
}

func TestParseAmount_WithCommas(t *testing.T) {
	result := ParseAmount("1,234.56")
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_WithCurrencySymbol(t *testing.T) {
	result := ParseAmount("₹ 1,234.56")
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_WithSuffix(t *testing.T) {
	result := ParseAmount("100.00CR")
	if result.String() != "100" {
		t.Errorf("Expected '100', got '%s'", result.String())
	}
	result = ParseAmount("250.00 Dr.")
	if result.String() != "250" {
		t.Errorf("Expected '250', got '%s'", result.String())
	}
}

func TestParseAmount_Parenthesized(t *testing.T) {
	result := ParseAmount("(500.00)")
	if result.String() != "500" {
		t.Errorf("Expected '500', got '%s'", result.String())
	}
}

func TestParseAmount_NegativeSign(t *testing.T) {
	// Magnitude only; direction is tracked separately
	result := ParseAmount("-123.45")
	if result.String() != "123.45" {
		t.Errorf("Expected '123.45', got '%s'", result.String())
	}
}

func TestParseAmount_Empty(t *testing.T) {
	if !ParseAmount("").IsZero() {
		t.Error("Expected zero for empty string")
	}
	if !ParseAmount("ABC").IsZero() {
		t.Error("Expected zero for non-numeric string")
	}
}

func TestParseAmount_FormatIdempotent(t *testing.T) {
	tokens := []string{"123.45", "1,234.56", "1,234,567.89", "0.01"}
	for _, tok := range tokens {
		if !IsAmountToken(tok) {
			t.Fatalf("Expected '%s' to be an amount token", tok)
		}
		once := ParseAmount(tok).StringFixed(2)
		twice := ParseAmount(once).StringFixed(2)
		if once != twice {
			t.Errorf("Parse/format not idempotent for '%s': '%s' vs '%s'", tok, once, twice)
		}
	}
}

func TestParseAmountDirected(t *testing.T) {
	tests := []struct {
		input  string
		debit  string
		credit string
	}{
		{"500.00", "500", "0"},
		{"-500.00", "500", "0"},
		{"(500.00)", "500", "0"},
		{"500.00DR", "500", "0"},
		{"500.00 CR", "0", "500"},
		{"", "0", "0"},
	}
	for _, tt := range tests {
		debit, credit := ParseAmountDirected(tt.input)
		if debit.String() != tt.debit || credit.String() != tt.credit {
			t.Errorf("ParseAmountDirected(%q) = (%s, %s), expected (%s, %s)",
				tt.input, debit, credit, tt.debit, tt.credit)
		}
	}
}

func TestTryDate_Formats(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"01 Apr 2025", "01 Apr 2025"},
		{"3 April 2025", "3 April 2025"},
		{"02Jan2025", "02Jan2025"},
		{"15/11/2024", "15/11/2024"},
		{"15-11-2024", "15-11-2024"},
		{"2024-11-15", "2024-11-15"},
		{"txn on 01 Apr 2025 ok", "01 Apr 2025"},
	}
	for _, tt := range tests {
		if got := TryDate(tt.input); got != tt.expected {
			t.Errorf("TryDate(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTryDate_RejectsOutOfRangeYears(t *testing.T) {
	// Reference numbers that look like dates must not anchor rows
	for _, input := range []string{"15/11/1987", "15-11-2099", "UPI12345", "no date here"} {
		if got := TryDate(input); got != "" {
			t.Errorf("TryDate(%q) = %q, expected no match", input, got)
		}
	}
}

func TestNormalizeDate_PaddingInsensitive(t *testing.T) {
	a := NormalizeDate("03 Apr 2025")
	b := NormalizeDate("3 Apr 2025")
	if a != "2025-04-03" {
		t.Errorf("Expected '2025-04-03', got '%s'", a)
	}
	if a != b {
		t.Errorf("Padded and unpadded forms differ: '%s' vs '%s'", a, b)
	}
}

func TestNormalizeDate_PassthroughOnUnknown(t *testing.T) {
	if got := NormalizeDate("not a date"); got != "not a date" {
		t.Errorf("Expected passthrough, got '%s'", got)
	}
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"123.45", "1,234.56", "₹500.00", "500.00CR"} {
		if !IsNumeric(s) {
			t.Errorf("Expected IsNumeric(%q) to be true", s)
		}
	}
	for _, s := range []string{"", "SALARY", "01 Apr 2025"} {
		if IsNumeric(s) {
			t.Errorf("Expected IsNumeric(%q) to be false", s)
		}
	}
}

func TestLooksLikeRef(t *testing.T) {
	for _, s := range []string{"UPI-512345678", "NEFT123456789", "CHQ/123456"} {
		if !LooksLikeRef(s) {
			t.Errorf("Expected LooksLikeRef(%q) to be true", s)
		}
	}
	for _, s := range []string{"1,234.56", "short", "SALARY CREDIT FOR APRIL"} {
		if LooksLikeRef(s) {
			t.Errorf("Expected LooksLikeRef(%q) to be false", s)
		}
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"UPI/PHONEPE (Value Date: 01-04-2025)", "UPI/PHONEPE"},
		{"PAYMENT Chq: 123456", "PAYMENT"},
		{"TRANSFER 12:30:45 DONE", "TRANSFER DONE"},
		{"NEFT ABCDEF0123456789ABCD INWARD", "NEFT INWARD"},
		{"  lots   of    space  ", "lots of space"},
	}
	for _, tt := range tests {
		if got := CleanDescription(tt.input); got != tt.expected {
			t.Errorf("CleanDescription(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFindSignedAmounts(t *testing.T) {
	got := FindSignedAmounts("UPI PAY 1,200.00 -4,500.50 10,000.00")
	if len(got) != 3 {
		t.Fatalf("Expected 3 amounts, got %d: %v", len(got), got)
	}
	if got[1] != "-4,500.50" {
		t.Errorf("Expected '-4,500.50', got '%s'", got[1])
	}
}

func TestContainsSkipPhrase(t *testing.T) {
	if !ContainsSkipPhrase("B/F OPENING BALANCE 1000.00") {
		t.Error("Expected opening balance row to be skipped")
	}
	if ContainsSkipPhrase("UPI/PHONEPE/payment") {
		t.Error("Expected ordinary narration to not be skipped")
	}
}

func TestFindStatedOpeningBalance(t *testing.T) {
	ob, found := FindStatedOpeningBalance("Account Statement\nOpening Balance: 12,345.67\n")
	if !found {
		t.Fatal("Expected opening balance to be found")
	}
	if ob.String() != "12345.67" {
		t.Errorf("Expected '12345.67', got '%s'", ob.String())
	}

	if _, found := FindStatedOpeningBalance("no balances here"); found {
		t.Error("Expected no opening balance")
	}
}
