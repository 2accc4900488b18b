package normalize

import "strings"

// Spend taxonomy: first keyword hit wins, so the table order is part of
// the contract.
var categoryTable = []struct {
	category string
	keywords []string
}{
	{"UPI", []string{"upi/", "upi-", "phonepe", "gpay", "google pay",
		"paytm", "amazonpay", "bhim"}},
	{"NEFT/RTGS", []string{"neft", "rtgs", "neftinw"}},
	{"IMPS", []string{"imps"}},
	{"ATM/Cash", []string{"atm", "cash withdrawal", "cash wdl", "cwdr",
		"cash deposit"}},
	{"Salary", []string{"salary", "payroll", "sal cr", "wages"}},
	{"EMI/Loan", []string{"pocketly", "speel finance", "stucred", "mpokket",
		"branch internat", "truecredit", "lazypay",
		"snapmint", "emi", "loan"}},
	{"POS", []string{"pos ", "point of sale", "pci/"}},
	{"Interest", []string{"interest", "int.pd", "int pd", "int cr",
		"int.pd:", "sbint"}},
	{"Charges", []string{"charges", "fee", "commission", "gst",
		"service charge", "sms alert", "annual fee", "chrg:"}},
	{"Transfer", []string{"transfer", "trf ", "fund transfer",
		"mb:sent", "mb:received"}},
	{"Cheque", []string{"cheque", "chq", "clearing", "cts"}},
	{"Food", []string{"swiggy", "zomato", "blinkit", "zepto", "dominos",
		"mcdonalds", "pizza", "swad sadan", "shreejee",
		"bikaner", "gianis", "dosa"}},
	{"Shopping", []string{"amazon", "flipkart", "myntra", "meesho", "ekart",
		"westside", "snitch", "zudio"}},
	{"Entertainment", []string{"netflix", "spotify", "zee5", "jiohotstar",
		"google play", "steam", "valve", "bookmyshow"}},
	{"Travel", []string{"aeronfly", "irctc", "makemytrip", "redbus"}},
}

// DefaultCategory tags descriptions no keyword matches.
const DefaultCategory = "Other"

// Categorize assigns the spend category by first case-insensitive keyword
// match. Pure function of the description text.
func Categorize(desc string) string {
	lower := strings.ToLower(desc)
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return DefaultCategory
}
