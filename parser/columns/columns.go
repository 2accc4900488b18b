// Package columns locates a statement's header row and maps column indices
// to semantic roles, falling back to statistical inference when no header
// exists.
package columns

import (
	"log"
	"regexp"
	"strings"

	"github.com/nvraghav/khata/parser/common"
)

// Role is a semantic column assignment.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleDebit       Role = "debit"
	RoleCredit      Role = "credit"
	RoleBalance     Role = "balance"
	RoleAmount      Role = "amount"
	RoleReference   Role = "reference"
	RoleIndex       Role = "_index"
)

// Map assigns semantic roles to column indices. Built once per document and
// treated as immutable afterward.
type Map map[Role]int

// Valid reports whether the map can drive row extraction: it needs a date
// column and at least one money column.
func (m Map) Valid() bool {
	if _, ok := m[RoleDate]; !ok {
		return false
	}
	for _, r := range []Role{RoleDebit, RoleCredit, RoleAmount} {
		if _, ok := m[r]; ok {
			return true
		}
	}
	return false
}

// Header keyword dictionary per role. Scoring prefers exact matches, then
// prefixes, then substrings, weighted by keyword length.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleDate, []string{
		"date", "txn date", "txn dt", "trans date", "transaction date",
		"value date", "posting date", "entry date", "book date",
	}},
	{RoleDescription, []string{
		"description", "narration", "particulars", "details",
		"transaction details", "txn description", "remarks",
		"narrative", "desc", "transaction particulars",
		"narration/chq. details",
	}},
	{RoleDebit, []string{
		"debit", "debit amount", "debit(rs)", "debit (rs)", "debit(inr)",
		"withdrawal", "withdrawals", "withdrawal amount", "withdrawal(rs)",
		"withdrawal (dr.)", "withdrawal (dr)", "withdrawal(dr)",
		"dr amount", "debit amt", "dr", "paid out", "debit(₹)",
	}},
	{RoleCredit, []string{
		"credit", "credit amount", "credit(rs)", "credit (rs)", "credit(inr)",
		"deposit", "deposits", "deposit amount", "deposit(rs)",
		"deposit (cr.)", "deposit (cr)", "deposit(cr)",
		"cr amount", "credit amt", "cr", "paid in", "credit(₹)",
	}},
	{RoleBalance, []string{
		"balance", "closing balance", "running balance",
		"available balance", "bal", "running bal", "closing bal",
		"balance(inr)", "balance(rs)", "balance(₹)",
	}},
	{RoleAmount, []string{
		"amount", "txn amount", "transaction amount", "amt",
		"amount(rs)", "amount(inr)", "amount (rs)", "amount(₹)",
	}},
	{RoleReference, []string{
		"chq", "chq no", "chq/ref", "chq/ref no", "chq/ref. no.",
		"cheque no", "cheque number", "ref no", "ref number",
		"reference", "reference no", "transaction id", "txn id",
		"instrument no", "utr", "chq./ref. no.",
	}},
}

var indexMarkers = map[string]bool{
	"#": true, "s no": true, "sno": true, "sr": true, "sr no": true,
	"srno": true, "sl no": true, "slno": true, "no": true, "item": true,
	"sl.no.": true, "sr.no.": true,
}

var titlePhrases = map[string]bool{
	"savings account transactions": true,
	"current account transactions": true,
	"account transactions":         true,
	"transaction details":          true,
	"statement of account":         true,
}

var headerMarkerCells = map[string]bool{
	"date": true, "description": true, "narration": true,
	"particulars": true, "withdrawal": true, "deposit": true,
	"balance": true, "debit": true, "credit": true,
}

var (
	normStripRE = regexp.MustCompile(`[^a-z0-9 ./]`)
	indexColRE  = regexp.MustCompile(`^[\d\-]+$`)
)

// Detect scans all pages for a header row (exact, then merged adjacent row
// pairs) and falls back to statistical inference. Returns the map plus the
// header's row and page index; ok is false when every tier fails.
func Detect(pages [][][]string) (cmap Map, hdrRow, hdrPage int, ok bool) {
	for pgIdx, page := range pages {
		for rowIdx, row := range page {
			if IsTitleRow(row) {
				continue
			}
			if m := matchHeader(row); m.Valid() {
				log.Printf("columns: header pg=%d row=%d: %v", pgIdx, rowIdx, row)
				return m, rowIdx, pgIdx, true
			}
		}
	}

	// Headers wrapped onto two lines: retry with cell-wise merged pairs.
	for pgIdx, page := range pages {
		for rowIdx := 0; rowIdx+1 < len(page); rowIdx++ {
			merged := mergeRows(page[rowIdx], page[rowIdx+1])
			if m := matchHeader(merged); m.Valid() {
				log.Printf("columns: merged header pg=%d rows=%d-%d", pgIdx, rowIdx, rowIdx+1)
				return m, rowIdx + 1, pgIdx, true
			}
		}
	}

	log.Println("columns: no header found, inferring statistically")
	return inferColumns(pages)
}

// IsTitleRow reports whether a row is a single-cell section title.
func IsTitleRow(row []string) bool {
	var only string
	count := 0
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			only = c
			count++
		}
	}
	return count == 1 && titlePhrases[strings.ToLower(only)]
}

// IsHeaderRepeat reports whether a data row is actually the column header
// printed again (three or more marker cells).
func IsHeaderRepeat(row []string) bool {
	hits := 0
	for _, cell := range row {
		if headerMarkerCells[strings.ToLower(strings.TrimSpace(cell))] {
			hits++
			if hits >= 3 {
				return true
			}
		}
	}
	return false
}

func normalizeCell(text string) string {
	t := strings.ToLower(text)
	t = normStripRE.ReplaceAllString(t, " ")
	return common.CollapseWhitespace(t)
}

func matchHeader(row []string) Map {
	if len(row) < 3 {
		return Map{}
	}
	cmap := Map{}
	for idx, cell := range row {
		raw := strings.TrimSpace(cell)
		if raw == "" {
			continue
		}

		lowered := strings.ToLower(raw)
		if indexMarkers[lowered] || indexMarkers[strings.Trim(lowered, ".")] {
			if _, seen := cmap[RoleIndex]; !seen {
				cmap[RoleIndex] = idx
			}
			continue
		}

		norm := normalizeCell(raw)
		var bestRole Role
		bestScore := 0
		for _, rk := range roleKeywords {
			for _, kw := range rk.keywords {
				kwNorm := normalizeCell(kw)
				var score int
				switch {
				case norm == kwNorm:
					score = 200
				case strings.HasPrefix(norm, kwNorm):
					score = 100 + len(kwNorm)
				case strings.Contains(norm, kwNorm):
					score = 50 + len(kwNorm)
				default:
					continue
				}
				if score > bestScore {
					bestScore = score
					bestRole = rk.role
				}
			}
		}
		if bestRole != "" {
			if _, seen := cmap[bestRole]; !seen {
				cmap[bestRole] = idx
			}
		}
	}
	return cmap
}

func mergeRows(a, b []string) []string {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	merged := make([]string, n)
	for i := 0; i < n; i++ {
		var av, bv string
		if i < len(a) {
			av = strings.TrimSpace(a[i])
		}
		if i < len(b) {
			bv = strings.TrimSpace(b[i])
		}
		merged[i] = strings.TrimSpace(av + " " + bv)
	}
	return merged
}

const (
	inferSampleSize    = 40
	indexThreshold     = 0.6
	dateThreshold      = 0.4
	textThreshold      = 0.4
	numericThreshold   = 0.3
	longTextMinLength  = 8
	inferMinSampleRows = 3
)

// Statistical fallback ordering for unlabeled numeric columns.
var numericFallback = []Role{RoleDebit, RoleCredit, RoleBalance}

// inferColumns assigns roles by per-column value statistics over a sample
// of rows at the modal row width: date density, numeric density, index
// pattern density and long-text density, each with a fixed threshold.
func inferColumns(pages [][][]string) (Map, int, int, bool) {
	var allRows [][]string
	for _, p := range pages {
		allRows = append(allRows, p...)
	}
	if len(allRows) < inferMinSampleRows {
		return nil, 0, 0, false
	}

	widths := map[int]int{}
	target, best := 0, 0
	for _, r := range allRows {
		widths[len(r)]++
		if widths[len(r)] > best {
			best = widths[len(r)]
			target = len(r)
		}
	}

	var sample [][]string
	for _, r := range allRows {
		if len(r) == target {
			sample = append(sample, r)
			if len(sample) == inferSampleSize {
				break
			}
		}
	}
	if len(sample) < inferMinSampleRows {
		return nil, 0, 0, false
	}

	cmap := Map{}
	var numCols []int
	n := float64(len(sample))

	for ci := 0; ci < target; ci++ {
		var dates, nums, texts, idxs float64
		for _, r := range sample {
			v := strings.TrimSpace(r[ci])
			isDate := common.TryDate(v) != ""
			isNum := common.IsNumeric(v)
			if isDate {
				dates++
			}
			if isNum {
				nums++
			}
			if len(v) > longTextMinLength && !isNum && !isDate {
				texts++
			}
			if indexColRE.MatchString(v) {
				idxs++
			}
		}

		_, hasDate := cmap[RoleDate]
		_, hasDesc := cmap[RoleDescription]
		switch {
		case idxs/n > indexThreshold:
			if _, seen := cmap[RoleIndex]; !seen {
				cmap[RoleIndex] = ci
			}
		case dates/n > dateThreshold && !hasDate:
			cmap[RoleDate] = ci
		case texts/n > textThreshold && !hasDesc:
			cmap[RoleDescription] = ci
		case nums/n > numericThreshold:
			numCols = append(numCols, ci)
		}
	}

	for i, ci := range numCols {
		if i >= len(numericFallback) {
			break
		}
		role := numericFallback[i]
		if _, seen := cmap[role]; !seen {
			cmap[role] = ci
		}
	}

	if !cmap.Valid() {
		return nil, 0, 0, false
	}

	// Guess the header position: the row just above the first date-bearing
	// row on the first page.
	hdr := 0
	if dateCol, ok := cmap[RoleDate]; ok && len(pages) > 0 {
		for ri, row := range pages[0] {
			if dateCol < len(row) && common.TryDate(row[dateCol]) != "" {
				if ri > 0 {
					hdr = ri - 1
				}
				break
			}
		}
	}
	return cmap, hdr, 0, true
}
