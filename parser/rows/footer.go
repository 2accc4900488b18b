package rows

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Table detection regularly loses indexed transaction lines rendered at
// the visual bottom of a page. RecoverFromText re-scans the raw page text
// for "index date rest" lines whose index the table pass never produced
// and rebuilds them as synthetic rows of the same seven-column shape.

var (
	txnStartRE    = regexp.MustCompile(`^(\d+)\s+(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})\s+(.+)$`)
	txnStartLite  = regexp.MustCompile(`^\d+\s+\d{1,2}\s+[A-Za-z]{3}\s+\d{4}`)
	footerNoiseRE = regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`)
	footerMetaRE  = regexp.MustCompile(`(?i)statement generated|account no|account statement`)
	footerAmtRE   = regexp.MustCompile(`[\d,]+\.\d{2}`)
	refDashRE     = regexp.MustCompile(`^[A-Z0-9]{2,12}[-/]\d{5,}$`)
	refCompactRE  = regexp.MustCompile(`^[A-Z]{2,10}\d{6,}$`)
)

type pendingRow struct {
	index string
	date  string
	rest  string
}

// RecoverFromText scans one page's raw text for indexed transaction lines
// missing from seen, accumulating continuation lines until the next
// indexed anchor. seen is updated by the caller once rows are merged.
func RecoverFromText(text string, seen map[int]bool) [][]string {
	var recovered [][]string
	var pending *pendingRow

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || footerNoiseRE.MatchString(line) || footerMetaRE.MatchString(line) {
			continue
		}

		if m := txnStartRE.FindStringSubmatch(line); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err == nil && !seen[idx] {
				if pending != nil {
					recovered = append(recovered, buildRecoveredRow(*pending))
				}
				pending = &pendingRow{index: m[1], date: m[2], rest: m[3]}
			} else if pending != nil {
				recovered = append(recovered, buildRecoveredRow(*pending))
				pending = nil
			}
			continue
		}

		if pending != nil && !txnStartLite.MatchString(line) {
			pending.rest += " " + line
		}
	}

	if pending != nil {
		recovered = append(recovered, buildRecoveredRow(*pending))
	}
	return recovered
}

// buildRecoveredRow reconstitutes a synthetic table row:
// [index, date, description, reference, withdrawal, "", balance].
func buildRecoveredRow(p pendingRow) []string {
	rest := strings.TrimSpace(p.rest)
	amounts := footerAmtRE.FindAllString(rest, -1)

	var balance, withdrawal string
	switch {
	case len(amounts) >= 2:
		balance = amounts[len(amounts)-1]
		withdrawal = amounts[len(amounts)-2]
	case len(amounts) == 1:
		balance = amounts[0]
	}

	desc := rest
	if len(amounts) > 0 {
		if pos := strings.Index(rest, amounts[0]); pos >= 0 {
			desc = strings.TrimSpace(rest[:pos])
		}
	}

	var ref string
	tokens := strings.Fields(desc)
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if refDashRE.MatchString(last) || refCompactRE.MatchString(last) {
			ref = last
			desc = strings.Join(tokens[:len(tokens)-1], " ")
		}
	}

	return []string{p.index, p.date, strings.TrimSpace(desc), ref, withdrawal, "", balance}
}

// RowIndex reads a row's leading serial number; rows without one sort as 0.
func RowIndex(row []string) int {
	if len(row) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return 0
	}
	return n
}

// SortByIndex restores serial order after recovered rows are appended.
// The sort is stable so headers and unindexed rows keep their position.
func SortByIndex(rows [][]string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return RowIndex(rows[i]) < RowIndex(rows[j])
	})
}
