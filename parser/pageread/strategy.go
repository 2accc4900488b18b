package pageread

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Strategy names, in priority order.
const (
	StrategyTable        = "table"
	StrategyTableRelaxed = "table_relaxed"
	StrategyWords        = "words"
	StrategyLines        = "lines"
)

// A Strategy attempts to turn one page into a row matrix. ok is false when
// the strategy does not apply or yields nothing usable.
type Strategy interface {
	Name() string
	TryExtract(p Page) (rows [][]string, ok bool)
}

var strategies = []Strategy{
	tableStrategy{},
	relaxedTableStrategy{},
	wordStrategy{},
	lineStrategy{},
}

const (
	goodRowMinCells = 3
	wordYBucket     = 3.0
	wordMergeGap    = 15.0
)

// ExtractPage runs the strategy chain against one page and returns the
// first result containing at least one good row, together with the winning
// strategy's name. A preferred strategy (the one that won on an earlier
// page) is tried first so extraction stays consistent across a document;
// only when it fails does the full priority scan run. Total failure yields
// (nil, "").
func ExtractPage(p Page, preferred string) ([][]string, string) {
	if preferred != "" {
		for _, s := range strategies {
			if s.Name() != preferred {
				continue
			}
			if rows, ok := s.TryExtract(p); ok && GoodRows(rows) >= 1 {
				return rows, s.Name()
			}
		}
	}
	for _, s := range strategies {
		if rows, ok := s.TryExtract(p); ok && GoodRows(rows) >= 1 {
			return rows, s.Name()
		}
	}
	return nil, ""
}

// GoodRows counts rows with at least three non-empty cells, the gate that
// decides whether a strategy's output is worth keeping.
func GoodRows(rows [][]string) int {
	good := 0
	for _, row := range rows {
		cells := 0
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				cells++
			}
		}
		if cells >= goodRowMinCells {
			good++
		}
	}
	return good
}

type tableStrategy struct{}

func (tableStrategy) Name() string { return StrategyTable }

func (tableStrategy) TryExtract(p Page) ([][]string, bool) {
	tp, isProvider := p.(TableProvider)
	if !isProvider {
		return nil, false
	}
	tables := tp.Tables(TableOptions{
		VerticalStrategy:   "lines",
		HorizontalStrategy: "lines",
	})
	return largestTable(tables)
}

type relaxedTableStrategy struct{}

func (relaxedTableStrategy) Name() string { return StrategyTableRelaxed }

func (relaxedTableStrategy) TryExtract(p Page) ([][]string, bool) {
	tp, isProvider := p.(TableProvider)
	if !isProvider {
		return nil, false
	}
	tables := tp.Tables(TableOptions{
		VerticalStrategy:   "text",
		HorizontalStrategy: "text",
		SnapTolerance:      5,
		JoinTolerance:      5,
	})
	return largestTable(tables)
}

func largestTable(tables [][][]string) ([][]string, bool) {
	var best [][]string
	for _, t := range tables {
		if len(t) > len(best) {
			best = t
		}
	}
	if len(best) == 0 {
		return nil, false
	}
	return cleanTable(best), true
}

func cleanTable(table [][]string) [][]string {
	out := make([][]string, 0, len(table))
	for _, row := range table {
		cleaned := make([]string, 0, len(row))
		for _, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			cell = strings.ReplaceAll(cell, "\r", "")
			cleaned = append(cleaned, strings.TrimSpace(cell))
		}
		out = append(out, cleaned)
	}
	return out
}

// wordStrategy clusters positioned words into visual rows by vertical
// proximity, then merges horizontally adjacent words into cells when the
// gap between them is small.
type wordStrategy struct{}

func (wordStrategy) Name() string { return StrategyWords }

func (wordStrategy) TryExtract(p Page) ([][]string, bool) {
	words := p.Words(3, 3)
	if len(words) == 0 {
		return nil, false
	}

	buckets := map[float64][]Word{}
	for _, w := range words {
		y := math.Round(w.Top/wordYBucket) * wordYBucket
		buckets[y] = append(buckets[y], w)
	}

	ys := make([]float64, 0, len(buckets))
	for y := range buckets {
		ys = append(ys, y)
	}
	sort.Float64s(ys)

	var rows [][]string
	for _, y := range ys {
		line := buckets[y]
		sort.Slice(line, func(i, j int) bool { return line[i].X0 < line[j].X0 })

		var merged []Word
		for _, w := range line {
			if len(merged) > 0 && w.X0-merged[len(merged)-1].X1 < wordMergeGap {
				last := &merged[len(merged)-1]
				last.Text += " " + w.Text
				last.X1 = w.X1
				continue
			}
			merged = append(merged, w)
		}

		var cells []string
		for _, m := range merged {
			if t := strings.TrimSpace(m.Text); t != "" {
				cells = append(cells, t)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

var multiSpaceRE = regexp.MustCompile(`\s{2,}`)

// lineStrategy is the last resort: split raw text lines on runs of two or
// more spaces.
type lineStrategy struct{}

func (lineStrategy) Name() string { return StrategyLines }

func (lineStrategy) TryExtract(p Page) ([][]string, bool) {
	text := p.Text()
	if text == "" {
		return nil, false
	}
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var cells []string
		for _, c := range multiSpaceRE.Split(line, -1) {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}
