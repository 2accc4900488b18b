// Package parser is the core entry point: it opens a statement document,
// detects the bank profile, runs the matching extraction pipeline and
// returns normalized transactions. It never propagates a failure: every
// error tier degrades to fewer or zero transactions plus a log line.
package parser

import (
	"bytes"
	"io"
	"log"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/nvraghav/khata/parser/canara"
	"github.com/nvraghav/khata/parser/columns"
	"github.com/nvraghav/khata/parser/common"
	"github.com/nvraghav/khata/parser/normalize"
	"github.com/nvraghav/khata/parser/pageread"
	"github.com/nvraghav/khata/parser/rows"
	"github.com/nvraghav/khata/parser/sbi"
)

// ParseTransactions extracts the ordered transaction list from the
// document at path. Returns an empty list on any failure.
func ParseTransactions(path string) []common.Transaction {
	doc, err := pageread.Open(path)
	if err != nil {
		log.Printf("parser: cannot open %s: %v", path, err)
		return nil
	}
	defer doc.Close()
	txns, _ := ParseDocument(doc)
	return txns
}

// ParseDocument runs detection and the matching pipeline over an already
// open document. The caller owns the document handle.
func ParseDocument(doc pageread.Document) (txns []common.Transaction, bank string) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("parser: fatal: %v\n%s", rec, debug.Stack())
			txns = nil
		}
	}()

	bank = DetectBank(doc)
	log.Printf("parser: detected bank: %s", bank)

	switch bank {
	case BankCanara:
		txns = canara.Extract(doc)
	case BankSBI:
		txns = sbi.Extract(doc)
	default:
		txns = parseGeneric(doc)
	}

	log.Printf("parser: final transactions: %d (%v)", len(txns), time.Since(start))
	if len(txns) > 0 && txns[0].OpeningBalance != nil {
		log.Printf("parser: opening balance: %s", txns[0].OpeningBalance)
	}
	return txns, bank
}

// parseGeneric is the table pipeline: page extraction with footer
// recovery, column-role detection, column-mapped segmentation,
// normalization.
func parseGeneric(doc pageread.Document) []common.Transaction {
	pages := extractPages(doc)
	if len(pages) == 0 {
		log.Println("parser: no content extracted")
		return nil
	}
	log.Printf("parser: pages extracted: %d", len(pages))

	cmap, hdrRow, hdrPage, ok := columns.Detect(pages)
	if !ok {
		log.Println("parser: column detection failed")
		return nil
	}
	log.Printf("parser: column map: %v (header row=%d page=%d)", cmap, hdrRow, hdrPage)

	raw := rows.Extract(pages, cmap, hdrRow, hdrPage)
	log.Printf("parser: raw transactions: %d", len(raw))
	if len(raw) == 0 {
		return nil
	}
	return normalize.Normalize(raw)
}

// extractPages turns each page into a row matrix, remembering the first
// winning strategy so later pages prefer it, and folds in footer rows the
// table pass missed (merged in serial order).
func extractPages(doc pageread.Document) [][][]string {
	var all [][][]string
	preferred := ""
	seen := map[int]bool{}

	for pg := 0; pg < doc.NumPages(); pg++ {
		page := doc.Page(pg)
		pageText := page.Text()

		pageRows, strategy := pageread.ExtractPage(page, preferred)
		if len(pageRows) == 0 {
			continue
		}
		if preferred == "" && strategy != "" {
			preferred = strategy
			log.Printf("parser: strategy=%s (page %d)", strategy, pg+1)
		}

		for _, r := range pageRows {
			if idx := rows.RowIndex(r); idx > 0 {
				seen[idx] = true
			}
		}

		if extra := rows.RecoverFromText(pageText, seen); len(extra) > 0 {
			log.Printf("parser: recovered %d footer rows on page %d", len(extra), pg+1)
			pageRows = append(pageRows, extra...)
			rows.SortByIndex(pageRows)
			for _, r := range extra {
				if idx := rows.RowIndex(r); idx > 0 {
					seen[idx] = true
				}
			}
		}

		all = append(all, pageRows)
	}
	return all
}

// ProcessFile parses one file into a Statement wrapper for presentation
// and storage layers.
func ProcessFile(path string) common.Statement {
	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	doc, err := pageread.Open(path)
	if err != nil {
		log.Printf("parser: cannot open %s: %v", path, err)
		return common.Statement{Source: source}
	}
	defer doc.Close()

	txns, bank := ParseDocument(doc)
	return common.NewStatement(source, bank, txns)
}

// ExtractText returns the raw text of every page, line breaks preserved,
// without any parsing. Used by the API's text-only mode.
func ExtractText(r io.Reader) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	data := buf.Bytes()

	doc, err := pageread.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var out strings.Builder
	for pg := 0; pg < doc.NumPages(); pg++ {
		out.WriteString(doc.Page(pg).Text())
	}
	return out.String(), nil
}

// ProcessReader parses an in-memory document, for upload handlers.
func ProcessReader(r io.Reader, name string) common.Statement {
	source := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		log.Printf("parser: cannot read %s: %v", name, err)
		return common.Statement{Source: source}
	}
	data := buf.Bytes()

	doc, err := pageread.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Printf("parser: cannot open %s: %v", name, err)
		return common.Statement{Source: source}
	}
	defer doc.Close()

	txns, bank := ParseDocument(doc)
	return common.NewStatement(source, bank, txns)
}
