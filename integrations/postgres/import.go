package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nvraghav/khata/parser"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int
	Skipped   int
	Failed    int
	Errors    []string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Force   bool // Force reprocessing of existing statements
	Verbose bool // Enable verbose logging
}

// ImportFile parses a single statement file and stores it. Statements
// already present (by source name) are skipped unless Force is set.
func (db *DB) ImportFile(ctx context.Context, filePath string, opts ImportOptions) ImportResult {
	fileName := filepath.Base(filePath)
	result := ImportResult{}

	statement := parser.ProcessFile(filePath)
	if len(statement.Transactions) == 0 {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: no transactions extracted", fileName))
		return result
	}

	id, existed, err := db.UpsertStatement(ctx, statement, opts.Force)
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", fileName, err))
		return result
	}
	if existed && !opts.Force {
		if opts.Verbose {
			log.Printf("skipping %s: already imported", fileName)
		}
		result.Skipped++
		return result
	}

	if err := db.InsertTransactions(ctx, id, statement.Transactions); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", fileName, err))
		return result
	}

	if opts.Verbose {
		log.Printf("imported %s: %d transactions (%s)", fileName, len(statement.Transactions), statement.Bank)
	}
	result.Processed++
	return result
}

// ImportPath imports a single file or every file in a directory.
func (db *DB) ImportPath(ctx context.Context, path string, opts ImportOptions) (ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ImportResult{}, err
	}
	if !info.IsDir() {
		return db.ImportFile(ctx, path, opts), nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return ImportResult{}, err
	}

	total := ImportResult{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		r := db.ImportFile(ctx, filepath.Join(path, e.Name()), opts)
		total.Processed += r.Processed
		total.Skipped += r.Skipped
		total.Failed += r.Failed
		total.Errors = append(total.Errors, r.Errors...)
	}
	return total, nil
}
