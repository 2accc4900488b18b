package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nvraghav/khata/parser/common"
)

// InsertTransactions writes a statement's transaction list in document
// order, sequence starting at 1. Batched per statement.
func (db *DB) InsertTransactions(ctx context.Context, statementID string, txns []common.Transaction) error {
	batch := &pgx.Batch{}
	for i, tx := range txns {
		batch.Queue(
			`INSERT INTO transactions
			 (statement_id, sequence, date, description, amount, balance, type, reference, category)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (statement_id, sequence) DO NOTHING`,
			statementID, i+1, tx.Date, tx.Description, tx.Amount, tx.Balance,
			tx.Type, tx.Reference, tx.Category)
	}

	results := db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range txns {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}
	return nil
}
