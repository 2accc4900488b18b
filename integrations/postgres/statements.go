package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nvraghav/khata/parser/common"
)

// UpsertStatement inserts a statement record, or returns the existing one
// keyed by source. When force is set, an existing statement's transactions
// are wiped and its totals rewritten so the import can rerun.
func (db *DB) UpsertStatement(ctx context.Context, stmt common.Statement, force bool) (id string, existed bool, err error) {
	err = db.Pool.QueryRow(ctx,
		`SELECT id FROM statements WHERE source = $1`, stmt.Source).Scan(&id)
	switch {
	case err == nil:
		if !force {
			return id, true, nil
		}
		if _, err = db.Pool.Exec(ctx,
			`DELETE FROM transactions WHERE statement_id = $1`, id); err != nil {
			return "", true, fmt.Errorf("failed to clear transactions: %w", err)
		}
		_, err = db.Pool.Exec(ctx,
			`UPDATE statements
			 SET bank = $2, opening_balance = $3, total_credit = $4, total_debit = $5, nett = $6
			 WHERE id = $1`,
			id, stmt.Bank, stmt.Opening, stmt.TotalCredit, stmt.TotalDebit, stmt.Nett)
		if err != nil {
			return "", true, fmt.Errorf("failed to update statement: %w", err)
		}
		return id, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		err = db.Pool.QueryRow(ctx,
			`INSERT INTO statements (source, bank, opening_balance, total_credit, total_debit, nett)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			stmt.Source, stmt.Bank, stmt.Opening, stmt.TotalCredit, stmt.TotalDebit, stmt.Nett).Scan(&id)
		if err != nil {
			return "", false, fmt.Errorf("failed to insert statement: %w", err)
		}
		return id, false, nil
	default:
		return "", false, fmt.Errorf("failed to look up statement: %w", err)
	}
}
