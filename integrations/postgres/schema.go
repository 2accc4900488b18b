package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Statements table with natural key (source)
CREATE TABLE IF NOT EXISTS statements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source VARCHAR(255) NOT NULL,
    bank VARCHAR(50) NOT NULL DEFAULT 'generic',
    opening_balance NUMERIC(18,2),
    total_credit NUMERIC(18,2) NOT NULL,
    total_debit NUMERIC(18,2) NOT NULL,
    nett NUMERIC(18,2) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- Natural key for deduplication
    UNIQUE(source)
);

-- Transactions table
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    statement_id UUID NOT NULL REFERENCES statements(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,
    date VARCHAR(20) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount NUMERIC(18,2) NOT NULL,
    balance NUMERIC(18,2),
    type VARCHAR(2) NOT NULL DEFAULT '',
    reference VARCHAR(255) DEFAULT '',
    category VARCHAR(50) NOT NULL DEFAULT 'Other',
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- Prevent duplicate transactions within a statement
    UNIQUE(statement_id, sequence)
);

CREATE INDEX IF NOT EXISTS idx_transactions_statement ON transactions(statement_id);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
`

// EnsureSchema creates the tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
