package repository

import (
	"context"
	"fmt"

	"banking-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TxStore exposes the mutations available inside an atomic unit of work.
// It is only ever handed to a UnitOfWork callback; mutations performed
// through it commit or roll back together.
type TxStore interface {
	// GetAccountForUpdate loads an account and holds a row lock on it until
	// the unit of work completes.
	GetAccountForUpdate(ctx context.Context, id string) (*domain.Account, error)
	UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
}

type UnitOfWork func(ctx context.Context, tx TxStore) error

// Store is the persistence boundary for accounts and the transaction ledger.
type Store interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	ListTransactions(ctx context.Context, accountID string, q *domain.TransactionQuery) ([]*domain.Transaction, int64, error)
	UpsertAccount(ctx context.Context, a *domain.Account) error

	// RunAtomic executes fn inside a single database transaction. Any error
	// from fn rolls back every mutation made through the TxStore.
	RunAtomic(ctx context.Context, fn UnitOfWork) error

	EnsureSchema(ctx context.Context) error
}

type bankStore struct {
	db *pgxpool.Pool
}

func NewBankStore(db *pgxpool.Pool) Store {
	return &bankStore{db: db}
}

type bankTxStore struct {
	tx pgx.Tx
}

func (s *bankStore) RunAtomic(ctx context.Context, fn UnitOfWork) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &bankTxStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	account_number VARCHAR(20) UNIQUE NOT NULL,
	account_type VARCHAR(16) NOT NULL CHECK (account_type IN ('CHECKING', 'SAVINGS')),
	balance NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
	account_holder VARCHAR(100) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY,
	account_id UUID NOT NULL REFERENCES accounts(id),
	transaction_type VARCHAR(16) NOT NULL CHECK (transaction_type IN ('DEPOSIT', 'WITHDRAWAL', 'TRANSFER')),
	amount NUMERIC(15,2) NOT NULL CHECK (amount > 0),
	description VARCHAR(200) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at);
CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(transaction_type);
CREATE INDEX IF NOT EXISTS idx_transactions_amount ON transactions(amount);
`

// EnsureSchema creates tables and indexes on first startup. Safe to run on
// every boot.
func (s *bankStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
