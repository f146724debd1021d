package repository

import (
	"context"
	"errors"
	"fmt"

	"banking-service/internal/domain"
	xerrors "banking-service/internal/utils/errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountSelect = `
	SELECT id, account_number, account_type, balance, account_holder, created_at
	FROM accounts`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.AccountHolder, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

func (s *bankStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(s.db.QueryRow(ctx, accountSelect+` WHERE id = $1`, id))
}

func (s *bankStore) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := s.db.Query(ctx, accountSelect)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.AccountType, &a.Balance, &a.AccountHolder, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// UpsertAccount inserts or replaces an account by id. Used by the demo-data
// seeder; steady-state code never creates accounts.
func (s *bankStore) UpsertAccount(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, account_type, balance, account_holder, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			account_number = EXCLUDED.account_number,
			account_type   = EXCLUDED.account_type,
			balance        = EXCLUDED.balance,
			account_holder = EXCLUDED.account_holder`
	_, err := s.db.Exec(ctx, query,
		a.ID, a.AccountNumber, a.AccountType, a.Balance, a.AccountHolder, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert account %s (pg code %s): %w", a.AccountNumber, xerrors.ParsePGErrorCode(err), err)
	}
	return nil
}

// GetAccountForUpdate locks the account row until the surrounding unit of
// work commits or rolls back, so concurrent read-modify-write of the balance
// cannot race.
func (t *bankTxStore) GetAccountForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(t.tx.QueryRow(ctx, accountSelect+` WHERE id = $1 FOR UPDATE`, id))
}

func (t *bankTxStore) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
