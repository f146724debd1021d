package repository

import (
	"context"
	"fmt"

	"banking-service/internal/domain"
)

// sortColumns whitelists API sort keys against ledger columns. Anything not
// in this map must be rejected before reaching the store.
var sortColumns = map[string]string{
	domain.SortByCreatedAt:       "created_at",
	domain.SortByAmount:          "amount",
	domain.SortByTransactionType: "transaction_type",
}

func (t *bankTxStore) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, transaction_type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := t.tx.Exec(ctx, query,
		txn.ID, txn.AccountID, txn.TransactionType, txn.Amount, txn.Description, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// buildTransactionListQuery assembles the filtered, sorted, paginated SELECT
// for one page of an account's history. Sort columns come from the whitelist
// only; user input is never interpolated.
func buildTransactionListQuery(accountID string, q *domain.TransactionQuery) (string, []any) {
	query := `
		SELECT id, account_id, transaction_type, amount, description, created_at
		FROM transactions
		WHERE account_id = $1`
	args := []any{accountID}

	if q.Type != "" {
		args = append(args, q.Type)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}

	// Secondary sort on id keeps ties deterministic across pages.
	query += fmt.Sprintf(" ORDER BY %s %s, id", sortColumns[q.SortBy], q.SortOrder)

	args = append(args, q.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, q.Offset())
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return query, args
}

// buildTransactionCountQuery counts the filtered (unsorted) set for
// pagination metadata.
func buildTransactionCountQuery(accountID string, q *domain.TransactionQuery) (string, []any) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1`
	args := []any{accountID}
	if q.Type != "" {
		args = append(args, q.Type)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}
	return query, args
}

func (s *bankStore) ListTransactions(ctx context.Context, accountID string, q *domain.TransactionQuery) ([]*domain.Transaction, int64, error) {
	listQuery, listArgs := buildTransactionListQuery(accountID, q)
	rows, err := s.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, q.Limit)
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.AccountID, &txn.TransactionType, &txn.Amount, &txn.Description, &txn.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read transactions: %w", err)
	}

	countQuery, countArgs := buildTransactionCountQuery(accountID, q)
	var total int64
	if err := s.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return transactions, total, nil
}
