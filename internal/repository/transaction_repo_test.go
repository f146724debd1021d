package repository

import (
	"strings"
	"testing"

	"banking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccountID = "550e8400-e29b-41d4-a716-446655440000"

func normalizedQuery(accountID string, q *domain.TransactionQuery) (string, []any) {
	sql, args := buildTransactionListQuery(accountID, q)
	return strings.Join(strings.Fields(sql), " "), args
}

func TestBuildTransactionListQueryDefaults(t *testing.T) {
	q := &domain.TransactionQuery{}
	require.NoError(t, q.Validate())

	sql, args := normalizedQuery(testAccountID, q)

	assert.Contains(t, sql, "WHERE account_id = $1")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id")
	assert.Contains(t, sql, "LIMIT $2")
	assert.Contains(t, sql, "OFFSET $3")
	assert.Equal(t, []any{testAccountID, 10, 0}, args)
}

func TestBuildTransactionListQueryTypeFilter(t *testing.T) {
	q := &domain.TransactionQuery{Page: 2, Limit: 5, Type: domain.TransactionTypeDeposit}
	require.NoError(t, q.Validate())

	sql, args := normalizedQuery(testAccountID, q)

	assert.Contains(t, sql, "AND transaction_type = $2")
	assert.Contains(t, sql, "LIMIT $3")
	assert.Contains(t, sql, "OFFSET $4")
	assert.Equal(t, []any{testAccountID, domain.TransactionTypeDeposit, 5, 5}, args)
}

func TestBuildTransactionListQuerySortMapping(t *testing.T) {
	tests := []struct {
		sortBy string
		order  domain.SortOrder
		want   string
	}{
		{domain.SortByCreatedAt, domain.SortOrderDesc, "ORDER BY created_at DESC, id"},
		{domain.SortByAmount, domain.SortOrderAsc, "ORDER BY amount ASC, id"},
		{domain.SortByTransactionType, domain.SortOrderAsc, "ORDER BY transaction_type ASC, id"},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy+"_"+string(tt.order), func(t *testing.T) {
			q := &domain.TransactionQuery{SortBy: tt.sortBy, SortOrder: tt.order}
			require.NoError(t, q.Validate())

			sql, _ := normalizedQuery(testAccountID, q)
			assert.Contains(t, sql, tt.want)
		})
	}
}

// Every sort key the API accepts must map to a column; a miss here would
// interpolate an empty column name into the ORDER BY clause.
func TestSortColumnsCoverAPISortKeys(t *testing.T) {
	for _, key := range []string{domain.SortByCreatedAt, domain.SortByAmount, domain.SortByTransactionType} {
		col, ok := sortColumns[key]
		assert.True(t, ok, "missing column mapping for %q", key)
		assert.NotEmpty(t, col)
	}
}

func TestBuildTransactionCountQuery(t *testing.T) {
	q := &domain.TransactionQuery{}
	require.NoError(t, q.Validate())
	sql, args := buildTransactionCountQuery(testAccountID, q)
	assert.Equal(t, "SELECT COUNT(*) FROM transactions WHERE account_id = $1", sql)
	assert.Equal(t, []any{testAccountID}, args)

	q = &domain.TransactionQuery{Type: domain.TransactionTypeTransfer}
	require.NoError(t, q.Validate())
	sql, args = buildTransactionCountQuery(testAccountID, q)
	assert.Contains(t, sql, "AND transaction_type = $2")
	assert.Equal(t, []any{testAccountID, domain.TransactionTypeTransfer}, args)
}
