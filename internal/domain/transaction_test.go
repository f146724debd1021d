package domain

import (
	"testing"

	xerrors "banking-service/internal/utils/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() TransactionRequest {
	return TransactionRequest{
		TransactionType: TransactionTypeDeposit,
		Amount:          decimal.RequireFromString("50.00"),
		Description:     "pay",
	}
}

func TestTransactionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TransactionRequest)
		wantErr bool
	}{
		{name: "valid deposit", mutate: func(r *TransactionRequest) {}},
		{name: "valid transfer with recipient", mutate: func(r *TransactionRequest) {
			r.TransactionType = TransactionTypeTransfer
			r.RecipientAccountID = "550e8400-e29b-41d4-a716-446655440001"
		}},
		{name: "transfer without recipient passes edge validation", mutate: func(r *TransactionRequest) {
			r.TransactionType = TransactionTypeTransfer
		}},
		{name: "unknown type", mutate: func(r *TransactionRequest) {
			r.TransactionType = "WIRE"
		}, wantErr: true},
		{name: "zero amount", mutate: func(r *TransactionRequest) {
			r.Amount = decimal.Zero
		}, wantErr: true},
		{name: "negative amount", mutate: func(r *TransactionRequest) {
			r.Amount = decimal.RequireFromString("-1")
		}, wantErr: true},
		{name: "huge amount passes edge validation", mutate: func(r *TransactionRequest) {
			// No server-side cap; the processor turns this into an
			// insufficient-balance failure instead.
			r.Amount = decimal.NewFromInt(9999999)
		}},
		{name: "empty description", mutate: func(r *TransactionRequest) {
			r.Description = ""
		}, wantErr: true},
		{name: "description too long", mutate: func(r *TransactionRequest) {
			for len(r.Description) <= MaxDescriptionLength {
				r.Description += "x"
			}
		}, wantErr: true},
		{name: "recipient not a UUID", mutate: func(r *TransactionRequest) {
			r.TransactionType = TransactionTypeTransfer
			r.RecipientAccountID = "1002"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, xerrors.ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTransactionQueryValidateDefaults(t *testing.T) {
	q := TransactionQuery{}
	require.NoError(t, q.Validate())
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, SortByCreatedAt, q.SortBy)
	assert.Equal(t, SortOrderDesc, q.SortOrder)
	assert.Equal(t, 0, q.Offset())
}

func TestTransactionQueryValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		q    TransactionQuery
	}{
		{"negative page", TransactionQuery{Page: -1}},
		{"negative limit", TransactionQuery{Limit: -10}},
		{"unknown type", TransactionQuery{Type: "REFUND"}},
		{"unknown sortBy", TransactionQuery{SortBy: "balance"}},
		{"unknown sortOrder", TransactionQuery{SortOrder: "UP"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.q.Validate(), xerrors.ErrInvalidRequest)
		})
	}
}

func TestTransactionQueryOffset(t *testing.T) {
	q := TransactionQuery{Page: 3, Limit: 10}
	require.NoError(t, q.Validate())
	assert.Equal(t, 20, q.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		total      int64
		totalPages int64
	}{
		{"exact division", 10, 30, 3},
		{"partial last page", 10, 31, 4},
		{"single short page", 10, 3, 1},
		{"empty set", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(1, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}
