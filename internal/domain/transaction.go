package domain

import (
	"fmt"
	"time"

	xerrors "banking-service/internal/utils/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

const (
	MaxDescriptionLength = 200
)

// Transaction is an immutable ledger entry. A TRANSFER produces exactly one
// entry, keyed to the source account.
type Transaction struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TransactionRequest is the POST body for creating a transaction against an
// account. RecipientAccountID carries the recipient's account id (not its
// account number) and is only meaningful for transfers.
type TransactionRequest struct {
	TransactionType    TransactionType `json:"transactionType"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	RecipientAccountID string          `json:"recipientAccountId,omitempty"`
}

// Validate performs edge validation of the request body. Recipient presence
// is deliberately not checked here; the usecase rejects a recipient-less
// transfer after resolving the source account, matching the API's error
// ordering. There is no upper bound on Amount: an oversized withdrawal or
// transfer is an insufficient-balance failure, not a malformed request.
func (r *TransactionRequest) Validate() error {
	if !r.TransactionType.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", xerrors.ErrInvalidRequest, r.TransactionType)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", xerrors.ErrInvalidRequest)
	}
	if r.Description == "" || len(r.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description must be 1-%d characters", xerrors.ErrInvalidRequest, MaxDescriptionLength)
	}
	if r.RecipientAccountID != "" {
		if _, err := uuid.Parse(r.RecipientAccountID); err != nil {
			return fmt.Errorf("%w: recipient account ID must be a UUID", xerrors.ErrInvalidRequest)
		}
	}
	return nil
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

const (
	SortByCreatedAt       = "createdAt"
	SortByAmount          = "amount"
	SortByTransactionType = "transactionType"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// TransactionQuery describes one page of an account's history.
type TransactionQuery struct {
	Page      int
	Limit     int
	Type      TransactionType // optional filter, empty = all
	SortBy    string
	SortOrder SortOrder
}

// Validate applies defaults and rejects unknown filter/sort values before
// they reach the store.
func (q *TransactionQuery) Validate() error {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 || q.Limit < 1 {
		return fmt.Errorf("%w: page and limit must be >= 1", xerrors.ErrInvalidRequest)
	}
	if q.Type != "" && !q.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", xerrors.ErrInvalidRequest, q.Type)
	}
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	switch q.SortBy {
	case SortByCreatedAt, SortByAmount, SortByTransactionType:
	default:
		return fmt.Errorf("%w: unknown sortBy %q", xerrors.ErrInvalidRequest, q.SortBy)
	}
	if q.SortOrder == "" {
		q.SortOrder = SortOrderDesc
	}
	if q.SortOrder != SortOrderAsc && q.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: sortOrder must be ASC or DESC", xerrors.ErrInvalidRequest)
	}
	return nil
}

func (q *TransactionQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// TransactionPage is one page of ledger history plus pagination metadata.
type TransactionPage struct {
	Transactions []*Transaction `json:"transactions"`
	Pagination   Pagination     `json:"pagination"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
