package hrest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"banking-service/internal/domain"
	"banking-service/internal/response"
	"banking-service/internal/usecase"
	xerrors "banking-service/internal/utils/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BankRestHandler struct {
	accountUC *usecase.AccountUsecase
	txUC      *usecase.TransactionUsecase
	log       *zap.Logger
}

func NewBankRestHandler(accountUC *usecase.AccountUsecase, txUC *usecase.TransactionUsecase, log *zap.Logger) *BankRestHandler {
	return &BankRestHandler{
		accountUC: accountUC,
		txUC:      txUC,
		log:       log,
	}
}

// ListAccounts handles GET /api/accounts.
func (h *BankRestHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.List(r.Context())
	if err != nil {
		h.log.Error("failed to list accounts", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch accounts")
		return
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	response.JSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /api/accounts/{id}.
func (h *BankRestHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(w, http.StatusNotFound, "Account not found")
		return
	}

	account, err := h.accountUC.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Account not found")
			return
		}
		h.log.Error("failed to fetch account", zap.String("account_id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch account")
		return
	}
	response.JSON(w, http.StatusOK, account)
}

// ListTransactions handles GET /api/accounts/{id}/transactions.
func (h *BankRestHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := parseTransactionQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if err := q.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	// Unknown ids have an empty history rather than erroring.
	if _, err := uuid.Parse(id); err != nil {
		response.JSON(w, http.StatusOK, &domain.TransactionPage{
			Transactions: []*domain.Transaction{},
			Pagination:   domain.NewPagination(q.Page, q.Limit, 0),
		})
		return
	}

	page, err := h.txUC.History(r.Context(), id, q)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidRequest) {
			response.Error(w, http.StatusBadRequest, "Invalid query parameters")
			return
		}
		h.log.Error("failed to list transactions", zap.String("account_id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if page.Transactions == nil {
		page.Transactions = []*domain.Transaction{}
	}
	response.JSON(w, http.StatusOK, page)
}

// CreateTransaction handles POST /api/accounts/{id}/transactions.
func (h *BankRestHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}
	req.Description = strings.TrimSpace(stripTags(req.Description))

	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}

	// A malformed id cannot exist in the store.
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(w, http.StatusNotFound, "Account not found")
		return
	}

	if err := h.txUC.Execute(r.Context(), id, &req); err != nil {
		h.writeTransactionError(w, id, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Transaction successful"})
}

func (h *BankRestHandler) writeTransactionError(w http.ResponseWriter, accountID string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrAccountNotFound):
		response.Error(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, xerrors.ErrRecipientNotFound):
		response.Error(w, http.StatusNotFound, "Recipient account not found")
	case errors.Is(err, xerrors.ErrRecipientRequired):
		response.Error(w, http.StatusBadRequest, "Recipient account ID is required for transfer")
	case errors.Is(err, xerrors.ErrSelfTransfer):
		response.Error(w, http.StatusBadRequest, "Cannot transfer to the same account")
	case errors.Is(err, xerrors.ErrInsufficientBalance):
		response.Error(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, xerrors.ErrInvalidRequest):
		response.Error(w, http.StatusBadRequest, "Invalid transaction data")
	default:
		h.log.Error("failed to process transaction", zap.String("account_id", accountID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to process transaction")
	}
}

func parseTransactionQuery(r *http.Request) (*domain.TransactionQuery, error) {
	q := &domain.TransactionQuery{
		Type:      domain.TransactionType(r.URL.Query().Get("type")),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: domain.SortOrder(r.URL.Query().Get("sortOrder")),
	}

	var err error
	if q.Page, err = parseIntParam(r, "page"); err != nil {
		return nil, err
	}
	if q.Limit, err = parseIntParam(r, "limit"); err != nil {
		return nil, err
	}
	return q, nil
}

func parseIntParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// stripTags removes anything that looks like HTML markup from free-text
// input before it reaches the ledger.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
