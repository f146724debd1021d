package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banking-service/internal/domain"
	publisher "banking-service/internal/pub"
	"banking-service/internal/repository"
	xerrors "banking-service/internal/utils/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionUsecase applies deposits, withdrawals, and transfers against
// accounts. Every request runs as one atomic unit of work: the balance
// mutation(s) and the ledger append commit together or not at all.
type TransactionUsecase struct {
	store     repository.Store
	accountUC *AccountUsecase
	events    *publisher.TransactionEventPublisher // nil disables eventing
	log       *zap.Logger
}

func NewTransactionUsecase(
	store repository.Store,
	accountUC *AccountUsecase,
	events *publisher.TransactionEventPublisher,
	log *zap.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		store:     store,
		accountUC: accountUC,
		events:    events,
		log:       log,
	}
}

// Execute validates and applies one transaction request against the given
// source account. Edge validation has already run; the processor still
// refuses non-positive amounts and empty descriptions on its own.
func (uc *TransactionUsecase) Execute(ctx context.Context, accountID string, req *domain.TransactionRequest) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", xerrors.ErrInvalidRequest)
	}
	if req.Description == "" || len(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be 1-%d characters", xerrors.ErrInvalidRequest, domain.MaxDescriptionLength)
	}

	// Resolve the source account before anything else so a missing source
	// reports ahead of transfer-specific failures.
	if _, err := uc.store.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return xerrors.ErrAccountNotFound
		}
		return err
	}

	var entry *domain.Transaction
	var balanceAfter string
	touched := []string{accountID}

	err := uc.store.RunAtomic(ctx, func(ctx context.Context, tx repository.TxStore) error {
		var err error
		switch req.TransactionType {
		case domain.TransactionTypeDeposit:
			entry, balanceAfter, err = uc.deposit(ctx, tx, accountID, req)
		case domain.TransactionTypeWithdrawal:
			entry, balanceAfter, err = uc.withdraw(ctx, tx, accountID, req)
		case domain.TransactionTypeTransfer:
			entry, balanceAfter, err = uc.transfer(ctx, tx, accountID, req)
			touched = append(touched, req.RecipientAccountID)
		default:
			err = fmt.Errorf("%w: unknown transaction type %q", xerrors.ErrInvalidRequest, req.TransactionType)
		}
		return err
	})
	if err != nil {
		return err
	}

	uc.accountUC.Invalidate(ctx, touched...)
	uc.publishCompleted(ctx, entry, req.RecipientAccountID, balanceAfter)

	uc.log.Info("transaction committed",
		zap.String("transaction_id", entry.ID),
		zap.String("account_id", accountID),
		zap.String("type", string(entry.TransactionType)),
		zap.String("amount", entry.Amount.String()),
	)
	return nil
}

func (uc *TransactionUsecase) deposit(ctx context.Context, tx repository.TxStore, accountID string, req *domain.TransactionRequest) (*domain.Transaction, string, error) {
	account, err := uc.lockSource(ctx, tx, accountID)
	if err != nil {
		return nil, "", err
	}

	newBalance := account.Balance.Add(req.Amount)
	if err := tx.UpdateAccountBalance(ctx, account.ID, newBalance); err != nil {
		return nil, "", err
	}

	entry := newLedgerEntry(account.ID, req)
	if err := tx.InsertTransaction(ctx, entry); err != nil {
		return nil, "", err
	}
	return entry, newBalance.String(), nil
}

func (uc *TransactionUsecase) withdraw(ctx context.Context, tx repository.TxStore, accountID string, req *domain.TransactionRequest) (*domain.Transaction, string, error) {
	account, err := uc.lockSource(ctx, tx, accountID)
	if err != nil {
		return nil, "", err
	}

	if account.Balance.LessThan(req.Amount) {
		return nil, "", xerrors.ErrInsufficientBalance
	}

	newBalance := account.Balance.Sub(req.Amount)
	if err := tx.UpdateAccountBalance(ctx, account.ID, newBalance); err != nil {
		return nil, "", err
	}

	entry := newLedgerEntry(account.ID, req)
	if err := tx.InsertTransaction(ctx, entry); err != nil {
		return nil, "", err
	}
	return entry, newBalance.String(), nil
}

// transfer debits the source, credits the recipient, and appends a single
// ledger entry keyed to the source account. Rows are locked in ascending id
// order to avoid deadlocks between concurrent opposing transfers.
func (uc *TransactionUsecase) transfer(ctx context.Context, tx repository.TxStore, accountID string, req *domain.TransactionRequest) (*domain.Transaction, string, error) {
	if req.RecipientAccountID == "" {
		return nil, "", xerrors.ErrRecipientRequired
	}
	if req.RecipientAccountID == accountID {
		return nil, "", xerrors.ErrSelfTransfer
	}

	lockOrder := []string{accountID, req.RecipientAccountID}
	if lockOrder[1] < lockOrder[0] {
		lockOrder[0], lockOrder[1] = lockOrder[1], lockOrder[0]
	}

	locked := make(map[string]*domain.Account, 2)
	for _, id := range lockOrder {
		account, err := tx.GetAccountForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				if id == accountID {
					return nil, "", xerrors.ErrAccountNotFound
				}
				return nil, "", xerrors.ErrRecipientNotFound
			}
			return nil, "", err
		}
		locked[id] = account
	}

	source := locked[accountID]
	recipient := locked[req.RecipientAccountID]

	if source.Balance.LessThan(req.Amount) {
		return nil, "", xerrors.ErrInsufficientBalance
	}

	sourceBalance := source.Balance.Sub(req.Amount)
	if err := tx.UpdateAccountBalance(ctx, source.ID, sourceBalance); err != nil {
		return nil, "", err
	}
	if err := tx.UpdateAccountBalance(ctx, recipient.ID, recipient.Balance.Add(req.Amount)); err != nil {
		return nil, "", err
	}

	entry := newLedgerEntry(source.ID, req)
	if err := tx.InsertTransaction(ctx, entry); err != nil {
		return nil, "", err
	}
	return entry, sourceBalance.String(), nil
}

func (uc *TransactionUsecase) lockSource(ctx context.Context, tx repository.TxStore, accountID string) (*domain.Account, error) {
	account, err := tx.GetAccountForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func newLedgerEntry(accountID string, req *domain.TransactionRequest) *domain.Transaction {
	return &domain.Transaction{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Description:     req.Description,
		CreatedAt:       time.Now().UTC(),
	}
}

func (uc *TransactionUsecase) publishCompleted(ctx context.Context, entry *domain.Transaction, recipientID, balanceAfter string) {
	if uc.events == nil {
		return
	}
	err := uc.events.Publish(ctx, &publisher.TransactionEvent{
		EventType:          "transaction.completed",
		TransactionID:      entry.ID,
		AccountID:          entry.AccountID,
		TransactionType:    string(entry.TransactionType),
		Amount:             entry.Amount.String(),
		RecipientAccountID: recipientID,
		BalanceAfter:       balanceAfter,
	})
	if err != nil {
		uc.log.Warn("failed to publish transaction event", zap.Error(err))
	}
}

// History returns one page of an account's ledger. A page past the end of
// the data returns an empty slice with the true total; an unknown account
// simply has an empty history.
func (uc *TransactionUsecase) History(ctx context.Context, accountID string, q *domain.TransactionQuery) (*domain.TransactionPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	transactions, total, err := uc.store.ListTransactions(ctx, accountID, q)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionPage{
		Transactions: transactions,
		Pagination:   domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}
