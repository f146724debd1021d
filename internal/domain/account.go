package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// Account is a customer account. Balance is mutated only inside an atomic
// unit of work by the transaction usecase; it never goes below zero once
// committed.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	AccountHolder string          `json:"accountHolder"`
	CreatedAt     time.Time       `json:"createdAt"`
}
