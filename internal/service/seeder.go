package service

import (
	"context"
	"fmt"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DemoSeeder upserts the two demo accounts the dashboard expects. Fixed ids
// keep the seeding idempotent across restarts.
type DemoSeeder struct {
	store repository.Store
	log   *zap.Logger
}

func NewDemoSeeder(store repository.Store, log *zap.Logger) *DemoSeeder {
	return &DemoSeeder{store: store, log: log}
}

func demoAccounts() []*domain.Account {
	now := time.Now().UTC()
	return []*domain.Account{
		{
			ID:            "550e8400-e29b-41d4-a716-446655440000",
			AccountNumber: "1001",
			AccountType:   domain.AccountTypeChecking,
			Balance:       decimal.NewFromFloat(5000.00),
			AccountHolder: "John Doe",
			CreatedAt:     now,
		},
		{
			ID:            "550e8400-e29b-41d4-a716-446655440001",
			AccountNumber: "1002",
			AccountType:   domain.AccountTypeSavings,
			Balance:       decimal.NewFromFloat(10000.00),
			AccountHolder: "Jane Smith",
			CreatedAt:     now,
		},
	}
}

// Seed populates demo data on first startup only; a store that already has
// accounts is left untouched so balances survive restarts.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	existing, err := s.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing accounts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, account := range demoAccounts() {
		if err := s.store.UpsertAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.AccountNumber, err)
		}
		s.log.Info("seeded demo account",
			zap.String("account_number", account.AccountNumber),
			zap.String("holder", account.AccountHolder),
		)
	}
	return nil
}
