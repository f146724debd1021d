package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const TransactionEventsChannel = "transaction_events"

// TransactionEventPublisher fans out committed transactions over redis
// pub/sub so dashboards or downstream consumers can react without polling.
type TransactionEventPublisher struct {
	rdb *redis.Client
}

func NewTransactionEventPublisher(rdb *redis.Client) *TransactionEventPublisher {
	return &TransactionEventPublisher{rdb: rdb}
}

type TransactionEvent struct {
	EventType          string    `json:"event_type"` // transaction.completed
	TransactionID      string    `json:"transaction_id"`
	AccountID          string    `json:"account_id"`
	TransactionType    string    `json:"transaction_type"`
	Amount             string    `json:"amount"`
	RecipientAccountID string    `json:"recipient_account_id,omitempty"`
	BalanceAfter       string    `json:"balance_after,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

func (p *TransactionEventPublisher) Publish(ctx context.Context, event *TransactionEvent) error {
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, TransactionEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
