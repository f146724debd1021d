package usecase

import (
	"context"
	"encoding/json"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accountCacheTTL     = 30 * time.Second
	accountListCacheKey = "accounts:all"
	accountCacheKeyPfx  = "account:"
)

// AccountUsecase serves the read path for accounts with a redis
// read-through cache. Cache failures fall back to the store; the cache is
// never authoritative.
type AccountUsecase struct {
	store repository.Store
	rdb   *redis.Client // nil disables caching
	log   *zap.Logger
}

func NewAccountUsecase(store repository.Store, rdb *redis.Client, log *zap.Logger) *AccountUsecase {
	return &AccountUsecase{store: store, rdb: rdb, log: log}
}

func (uc *AccountUsecase) Get(ctx context.Context, id string) (*domain.Account, error) {
	if uc.rdb != nil {
		if raw, err := uc.rdb.Get(ctx, accountCacheKeyPfx+id).Bytes(); err == nil {
			var a domain.Account
			if err := json.Unmarshal(raw, &a); err == nil {
				return &a, nil
			}
		}
	}

	account, err := uc.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, accountCacheKeyPfx+id, account)
	return account, nil
}

func (uc *AccountUsecase) List(ctx context.Context) ([]*domain.Account, error) {
	if uc.rdb != nil {
		if raw, err := uc.rdb.Get(ctx, accountListCacheKey).Bytes(); err == nil {
			var accounts []*domain.Account
			if err := json.Unmarshal(raw, &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := uc.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, accountListCacheKey, accounts)
	return accounts, nil
}

// Invalidate drops cached entries for the given accounts plus the list key.
// Called after every committed transaction.
func (uc *AccountUsecase) Invalidate(ctx context.Context, ids ...string) {
	if uc.rdb == nil {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, accountCacheKeyPfx+id)
	}
	keys = append(keys, accountListCacheKey)
	if err := uc.rdb.Del(ctx, keys...).Err(); err != nil {
		uc.log.Warn("failed to invalidate account cache", zap.Error(err))
	}
}

func (uc *AccountUsecase) cacheSet(ctx context.Context, key string, v any) {
	if uc.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := uc.rdb.Set(ctx, key, raw, accountCacheTTL).Err(); err != nil {
		uc.log.Debug("failed to cache account data", zap.String("key", key), zap.Error(err))
	}
}
