package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"banking-service/internal/config"
	hrest "banking-service/internal/handler/rest"
	publisher "banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/internal/router"
	"banking-service/internal/service"
	"banking-service/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
	rdb        *redis.Client
	log        *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) (*Server, error) {
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	store := repository.NewBankStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       0,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Cache and eventing are optional; run without them.
			log.Warn("redis unreachable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	var events *publisher.TransactionEventPublisher
	if rdb != nil && cfg.PublishEvents {
		events = publisher.NewTransactionEventPublisher(rdb)
	}

	accountUC := usecase.NewAccountUsecase(store, rdb, log)
	txUC := usecase.NewTransactionUsecase(store, accountUC, events, log)

	seeder := service.NewDemoSeeder(store, log)
	if err := seeder.Seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("demo seeding failed: %w", err)
	}

	h := hrest.NewBankRestHandler(accountUC, txUC, log)
	r := router.New(h, log)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		db:  db,
		rdb: rdb,
		log: log,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer func() {
		s.db.Close()
		if s.rdb != nil {
			_ = s.rdb.Close()
		}
	}()
	return s.httpServer.Shutdown(ctx)
}
