package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking-service/internal/config"
	"banking-service/internal/server"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Balances and amounts serialize as JSON numbers, matching the wire
	// format the dashboard consumes.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("failed to start banking service", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("banking service starting", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}
