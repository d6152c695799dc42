package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/badrinagarjun/marketpulse/configs"
	"github.com/badrinagarjun/marketpulse/internal/handlers"
	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/badrinagarjun/marketpulse/internal/quotes"
	"github.com/badrinagarjun/marketpulse/internal/routes"
	"github.com/badrinagarjun/marketpulse/internal/seed"
	"github.com/badrinagarjun/marketpulse/internal/store"
	"github.com/badrinagarjun/marketpulse/internal/trading"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()
	seed.Run()

	provider := newQuoteProvider()

	orders := trading.NewService(store.DB, provider)
	router := routes.NewRoutes(
		handlers.NewChallengeHandler(orders),
		handlers.NewStockHandler(provider),
	)

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}

func newQuoteProvider() quotes.Provider {
	cfg := configs.AppConfig.Quotes
	client := &http.Client{Timeout: cfg.Timeout}

	var provider quotes.Provider
	switch cfg.Provider {
	case "finnhub":
		provider = quotes.NewFinnhub(cfg.FinnhubKey, client)
	default:
		provider = quotes.NewAlphaVantage(cfg.AlphaVantageKey, client)
	}
	logger.Log.Info("quote provider configured", zap.String("provider", cfg.Provider))

	if addr := configs.AppConfig.Redis.Addr; addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: configs.AppConfig.Redis.Password,
			DB:       configs.AppConfig.Redis.DB,
		})
		provider = quotes.NewCached(provider, rdb, cfg.CacheTTL)
		logger.Log.Info("quote cache enabled", zap.String("redis", addr), zap.Duration("ttl", cfg.CacheTTL))
	}
	return provider
}
