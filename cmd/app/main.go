package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"finance/configs"
	"finance/internal/adapter/kafka"
	httpdelivery "finance/internal/delivery/http"
	"finance/internal/domain"
	"finance/internal/infra"
	"finance/internal/service"
	"finance/internal/session"
	"finance/internal/store"
	"finance/internal/usecase"
)

// tradePublisher is a domain.TradePublisher that must be flushed on shutdown
type tradePublisher interface {
	domain.TradePublisher
	Close() error
}

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := infra.SetupLogging(cfg.Log.Level, cfg.Server.IsProduction()); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	balance, err := cfg.Trading.Balance()
	if err != nil {
		log.Fatalf("Invalid trading configuration: %v", err)
	}

	ctx := context.Background()

	// Ledger store
	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Redis backs the quote cache and sessions when configured
	var ring *redis.Ring
	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		ring = redis.NewRing(&redis.RingOptions{
			Addrs:    map[string]string{"primary": cfg.Redis.Addr},
			Password: cfg.Redis.Password,
		})
		defer ring.Close()

		if err := ring.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessions = session.NewRedisStore(ring, cfg.Session.TTL)
		log.Printf("[OK] Redis connected (%s)", cfg.Redis.Addr)
	} else {
		log.Println("REDIS_ADDR not set, using in-process quote cache and sessions")
	}

	// Quotes
	quoteService := service.NewQuoteService(cfg.Quote.URL, cfg.Quote.APIKey, cfg.Quote.Timeout)
	cachedQuotes := service.NewCachedQuoteService(quoteService, ring, cfg.Quote.CacheTTL)

	// Trade events
	var publisher tradePublisher = kafka.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		log.Printf("[OK] Publishing trades to %s on %v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Error("ERROR: failed to close trade publisher")
		}
	}()

	// Use cases
	tokens := session.NewTokens(cfg.Session.Secret, cfg.Session.TTL)
	authService := usecase.NewAuthService(st.Users, sessions, tokens, balance)
	tradingService := usecase.NewTradingService(st.Ledger, cachedQuotes, publisher, balance)

	// Quote warmer
	scheduler := infra.NewScheduler(st.Ledger, cachedQuotes, cfg.Quote.WarmSpec)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start quote warmer: %v", err)
	}
	defer scheduler.Stop()

	// HTTP
	e := httpdelivery.NewServer()
	httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
		AuthHandler:    httpdelivery.NewAuthHandler(authService, cfg.Server.IsProduction()),
		TradingHandler: httpdelivery.NewTradingHandler(tradingService),
		Sessions:       authService,
		Ops:            httpdelivery.NewOpsRouter("finance", st.Ping),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Finance server starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Store: %s", cfg.Database.Driver)
	log.Printf("Starting balance: %s", balance.StringFixed(2))

	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("[OK] Server exited gracefully")
}
