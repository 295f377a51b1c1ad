package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"finance/internal/domain"
)

// QuoteRefresher reloads a symbol's quote into the cache
type QuoteRefresher interface {
	Refresh(ctx context.Context, symbol string) (*domain.Quote, error)
}

// SymbolLister lists the symbols currently held by any user
type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// Scheduler keeps quotes of held symbols warm so buy/sell and portfolio pages hit the cache
type Scheduler struct {
	cron    *cron.Cron
	symbols SymbolLister
	quotes  QuoteRefresher
	spec    string
	timeout time.Duration
}

// NewScheduler creates a new scheduler. spec is a cron expression such as "@every 1m".
func NewScheduler(symbols SymbolLister, quotes QuoteRefresher, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		symbols: symbols,
		quotes:  quotes,
		spec:    spec,
		timeout: 30 * time.Second,
	}
}

// Start registers the warm-up job and starts the cron scheduler
func (s *Scheduler) Start() error {
	log.Printf("Starting quote warmer... [Schedule: %s]", s.spec)

	if _, err := s.cron.AddFunc(s.spec, s.runJob); err != nil {
		return fmt.Errorf("failed to schedule quote warmer: %w", err)
	}

	s.cron.Start()
	log.Println("[OK] Quote warmer started successfully")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Println("Stopping quote warmer...")
	<-s.cron.Stop().Done()
	log.Println("[OK] Quote warmer stopped")
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunNow(ctx); err != nil {
		log.WithError(err).Error("ERROR: quote warm-up failed")
	}
}

// RunNow refreshes every held symbol once and returns how many were refreshed
func (s *Scheduler) RunNow(ctx context.Context) (int, error) {
	symbols, err := s.symbols.ListSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list held symbols: %w", err)
	}

	refreshed := 0
	for _, symbol := range symbols {
		if _, err := s.quotes.Refresh(ctx, symbol); err != nil {
			log.WithError(err).WithField("symbol", symbol).Warn("quote refresh failed")
			continue
		}
		refreshed++
	}

	log.WithFields(log.Fields{
		"symbols":   len(symbols),
		"refreshed": refreshed,
	}).Debug("[CRON] Quotes refreshed")
	return refreshed, nil
}
