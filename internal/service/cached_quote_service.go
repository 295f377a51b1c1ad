package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"finance/internal/domain"
)

const (
	quoteKeyPrefix = "quote:"
	localCacheSize = 1000
)

// cachedQuote is the serialized form of a quote. Price is kept as a string so it round-trips exactly.
type cachedQuote struct {
	Symbol string
	Name   string
	Price  string
}

// CachedQuoteService wraps a QuoteProvider with an in-process cache and, optionally, a Redis ring
type CachedQuoteService struct {
	provider domain.QuoteProvider
	cache    *cache.Cache
	ttl      time.Duration
}

// NewCachedQuoteService creates a new CachedQuoteService. ring may be nil.
func NewCachedQuoteService(provider domain.QuoteProvider, ring *redis.Ring, ttl time.Duration) *CachedQuoteService {
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(localCacheSize, ttl),
	}
	if ring != nil {
		opts.Redis = ring
	}

	return &CachedQuoteService{
		provider: provider,
		cache:    cache.New(opts),
		ttl:      ttl,
	}
}

// Lookup returns a cached quote when fresh, otherwise asks the provider
func (s *CachedQuoteService) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	var cached cachedQuote
	err := s.cache.Get(ctx, quoteKeyPrefix+symbol, &cached)
	if err == nil {
		if quote, convErr := cached.toDomain(); convErr == nil {
			return quote, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.WithError(err).WithField("symbol", symbol).Warn("quote cache read failed")
	}

	return s.Refresh(ctx, symbol)
}

// Refresh fetches a quote from the provider and stores it in the cache
func (s *CachedQuoteService) Refresh(ctx context.Context, symbol string) (*domain.Quote, error) {
	quote, err := s.provider.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	err = s.cache.Set(&cache.Item{
		Ctx: ctx,
		Key: quoteKeyPrefix + symbol,
		Value: &cachedQuote{
			Symbol: quote.Symbol,
			Name:   quote.Name,
			Price:  quote.Price.String(),
		},
		TTL: s.ttl,
	})
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("quote cache write failed")
	}

	return quote, nil
}

func (c *cachedQuote) toDomain() (*domain.Quote, error) {
	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid cached price %q: %w", c.Price, err)
	}
	return &domain.Quote{Symbol: c.Symbol, Name: c.Name, Price: price}, nil
}
