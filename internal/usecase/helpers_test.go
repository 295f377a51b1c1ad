package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finance/internal/domain"
	"finance/internal/infra"
	"finance/internal/repository/sqlite"
)

var startingBalance = decimal.NewFromInt(10000)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := infra.NewSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fakeQuotes serves fixed prices; symbols without a price are unknown
type fakeQuotes struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeQuotes) Lookup(_ context.Context, symbol string) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return nil, domain.ErrSymbolNotFound
	}
	return &domain.Quote{Symbol: symbol, Name: symbol + " Corp", Price: price}, nil
}

func (f *fakeQuotes) set(symbol, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = d(price)
}

type recordingPublisher struct {
	mu  sync.Mutex
	txs []*domain.Transaction
	err error
}

func (p *recordingPublisher) PublishTrade(_ context.Context, tx *domain.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = append(p.txs, tx)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

// stepClock advances one second per call so history order is deterministic
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type tradingFixture struct {
	svc       *TradingService
	quotes    *fakeQuotes
	publisher *recordingPublisher
	ledger    domain.LedgerRepository
	userID    uuid.UUID
}

func setupTrading(t *testing.T) *tradingFixture {
	t.Helper()

	db := setupTestDB(t)
	users := sqlite.NewUserRepository(db)
	ledger := sqlite.NewLedgerRepository(db)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "trader",
		PasswordHash: "hash",
		Cash:         startingBalance,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))

	quotes := &fakeQuotes{prices: map[string]decimal.Decimal{}}
	publisher := &recordingPublisher{}
	clock := &stepClock{now: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}

	svc := NewTradingService(ledger, quotes, publisher, startingBalance)
	svc.now = clock.Now

	return &tradingFixture{
		svc:       svc,
		quotes:    quotes,
		publisher: publisher,
		ledger:    ledger,
		userID:    user.ID,
	}
}

func (f *tradingFixture) cash(t *testing.T) decimal.Decimal {
	t.Helper()
	cash, err := f.ledger.GetCash(context.Background(), f.userID)
	require.NoError(t, err)
	return cash
}

func (f *tradingFixture) history(t *testing.T) []*domain.Transaction {
	t.Helper()
	txs, err := f.ledger.ListTransactions(context.Background(), f.userID)
	require.NoError(t, err)
	return txs
}

func assertCode(t *testing.T, err error, kind domain.Kind, code string) {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	e, ok := domain.AsError(err)
	require.True(t, ok, "expected *domain.Error, got %T", err)
	assert.Equal(t, code, e.Code)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}
