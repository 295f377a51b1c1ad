package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/domain"
)

type staticSymbols struct {
	symbols []string
	err     error
}

func (s staticSymbols) ListSymbols(context.Context) ([]string, error) {
	return s.symbols, s.err
}

type recordingRefresher struct {
	refreshed []string
	fail      map[string]bool
}

func (r *recordingRefresher) Refresh(_ context.Context, symbol string) (*domain.Quote, error) {
	if r.fail[symbol] {
		return nil, errors.New("provider down")
	}
	r.refreshed = append(r.refreshed, symbol)
	return &domain.Quote{Symbol: symbol, Price: decimal.NewFromInt(1)}, nil
}

func TestScheduler_RunNow(t *testing.T) {
	refresher := &recordingRefresher{fail: map[string]bool{"MSFT": true}}
	s := NewScheduler(staticSymbols{symbols: []string{"AAPL", "MSFT", "NFLX"}}, refresher, "@every 1m")

	n, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"AAPL", "NFLX"}, refresher.refreshed)
}

func TestScheduler_RunNowListError(t *testing.T) {
	s := NewScheduler(staticSymbols{err: errors.New("db down")}, &recordingRefresher{}, "@every 1m")

	_, err := s.RunNow(context.Background())
	assert.Error(t, err)
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(staticSymbols{}, &recordingRefresher{}, "not a schedule")
	assert.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(staticSymbols{}, &recordingRefresher{}, "@every 1h")
	require.NoError(t, s.Start())
	s.Stop()
}
