package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"finance/internal/domain"
)

// quoteRefresher is implemented by caching providers. Trades price through it so they never see a stale quote.
type quoteRefresher interface {
	Refresh(ctx context.Context, symbol string) (*domain.Quote, error)
}

// TradingService handles buying, selling and portfolio reporting
type TradingService struct {
	ledger          domain.LedgerRepository
	quotes          domain.QuoteProvider
	publisher       domain.TradePublisher
	startingBalance decimal.Decimal
	now             func() time.Time
}

// NewTradingService creates a new TradingService
func NewTradingService(
	ledger domain.LedgerRepository,
	quotes domain.QuoteProvider,
	publisher domain.TradePublisher,
	startingBalance decimal.Decimal,
) *TradingService {
	return &TradingService{
		ledger:          ledger,
		quotes:          quotes,
		publisher:       publisher,
		startingBalance: startingBalance,
		now:             time.Now,
	}
}

// Quote looks up the current price of a symbol
func (s *TradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol, err := domain.ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, symbol, false)
}

// Buy purchases shares at the current quote, paying from the user's cash
func (s *TradingService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, err
	}

	quote, err := s.lookup(ctx, symbol, true)
	if err != nil {
		return nil, err
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	tx := s.newTransaction(userID, symbol, shares, quote.Price)

	err = s.ledger.WithinTx(ctx, func(ctx context.Context, ltx domain.LedgerTx) error {
		cash, err := ltx.LockCash(ctx, userID)
		if err != nil {
			return err
		}
		if cost.GreaterThan(cash) {
			return domain.NewInsufficientFundsError(cost, cash)
		}

		holding, err := ltx.GetHolding(ctx, userID, symbol)
		if errors.Is(err, domain.ErrNotFound) {
			holding = domain.NewHolding(userID, symbol, quote.Name)
		} else if err != nil {
			return err
		}
		if quote.Name != "" {
			holding.Name = quote.Name
		}
		holding.ApplyBuy(shares, quote.Price, tx.ExecutedAt)

		if err := ltx.UpsertHolding(ctx, holding); err != nil {
			return err
		}
		if err := ltx.SetCash(ctx, userID, cash.Sub(cost)); err != nil {
			return err
		}
		return ltx.AppendTransaction(ctx, tx)
	})
	if err != nil {
		return nil, s.storeError("buy", userID, err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"symbol":  symbol,
		"shares":  shares,
		"price":   quote.Price.String(),
	}).Info("[OK] Buy executed")

	s.publish(ctx, tx)
	return tx, nil
}

// Sell disposes of shares at the current quote, crediting the user's cash
func (s *TradingService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*domain.Transaction, error) {
	symbol, err := validateOrder(symbol, shares)
	if err != nil {
		return nil, err
	}

	// Fail fast before calling the quote API; checked again under lock below
	held, err := s.ledger.GetHolding(ctx, userID, symbol)
	if err != nil {
		return nil, s.storeError("sell", userID, holdingError(symbol, err))
	}
	if shares > held.Shares {
		return nil, domain.NewInsufficientSharesError(shares, held.Shares)
	}

	quote, err := s.lookup(ctx, symbol, true)
	if err != nil {
		return nil, err
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))
	tx := s.newTransaction(userID, symbol, -shares, quote.Price)

	err = s.ledger.WithinTx(ctx, func(ctx context.Context, ltx domain.LedgerTx) error {
		cash, err := ltx.LockCash(ctx, userID)
		if err != nil {
			return err
		}

		holding, err := ltx.GetHolding(ctx, userID, symbol)
		if err != nil {
			return holdingError(symbol, err)
		}
		if shares > holding.Shares {
			return domain.NewInsufficientSharesError(shares, holding.Shares)
		}

		if closed := holding.ApplySell(shares, quote.Price, tx.ExecutedAt); closed {
			err = ltx.DeleteHolding(ctx, userID, symbol)
		} else {
			err = ltx.UpsertHolding(ctx, holding)
		}
		if err != nil {
			return err
		}

		if err := ltx.SetCash(ctx, userID, cash.Add(proceeds)); err != nil {
			return err
		}
		return ltx.AppendTransaction(ctx, tx)
	})
	if err != nil {
		return nil, s.storeError("sell", userID, err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"symbol":  symbol,
		"shares":  shares,
		"price":   quote.Price.String(),
	}).Info("[OK] Sell executed")

	s.publish(ctx, tx)
	return tx, nil
}

// GetPortfolio returns the user's holdings, cash and totals
func (s *TradingService) GetPortfolio(ctx context.Context, userID uuid.UUID) (*domain.Portfolio, error) {
	holdings, err := s.ledger.ListHoldings(ctx, userID)
	if err != nil {
		return nil, s.storeError("portfolio", userID, err)
	}

	cash, err := s.ledger.GetCash(ctx, userID)
	if err != nil {
		return nil, s.storeError("portfolio", userID, err)
	}

	return domain.NewPortfolio(holdings, cash, s.startingBalance), nil
}

// GetHistory returns every transaction of the user, oldest first
func (s *TradingService) GetHistory(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx, userID)
	if err != nil {
		return nil, s.storeError("history", userID, err)
	}
	return txs, nil
}

// HeldSymbols lists the symbols the user can sell
func (s *TradingService) HeldSymbols(ctx context.Context, userID uuid.UUID) ([]string, error) {
	holdings, err := s.ledger.ListHoldings(ctx, userID)
	if err != nil {
		return nil, s.storeError("symbols", userID, err)
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols, nil
}

// lookup resolves a quote. fresh bypasses any cache in front of the provider.
func (s *TradingService) lookup(ctx context.Context, symbol string, fresh bool) (*domain.Quote, error) {
	fetch := s.quotes.Lookup
	if refresher, ok := s.quotes.(quoteRefresher); ok && fresh {
		fetch = refresher.Refresh
	}

	quote, err := fetch(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrSymbolNotFound) {
			return nil, domain.NewNotFoundError("symbol_not_found", fmt.Sprintf("symbol %s not found", symbol))
		}
		log.WithError(err).WithField("symbol", symbol).Error("ERROR: quote lookup failed")
		return nil, domain.NewQuoteUnavailableError(err)
	}

	if quote.Name == "" {
		quote.Name = symbol
	}
	return quote, nil
}

func (s *TradingService) newTransaction(userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) *domain.Transaction {
	return &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     symbol,
		Shares:     shares,
		Price:      price,
		ExecutedAt: s.now().UTC(),
	}
}

// publish announces a committed trade. Failures are logged, never returned.
func (s *TradingService) publish(ctx context.Context, tx *domain.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTrade(ctx, tx); err != nil {
		log.WithError(err).WithField("transaction_id", tx.ID).Warn("failed to publish trade event")
	}
}

// storeError passes domain errors through and hides everything else behind store_unavailable
func (s *TradingService) storeError(op string, userID uuid.UUID, err error) error {
	if _, ok := domain.AsError(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewAuthError("unknown_user", "account not found")
	}

	log.WithError(err).WithFields(log.Fields{"op": op, "user_id": userID}).Error("ERROR: ledger operation failed")
	return domain.NewStoreUnavailableError(err)
}

func validateOrder(symbol string, shares int64) (string, error) {
	symbol, err := domain.ValidateSymbol(symbol)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateShares(shares); err != nil {
		return "", err
	}
	return symbol, nil
}

func holdingError(symbol string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("no_such_holding", fmt.Sprintf("you do not own any shares of %s", symbol))
	}
	return err
}
