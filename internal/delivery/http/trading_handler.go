package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"finance/internal/delivery/http/dto"
	"finance/internal/domain"
	"finance/internal/middleware"
	"finance/internal/usecase"
)

// TradingHandler handles quote, trade and portfolio requests
type TradingHandler struct {
	trading *usecase.TradingService
}

// NewTradingHandler creates a new TradingHandler
func NewTradingHandler(trading *usecase.TradingService) *TradingHandler {
	return &TradingHandler{trading: trading}
}

// GetQuote looks up a symbol
// GET /api/quote?symbol=AAPL
func (h *TradingHandler) GetQuote(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	quote, err := h.trading.Quote(ctx, c.QueryParam("symbol"))
	if err != nil {
		return err
	}

	return SuccessResponse(c, dto.NewQuoteOutput(quote))
}

// Buy purchases shares
// POST /api/buy
func (h *TradingHandler) Buy(c echo.Context) error {
	userID, symbol, shares, err := h.parseTrade(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.trading.Buy(ctx, userID, symbol, shares)
	if err != nil {
		return err
	}

	return CreatedResponse(c, "Bought!", dto.NewTransactionOutput(tx))
}

// Sell disposes of shares
// POST /api/sell
func (h *TradingHandler) Sell(c echo.Context) error {
	userID, symbol, shares, err := h.parseTrade(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.trading.Sell(ctx, userID, symbol, shares)
	if err != nil {
		return err
	}

	return CreatedResponse(c, "Sold!", dto.NewTransactionOutput(tx))
}

// GetPortfolio returns holdings, cash and totals
// GET /api/portfolio
func (h *TradingHandler) GetPortfolio(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	portfolio, err := h.trading.GetPortfolio(ctx, userID)
	if err != nil {
		return err
	}

	return SuccessResponse(c, dto.NewPortfolioOutput(portfolio))
}

// GetHistory returns every transaction, oldest first
// GET /api/history
func (h *TradingHandler) GetHistory(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	txs, err := h.trading.GetHistory(ctx, userID)
	if err != nil {
		return err
	}

	return SuccessResponse(c, dto.NewTransactionOutputs(txs))
}

// GetSymbols lists the symbols the user holds, for the sell form
// GET /api/symbols
func (h *TradingHandler) GetSymbols(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	symbols, err := h.trading.HeldSymbols(ctx, userID)
	if err != nil {
		return err
	}

	return SuccessResponse(c, symbols)
}

// parseTrade reads a trade request. The symbol is checked before the share count.
func (h *TradingHandler) parseTrade(c echo.Context) (uuid.UUID, string, int64, error) {
	userID, err := currentUser(c)
	if err != nil {
		return uuid.Nil, "", 0, err
	}

	var req dto.TradeRequest
	if err := bindRequest(c, &req); err != nil {
		return uuid.Nil, "", 0, err
	}

	symbol, err := domain.ValidateSymbol(req.Symbol)
	if err != nil {
		return uuid.Nil, "", 0, err
	}

	shares, err := domain.ParseShares(string(req.Shares))
	if err != nil {
		return uuid.Nil, "", 0, err
	}

	return userID, symbol, shares, nil
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, domain.NewAuthError("unauthenticated", "login required")
	}
	return userID, nil
}
