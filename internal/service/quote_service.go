package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/domain"
)

// QuoteService fetches stock quotes from an IEX-style HTTP API
type QuoteService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(baseURL, apiKey string, timeout time.Duration) *QuoteService {
	return &QuoteService{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Lookup fetches the current quote for a single symbol
func (s *QuoteService) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	endpoint := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		s.baseURL, url.PathEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote API error: status=%d, body=%s", resp.StatusCode, string(body))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, domain.ErrSymbolNotFound
	}

	var payload struct {
		Symbol      string          `json:"symbol"`
		CompanyName string          `json:"companyName"`
		LatestPrice decimal.Decimal `json:"latestPrice"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if payload.Symbol == "" {
		return nil, domain.ErrSymbolNotFound
	}
	if !payload.LatestPrice.IsPositive() {
		return nil, fmt.Errorf("quote API returned no price for %s", payload.Symbol)
	}

	return &domain.Quote{
		Symbol: strings.ToUpper(payload.Symbol),
		Name:   payload.CompanyName,
		Price:  payload.LatestPrice,
	}, nil
}
